package services

import (
	"fmt"

	"matjar/internal/cart"
	"matjar/internal/models"
	"matjar/internal/repositories"
)

// AddItemRequest is the payload for adding a product to the cart. Variant
// and size are selected by index into the product's variant schema; -1 (or
// omitted) means not selected.
type AddItemRequest struct {
	ProductID    string `json:"productId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	SellingPrice int    `json:"sellingPrice" validate:"gte=0"`
	VariantIndex *int   `json:"variantIndex,omitempty"`
	SizeIndex    *int   `json:"sizeIndex,omitempty"`
}

// CartService handles business logic for cart mutations. Price bounds and
// stock are re-derived from the catalog at the moment of add.
type CartService struct {
	carts    *cart.Manager
	products repositories.ProductRepository
	coupons  *CouponService
}

// NewCartService creates a new CartService.
func NewCartService(carts *cart.Manager, products repositories.ProductRepository, coupons *CouponService) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		coupons:  coupons,
	}
}

// Cart returns the trader's cart handle.
func (s *CartService) Cart(traderID string) (*cart.Cart, error) {
	return s.carts.Get(traderID)
}

// AddItem resolves the product selection into price and stock, validates the
// requested selling price against the catalog bounds, and adds the line to
// the trader's cart.
func (s *CartService) AddItem(traderID string, req AddItemRequest) (models.CartLine, error) {
	product, err := s.products.GetByID(req.ProductID)
	if err != nil {
		return models.CartLine{}, fmt.Errorf("product lookup failed: %w", err)
	}

	sel := cart.NewSelection()
	if req.VariantIndex != nil {
		sel.SelectVariant(*req.VariantIndex)
	}
	if req.SizeIndex != nil {
		sel.SelectSize(*req.SizeIndex)
	}
	resolved, err := cart.Resolve(product, sel)
	if err != nil {
		return models.CartLine{}, err
	}

	price := req.SellingPrice
	if price == 0 {
		price = product.MinSellingPrice
	}
	price = cart.RoundToStep(price)
	if !cart.WithinBounds(price, product.MinSellingPrice, product.MaxSellingPrice) {
		return models.CartLine{}, cart.ErrPriceOutOfRange
	}

	c, err := s.carts.Get(traderID)
	if err != nil {
		return models.CartLine{}, err
	}
	return c.Add(models.CartLine{
		ProductID:        product.ID,
		Name:             product.Name,
		ImageURL:         product.ImageURL,
		WholesalePrice:   resolved.WholesalePrice,
		SellingPrice:     price,
		Quantity:         req.Quantity,
		SelectedVariant:  resolved.VariantLabel,
		SelectedSize:     resolved.SizeLabel,
		MinSellingPrice:  product.MinSellingPrice,
		MaxSellingPrice:  product.MaxSellingPrice,
		MaxOrderQuantity: product.MaxOrderQuantity,
		AvailableStock:   resolved.Stock,
	})
}

// RemoveItem deletes a line from the trader's cart.
func (s *CartService) RemoveItem(traderID, lineID string) error {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return err
	}
	return c.Remove(lineID)
}

// UpdateQuantity changes a line's quantity; below 1 removes the line.
func (s *CartService) UpdateQuantity(traderID, lineID string, quantity int) error {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return err
	}
	return c.UpdateQuantity(lineID, quantity)
}

// UpdateSellingPrice changes a line's selling price, rounded to the price
// step and held within the line's snapshotted bounds.
func (s *CartService) UpdateSellingPrice(traderID, lineID string, price int) error {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return err
	}
	return c.UpdateSellingPrice(lineID, price)
}

// Clear empties the trader's cart.
func (s *CartService) Clear(traderID string) error {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return err
	}
	return c.Clear()
}

// ApplyCoupon validates the code against the cart's current selling total
// and, when valid, records the result on the cart, replacing any previously
// applied coupon.
func (s *CartService) ApplyCoupon(traderID, code string) (*CouponResult, error) {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return nil, err
	}
	result, err := s.coupons.ValidateCoupon(code, c.SellingTotal())
	if err != nil {
		return nil, err
	}
	if result.Valid {
		c.ApplyCoupon(result.Coupon.Code, result.Discount)
	}
	return result, nil
}

// RemoveCoupon clears the applied coupon from the trader's cart.
func (s *CartService) RemoveCoupon(traderID string) error {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return err
	}
	c.RemoveCoupon()
	return nil
}
