package cart

import (
	"errors"

	"matjar/internal/models"
)

// Selection errors returned when a product defines a dimension the shopper
// has not chosen yet. They block the add-to-cart action.
var (
	ErrVariantRequired = errors.New("choose a color")
	ErrSizeRequired    = errors.New("choose a size")
)

// Selection tracks the shopper's current color/size choice on a product.
// An index of -1 means nothing is chosen for that dimension.
type Selection struct {
	VariantIndex int `json:"variantIndex"`
	SizeIndex    int `json:"sizeIndex"`
}

// NewSelection returns a selection with nothing chosen.
func NewSelection() Selection {
	return Selection{VariantIndex: -1, SizeIndex: -1}
}

// SelectVariant chooses a color and resets any previously selected size,
// since size choices are scoped to their parent color.
func (s *Selection) SelectVariant(index int) {
	s.VariantIndex = index
	s.SizeIndex = -1
}

// SelectSize chooses a size under the currently selected color.
func (s *Selection) SelectSize(index int) {
	s.SizeIndex = index
}

// Resolved is the concrete price/stock tuple for a product selection.
type Resolved struct {
	WholesalePrice int
	Stock          int
	VariantLabel   string
	SizeLabel      string
}

// Resolve maps a product and the shopper's selection to the effective
// wholesale price and available stock:
//
//   - no variants defined: the product's base price and stock;
//   - a color without size sub-options: still the base price and stock,
//     because the catalog stores price only at the size level;
//   - a color and a size: that size's own price and quantity.
//
// A product that defines variants requires a color choice, and a color that
// defines sizes requires a size choice; otherwise the matching selection
// error is returned.
func Resolve(p *models.Product, sel Selection) (Resolved, error) {
	res := Resolved{WholesalePrice: p.WholesalePrice, Stock: p.Stock}
	if len(p.Variants) == 0 {
		return res, nil
	}

	if sel.VariantIndex < 0 || sel.VariantIndex >= len(p.Variants) {
		return Resolved{}, ErrVariantRequired
	}
	variant := p.Variants[sel.VariantIndex]
	res.VariantLabel = variant.Name

	if len(variant.Sizes) == 0 {
		return res, nil
	}
	if sel.SizeIndex < 0 || sel.SizeIndex >= len(variant.Sizes) {
		return Resolved{}, ErrSizeRequired
	}
	size := variant.Sizes[sel.SizeIndex]
	res.SizeLabel = size.Value
	res.WholesalePrice = size.WholesalePrice
	res.Stock = size.Quantity
	return res, nil
}
