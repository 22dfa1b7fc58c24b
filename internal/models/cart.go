package models

// CartLine is one purchasable unit in a trader's cart. Display fields and
// price bounds are snapshots taken at add-time; they are not live-synced to
// later catalog changes.
type CartLine struct {
	ID               string `json:"id"`
	ProductID        string `json:"productId"`
	Name             string `json:"name"`
	ImageURL         string `json:"imageUrl"`
	WholesalePrice   int    `json:"wholesalePrice"`
	SellingPrice     int    `json:"sellingPrice"`
	Quantity         int    `json:"quantity"`
	SelectedVariant  string `json:"selectedVariant,omitempty"`
	SelectedSize     string `json:"selectedSize,omitempty"`
	MinSellingPrice  int    `json:"minSellingPrice"`
	MaxSellingPrice  int    `json:"maxSellingPrice"`
	MaxOrderQuantity int    `json:"maxOrderQuantity"`
	AvailableStock   int    `json:"availableStock"`
}

// AppliedCoupon is the result of a successful coupon validation held by the
// cart: the code plus the discount amount computed for the order total at
// apply time. At most one is applied at a time.
type AppliedCoupon struct {
	Code   string `json:"code"`
	Amount int    `json:"amount"`
}
