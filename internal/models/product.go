package models

import "gorm.io/gorm"

// SizeOption is one size choice nested under a color variant. The catalog
// stores price and stock at the size level, so each option carries its own
// wholesale price and quantity.
type SizeOption struct {
	Value          string `json:"value"`
	Quantity       int    `json:"quantity"`
	WholesalePrice int    `json:"wholesalePrice"`
}

// ColorVariant is one color choice of a product, optionally carrying its own
// size sub-options.
type ColorVariant struct {
	Name     string       `json:"name"`
	ImageURL string       `json:"imageUrl,omitempty"`
	Sizes    []SizeOption `json:"sizes,omitempty"`
}

// Product represents a catalog product offered to traders. All prices are
// integer Iraqi dinar amounts.
type Product struct {
	ID               string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name             string         `json:"name" validate:"required,min=1,max=200"`
	Description      string         `json:"description" validate:"omitempty,max=2000"`
	ImageURL         string         `json:"imageUrl"`
	Badge            string         `json:"badge,omitempty"`
	CategoryID       string         `json:"categoryId,omitempty" gorm:"index;type:varchar(36)"`
	WholesalePrice   int            `json:"wholesalePrice" validate:"gte=0"`
	MinSellingPrice  int            `json:"minSellingPrice" validate:"gte=0"`
	MaxSellingPrice  int            `json:"maxSellingPrice" validate:"gtefield=MinSellingPrice"`
	Stock            int            `json:"stock" validate:"gte=0"`
	MaxOrderQuantity int            `json:"maxOrderQuantity" validate:"gte=1"`
	Variants         []ColorVariant `json:"variants,omitempty" gorm:"serializer:json"`
	gorm.Model                      // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
