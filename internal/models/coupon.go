package models

import "time"

// Discount types a coupon can carry.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a backend-managed discount code. Percentage coupons may cap the
// computed discount with MaxDiscountAmount; a zero TotalUsageLimit means
// unlimited uses.
type Coupon struct {
	Code              string    `json:"code" gorm:"primaryKey;type:varchar(64)" validate:"required,min=2,max=64"`
	Description       string    `json:"description" validate:"omitempty,max=500"`
	DiscountType      string    `json:"discountType" validate:"required,oneof=percentage fixed"`
	Value             int       `json:"value" validate:"gt=0"`
	MinOrderValue     int       `json:"minOrderValue" validate:"gte=0"`
	MaxDiscountAmount int       `json:"maxDiscountAmount,omitempty" validate:"gte=0"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	IsActive          bool      `json:"isActive"`
	TotalUsageLimit   int       `json:"totalUsageLimit,omitempty" validate:"gte=0"`
	TotalUses         int       `json:"totalUses"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
