package repositories

import "matjar/internal/models"

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	// GetByCode looks up a coupon by its normalized (upper-case) code.
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	// IncrementUses bumps the coupon's usage counter after a successful
	// order submission.
	IncrementUses(code string) error
}
