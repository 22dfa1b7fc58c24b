package services

import (
	"fmt"
	"strings"
	"time"

	"matjar/internal/models"
	"matjar/internal/repositories"
)

// CouponResult is the outcome of a coupon validation: either a rejection
// with a reason, or the coupon plus the discount computed for the order
// total it was validated against.
type CouponResult struct {
	Valid    bool           `json:"valid"`
	Coupon   *models.Coupon `json:"coupon,omitempty"`
	Discount int            `json:"discount,omitempty"`
	Message  string         `json:"message"`
}

// CouponService handles business logic related to discount coupons.
type CouponService struct {
	repo repositories.CouponRepository
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.CouponRepository) *CouponService {
	return &CouponService{
		repo: repo,
	}
}

// ValidateCoupon checks a code against the current order total. Checks run
// in order: existence, active flag, date window, minimum order value, usage
// limit. For percentage coupons the discount is capped by the coupon's
// MaxDiscountAmount when one is set. An unknown or failing code is not an
// error; the rejection reason comes back in the result.
func (s *CouponService) ValidateCoupon(code string, orderTotal int) (*CouponResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return &CouponResult{Valid: false, Message: "coupon code is required"}, nil
	}

	coupon, err := s.repo.GetByCode(normalized)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return &CouponResult{Valid: false, Message: "invalid coupon code"}, nil
		}
		return nil, fmt.Errorf("failed to look up coupon %s: %w", normalized, err)
	}

	if !coupon.IsActive {
		return &CouponResult{Valid: false, Message: "this coupon is not active"}, nil
	}

	now := time.Now()
	if now.Before(coupon.StartDate) {
		return &CouponResult{Valid: false, Message: "this coupon is not valid yet"}, nil
	}
	if now.After(coupon.EndDate) {
		return &CouponResult{Valid: false, Message: "this coupon has expired"}, nil
	}

	if orderTotal < coupon.MinOrderValue {
		return &CouponResult{
			Valid:   false,
			Message: fmt.Sprintf("minimum order value for this coupon is %d IQD", coupon.MinOrderValue),
		}, nil
	}

	if coupon.TotalUsageLimit > 0 && coupon.TotalUses >= coupon.TotalUsageLimit {
		return &CouponResult{Valid: false, Message: "this coupon has been fully used"}, nil
	}

	discount := coupon.Value
	if coupon.DiscountType == models.DiscountPercentage {
		discount = orderTotal * coupon.Value / 100
		if coupon.MaxDiscountAmount > 0 && discount > coupon.MaxDiscountAmount {
			discount = coupon.MaxDiscountAmount
		}
	}

	return &CouponResult{
		Valid:    true,
		Coupon:   coupon,
		Discount: discount,
		Message:  fmt.Sprintf("discount of %d IQD applied", discount),
	}, nil
}

// RecordUse bumps the coupon's usage counter after a submitted order.
func (s *CouponService) RecordUse(code string) error {
	return s.repo.IncrementUses(strings.ToUpper(strings.TrimSpace(code)))
}
