package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"matjar/internal/models"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{
		db: db,
	}
}

// GetByCode retrieves a coupon by its code from the database.
func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("coupon with code %s not found", code)
		}
		return nil, fmt.Errorf("failed to get coupon by code %s: %w", code, err)
	}
	return &coupon, nil
}

// Create creates a new coupon in the database.
func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// IncrementUses bumps the coupon's usage counter.
func (r *GORMCouponRepository) IncrementUses(code string) error {
	res := r.db.Model(&models.Coupon{}).
		Where("code = ?", code).
		UpdateColumn("total_uses", gorm.Expr("total_uses + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment uses for coupon %s: %w", code, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon with code %s not found", code)
	}
	return nil
}
