package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"matjar/internal/models"
)

// GORMCityRepository is a GORM implementation of CityRepository.
type GORMCityRepository struct {
	db *gorm.DB
}

// NewGORMCityRepository creates a new instance of GORMCityRepository.
func NewGORMCityRepository(db *gorm.DB) *GORMCityRepository {
	return &GORMCityRepository{
		db: db,
	}
}

// GetAll retrieves all cached cities.
func (r *GORMCityRepository) GetAll() ([]models.City, error) {
	var cities []models.City
	if err := r.db.Order("display_name").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("failed to get cities: %w", err)
	}
	return cities, nil
}

// GetByID retrieves a city by the delivery company's city id.
func (r *GORMCityRepository) GetByID(companyCityID string) (*models.City, error) {
	var city models.City
	if err := r.db.First(&city, "company_city_id = ?", companyCityID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("city with ID %s not found", companyCityID)
		}
		return nil, fmt.Errorf("failed to get city by ID %s: %w", companyCityID, err)
	}
	return &city, nil
}

// ReplaceAll swaps the cached city list wholesale.
func (r *GORMCityRepository) ReplaceAll(cities []models.City) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.City{}).Error; err != nil {
			return err
		}
		if len(cities) == 0 {
			return nil
		}
		return tx.Create(&cities).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace city list: %w", err)
	}
	return nil
}
