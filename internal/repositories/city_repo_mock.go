package repositories

import (
	"fmt"
	"sync"

	"matjar/internal/models"
)

// MockCityRepository is an in-memory implementation of CityRepository.
type MockCityRepository struct {
	cities []models.City
	mu     sync.RWMutex
}

// NewMockCityRepository creates a new instance of MockCityRepository.
func NewMockCityRepository() *MockCityRepository {
	return &MockCityRepository{}
}

// GetAll returns all cached cities.
func (r *MockCityRepository) GetAll() ([]models.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cities := make([]models.City, len(r.cities))
	copy(cities, r.cities)
	return cities, nil
}

// GetByID returns a city by the delivery company's city id.
func (r *MockCityRepository) GetByID(companyCityID string) (*models.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, city := range r.cities {
		if city.CompanyCityID == companyCityID {
			c := city
			return &c, nil
		}
	}
	return nil, fmt.Errorf("city with ID %s not found", companyCityID)
}

// ReplaceAll swaps the cached city list.
func (r *MockCityRepository) ReplaceAll(cities []models.City) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cities = make([]models.City, len(cities))
	copy(r.cities, cities)
	return nil
}
