package repositories

import "matjar/internal/models"

// CityRepository defines the interface for the locally cached delivery-company
// city list.
type CityRepository interface {
	GetAll() ([]models.City, error)
	GetByID(companyCityID string) (*models.City, error)
	// ReplaceAll swaps the cached list for a fresh one from the delivery
	// company's API.
	ReplaceAll(cities []models.City) error
}
