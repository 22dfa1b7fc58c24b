package services

import (
	"context"
	"fmt"

	"matjar/internal/models"
	"matjar/internal/repositories"
)

// CityFetcher pulls the current city list from the delivery company's API.
type CityFetcher interface {
	Cities(ctx context.Context) ([]models.City, error)
}

// CityService serves the locally cached delivery-company city list and
// refreshes it from the delivery company on demand.
type CityService struct {
	repo    repositories.CityRepository
	fetcher CityFetcher
}

// NewCityService creates a new CityService. The fetcher may be nil when no
// delivery company is configured; the cached list is then all there is.
func NewCityService(repo repositories.CityRepository, fetcher CityFetcher) *CityService {
	return &CityService{
		repo:    repo,
		fetcher: fetcher,
	}
}

// ListCities returns the cached city list.
func (s *CityService) ListCities() ([]models.City, error) {
	return s.repo.GetAll()
}

// GetCity returns one city by the delivery company's city id.
func (s *CityService) GetCity(companyCityID string) (*models.City, error) {
	return s.repo.GetByID(companyCityID)
}

// RefreshCities replaces the cached list with a fresh one from the delivery
// company's API.
func (s *CityService) RefreshCities(ctx context.Context) ([]models.City, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no delivery company configured")
	}
	cities, err := s.fetcher.Cities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cities from delivery company: %w", err)
	}
	if err := s.repo.ReplaceAll(cities); err != nil {
		return nil, err
	}
	return cities, nil
}
