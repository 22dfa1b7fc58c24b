package repositories

import "matjar/internal/models"

// TraderRepository defines the interface for trader account data access.
type TraderRepository interface {
	Create(trader *models.Trader) error
	GetByUsername(username string) (*models.Trader, error)
	GetByEmail(email string) (*models.Trader, error)
	GetByID(id string) (*models.Trader, error)
}
