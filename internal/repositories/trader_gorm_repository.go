package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matjar/internal/models"
)

// GORMTraderRepository is a GORM implementation of TraderRepository.
type GORMTraderRepository struct {
	db *gorm.DB
}

// NewGORMTraderRepository creates a new instance of GORMTraderRepository.
func NewGORMTraderRepository(db *gorm.DB) *GORMTraderRepository {
	return &GORMTraderRepository{
		db: db,
	}
}

// Create creates a new trader in the database.
func (r *GORMTraderRepository) Create(trader *models.Trader) error {
	if trader.ID == "" {
		trader.ID = uuid.New().String()
	}
	if err := r.db.Create(trader).Error; err != nil {
		return fmt.Errorf("failed to create trader: %w", err)
	}
	return nil
}

// GetByUsername retrieves a trader by their username from the database.
func (r *GORMTraderRepository) GetByUsername(username string) (*models.Trader, error) {
	var trader models.Trader
	if err := r.db.First(&trader, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("trader with username %s not found", username)
		}
		return nil, fmt.Errorf("failed to get trader by username %s: %w", username, err)
	}
	return &trader, nil
}

// GetByEmail retrieves a trader by their email from the database.
func (r *GORMTraderRepository) GetByEmail(email string) (*models.Trader, error) {
	var trader models.Trader
	if err := r.db.First(&trader, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("trader with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get trader by email %s: %w", email, err)
	}
	return &trader, nil
}

// GetByID retrieves a trader by their ID from the database.
func (r *GORMTraderRepository) GetByID(id string) (*models.Trader, error) {
	var trader models.Trader
	if err := r.db.First(&trader, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("trader with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get trader by ID %s: %w", id, err)
	}
	return &trader, nil
}
