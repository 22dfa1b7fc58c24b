package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"matjar/internal/models"
)

// MockTraderRepository is an in-memory implementation of TraderRepository.
type MockTraderRepository struct {
	traders map[string]models.Trader
	mu      sync.RWMutex
}

// NewMockTraderRepository creates a new instance of MockTraderRepository.
func NewMockTraderRepository() *MockTraderRepository {
	return &MockTraderRepository{
		traders: make(map[string]models.Trader),
	}
}

// Create adds a new trader.
func (r *MockTraderRepository) Create(trader *models.Trader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trader.ID == "" {
		trader.ID = uuid.New().String()
	}
	r.traders[trader.ID] = *trader
	return nil
}

// GetByUsername returns a trader by their username.
func (r *MockTraderRepository) GetByUsername(username string) (*models.Trader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, trader := range r.traders {
		if trader.Username == username {
			t := trader
			return &t, nil
		}
	}
	return nil, fmt.Errorf("trader with username %s not found", username)
}

// GetByEmail returns a trader by their email.
func (r *MockTraderRepository) GetByEmail(email string) (*models.Trader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, trader := range r.traders {
		if trader.Email == email {
			t := trader
			return &t, nil
		}
	}
	return nil, fmt.Errorf("trader with email %s not found", email)
}

// GetByID returns a trader by their ID.
func (r *MockTraderRepository) GetByID(id string) (*models.Trader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trader, ok := r.traders[id]
	if !ok {
		return nil, fmt.Errorf("trader with ID %s not found", id)
	}
	return &trader, nil
}
