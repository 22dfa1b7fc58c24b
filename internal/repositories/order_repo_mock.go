package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"matjar/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders  map[string]models.Order
	counter int
	mu      sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetAllByTrader returns the trader's orders, newest first.
func (r *MockOrderRepository) GetAllByTrader(traderID, status string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if order.TraderID != traderID {
			continue
		}
		if status != "" && status != "all" && order.Status != status {
			continue
		}
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order owned by the trader.
func (r *MockOrderRepository) GetByID(traderID, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.TraderID != traderID {
		return nil, fmt.Errorf("order with ID %s not found", id)
	}
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(traderID, id, status, statusText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.TraderID != traderID {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	order.StatusText = statusText
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// CurrentOrderNumber reads the shared counter.
func (r *MockOrderRepository) CurrentOrderNumber() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counter, nil
}

// SetOrderNumber writes the counter value.
func (r *MockOrderRepository) SetOrderNumber(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter = n
	return nil
}
