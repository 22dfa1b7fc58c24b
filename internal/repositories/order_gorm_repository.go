package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matjar/internal/models"
)

// OrderCounter is the shared row order numbers are drawn from.
type OrderCounter struct {
	ID      int `gorm:"primaryKey"`
	Current int
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetAllByTrader retrieves a trader's orders, newest first.
func (r *GORMOrderRepository) GetAllByTrader(traderID, status string) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("trader_id = ?", traderID).Order("created_at DESC")
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for trader %s: %w", traderID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order owned by the trader.
func (r *GORMOrderRepository) GetByID(traderID, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ? AND trader_id = ?", id, traderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(traderID, id, status, statusText string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND trader_id = ?", id, traderID).
		Updates(map[string]interface{}{
			"status":      status,
			"status_text": statusText,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}

// CurrentOrderNumber reads the shared counter. A missing row means no order
// has been placed yet.
func (r *GORMOrderRepository) CurrentOrderNumber() (int, error) {
	var counter OrderCounter
	if err := r.db.First(&counter, "id = ?", 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read order counter: %w", err)
	}
	return counter.Current, nil
}

// SetOrderNumber writes the counter value. Deliberately a separate statement
// from CurrentOrderNumber; see the OrderRepository docs.
func (r *GORMOrderRepository) SetOrderNumber(n int) error {
	if err := r.db.Save(&OrderCounter{ID: 1, Current: n}).Error; err != nil {
		return fmt.Errorf("failed to write order counter: %w", err)
	}
	return nil
}
