package repositories

import (
	"matjar/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// scoped to the trader that placed them.
//
// Order numbers come from a shared counter. Reading the counter and writing
// the incremented value are two separate operations with no transaction
// around them, so concurrent submissions can race and mint the same number.
// That matches the behavior of the hosted backend this service replaces; do
// not "fix" it silently, since observable numbering changes under load.
type OrderRepository interface {
	Create(order *models.Order) error
	// GetAllByTrader returns the trader's orders, newest first, optionally
	// filtered by status (empty or "all" disables the filter).
	GetAllByTrader(traderID, status string) ([]models.Order, error)
	GetByID(traderID, id string) (*models.Order, error)
	UpdateStatus(traderID, id, status, statusText string) error

	CurrentOrderNumber() (int, error)
	SetOrderNumber(n int) error
}
