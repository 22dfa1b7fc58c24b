package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"matjar/internal/models"
)

// Mutation errors. Out-of-range edits are rejected as no-ops so the line
// keeps its last valid value.
var (
	ErrLineNotFound       = errors.New("cart line not found")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrQuantityOutOfRange = errors.New("quantity exceeds the order limit")
	ErrPriceOutOfRange    = errors.New("selling price outside the allowed range")
)

// Cart is the authoritative collection of cart lines for one trader. It is
// created by the composition root and passed by handle; every mutation is
// written through to the backing store so the cart survives restarts.
type Cart struct {
	traderID string
	store    Store

	mu     sync.Mutex
	lines  []models.CartLine
	coupon *models.AppliedCoupon
}

// New rehydrates a trader's cart from the store.
func New(traderID string, store Store) (*Cart, error) {
	lines, err := store.Load(traderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for trader %s: %w", traderID, err)
	}
	return &Cart{traderID: traderID, store: store, lines: lines}, nil
}

// lineCap is the quantity ceiling for a line: available stock, further
// limited by the catalog's max-order quantity when one is set.
func lineCap(l models.CartLine) int {
	max := l.AvailableStock
	if l.MaxOrderQuantity > 0 && l.MaxOrderQuantity < max {
		max = l.MaxOrderQuantity
	}
	return max
}

// Add puts a candidate line into the cart. When an existing line matches on
// (productId, variant, size) the quantities are merged, the price bounds are
// re-snapshotted from the candidate and the kept selling price is clamped
// into them; otherwise a new line is appended with a fresh id. Quantities
// are clamped at the line's cap.
func (c *Cart) Add(candidate models.CartLine) (models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}
	max := lineCap(candidate)
	if max < 1 {
		return models.CartLine{}, ErrOutOfStock
	}

	for i := range c.lines {
		line := &c.lines[i]
		if line.ProductID == candidate.ProductID &&
			line.SelectedVariant == candidate.SelectedVariant &&
			line.SelectedSize == candidate.SelectedSize {
			line.MinSellingPrice = candidate.MinSellingPrice
			line.MaxSellingPrice = candidate.MaxSellingPrice
			line.MaxOrderQuantity = candidate.MaxOrderQuantity
			line.AvailableStock = candidate.AvailableStock
			// The catalog bounds may have moved since the line was added;
			// pull the kept price back inside the fresh window.
			if line.SellingPrice < line.MinSellingPrice {
				line.SellingPrice = line.MinSellingPrice
			} else if line.SellingPrice > line.MaxSellingPrice {
				line.SellingPrice = line.MaxSellingPrice
			}
			line.Quantity += candidate.Quantity
			if limit := lineCap(*line); line.Quantity > limit {
				line.Quantity = limit
			}
			return *line, c.persist()
		}
	}

	if candidate.Quantity > max {
		candidate.Quantity = max
	}
	candidate.ID = uuid.New().String()
	c.lines = append(c.lines, candidate)
	return candidate, c.persist()
}

// Remove deletes a line unconditionally. Removing an unknown id is a no-op.
func (c *Cart) Remove(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(lineID)
}

func (c *Cart) removeLocked(lineID string) error {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	return c.persist()
}

// UpdateQuantity sets a line's quantity. A quantity below 1 removes the
// line; a quantity above the line's cap is rejected and the previous value
// kept.
func (c *Cart) UpdateQuantity(lineID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		line := &c.lines[i]
		if line.ID != lineID {
			continue
		}
		if quantity < 1 {
			return c.removeLocked(lineID)
		}
		if quantity > lineCap(*line) {
			return ErrQuantityOutOfRange
		}
		line.Quantity = quantity
		return c.persist()
	}
	return ErrLineNotFound
}

// UpdateSellingPrice rounds the requested price to the nearest PriceStep and
// commits it if the rounded value stays within the line's snapshotted
// bounds; otherwise the edit is rejected and the previous price kept.
func (c *Cart) UpdateSellingPrice(lineID string, price int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		line := &c.lines[i]
		if line.ID != lineID {
			continue
		}
		rounded := RoundToStep(price)
		if !WithinBounds(rounded, line.MinSellingPrice, line.MaxSellingPrice) {
			return ErrPriceOutOfRange
		}
		line.SellingPrice = rounded
		return c.persist()
	}
	return ErrLineNotFound
}

// Clear empties the cart and drops any applied coupon. Called after a
// successful order submission or by explicit action.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.coupon = nil
	return c.persist()
}

// ApplyCoupon records the validated coupon result, replacing any previous
// one. Validation itself is the coupon service's job.
func (c *Cart) ApplyCoupon(code string, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = &models.AppliedCoupon{Code: code, Amount: amount}
}

// RemoveCoupon clears the applied coupon.
func (c *Cart) RemoveCoupon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = nil
}

// AppliedCoupon returns the currently applied coupon result, or nil.
func (c *Cart) AppliedCoupon() *models.AppliedCoupon {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coupon == nil {
		return nil
	}
	coupon := *c.coupon
	return &coupon
}

// Items returns a snapshot copy of the cart lines.
func (c *Cart) Items() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.CartLine, len(c.lines))
	copy(items, c.lines)
	return items
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// WholesaleTotal is the trader's aggregate cost across all lines.
func (c *Cart) WholesaleTotal() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, line := range c.lines {
		total += line.WholesalePrice * line.Quantity
	}
	return total
}

// SellingTotal is the aggregate customer-facing price across all lines.
func (c *Cart) SellingTotal() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, line := range c.lines {
		total += line.SellingPrice * line.Quantity
	}
	return total
}

// Profit is the trader's margin: selling total minus wholesale total.
func (c *Cart) Profit() int {
	return c.SellingTotal() - c.WholesaleTotal()
}

func (c *Cart) persist() error {
	if err := c.store.Save(c.traderID, c.lines); err != nil {
		return fmt.Errorf("failed to save cart for trader %s: %w", c.traderID, err)
	}
	return nil
}

// Manager hands out one Cart per trader, rehydrating it from the store on
// first access.
type Manager struct {
	store Store

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewManager creates a cart manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store, carts: make(map[string]*Cart)}
}

// Get returns the trader's cart, loading it from the store the first time.
func (m *Manager) Get(traderID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[traderID]; ok {
		return c, nil
	}
	c, err := New(traderID, m.store)
	if err != nil {
		return nil, err
	}
	m.carts[traderID] = c
	return c, nil
}
