package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"matjar/internal/cart"
	"matjar/internal/models"
	"matjar/internal/repositories"
)

// Validation errors reported before any collaborator is called. The first
// failing check is returned and the rest are not evaluated.
var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrPhoneRequired = errors.New("primary phone number is required")
	ErrPhoneInvalid  = errors.New("phone number must start with 7 and contain 10 digits")
	ErrPhone2Invalid = errors.New("secondary phone number must start with 7 and contain 10 digits")
	ErrCityRequired  = errors.New("destination city is required")
	ErrAreaRequired  = errors.New("destination area is required")
)

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one for the same trader has not settled yet.
var ErrSubmissionInFlight = errors.New("an order submission is already in progress")

// Submission states. A trader's submission may only start from idle; the
// transition is made under lock so two rapid submissions cannot both pass
// the gate.
const (
	submissionIdle = iota
	submissionInFlight
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderService combines cart state, shipping data and an optionally applied
// coupon into order summaries and submitted orders.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	couponRepo repositories.CouponRepository
	cityRepo   repositories.CityRepository
	carts      *cart.Manager
	publisher  EventPublisher

	mu          sync.Mutex
	submissions map[string]int // trader id -> submission state
}

// NewOrderService creates a new OrderService. The publisher may be nil, in
// which case events are skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	couponRepo repositories.CouponRepository,
	cityRepo repositories.CityRepository,
	carts *cart.Manager,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		couponRepo:  couponRepo,
		cityRepo:    cityRepo,
		carts:       carts,
		publisher:   publisher,
		submissions: make(map[string]int),
	}
}

// Summary computes the pricing snapshot for the current cart state, the
// selected city's delivery fee (zero when no city is selected) and the
// applied coupon's discount. Recomputed on every call, never cached.
func Summary(c *cart.Cart, city *models.City, discount int) models.Pricing {
	wholesale := c.WholesaleTotal()
	selling := c.SellingTotal()
	fee := 0
	if city != nil {
		fee = city.DeliveryFee
	}
	return models.Pricing{
		WholesaleTotal: wholesale,
		SellingTotal:   selling,
		Profit:         selling - wholesale,
		DeliveryFee:    fee,
		Discount:       discount,
		FinalTotal:     selling + fee - discount,
	}
}

// CartSummary resolves the trader's cart and selected city into a pricing
// snapshot.
func (s *OrderService) CartSummary(traderID, cityID string) (models.Pricing, error) {
	c, err := s.carts.Get(traderID)
	if err != nil {
		return models.Pricing{}, err
	}
	var city *models.City
	if cityID != "" {
		city, err = s.cityRepo.GetByID(cityID)
		if err != nil {
			return models.Pricing{}, err
		}
	}
	discount := 0
	if applied := c.AppliedCoupon(); applied != nil {
		discount = applied.Amount
	}
	return Summary(c, city, discount), nil
}

// validateShipping runs the submission gates in order and reports the first
// failure. No collaborator is called while a gate fails.
func validateShipping(c *cart.Cart, shipping models.ShippingData) error {
	if c.IsEmpty() {
		return ErrEmptyCart
	}
	if strings.TrimSpace(shipping.Phone1) == "" {
		return ErrPhoneRequired
	}
	if !models.ValidIraqiMobile(shipping.Phone1) {
		return ErrPhoneInvalid
	}
	if strings.TrimSpace(shipping.Phone2) != "" && !models.ValidIraqiMobile(shipping.Phone2) {
		return ErrPhone2Invalid
	}
	if strings.TrimSpace(shipping.CityID) == "" {
		return ErrCityRequired
	}
	if strings.TrimSpace(shipping.Area) == "" {
		return ErrAreaRequired
	}
	return nil
}

// IsValidationError reports whether err is one of the submission gate
// failures, as opposed to a collaborator failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyCart, ErrPhoneRequired, ErrPhoneInvalid,
		ErrPhone2Invalid, ErrCityRequired, ErrAreaRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// beginSubmission moves the trader's submission state from idle to
// in-flight, failing when another submission has not settled.
func (s *OrderService) beginSubmission(traderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submissions[traderID] != submissionIdle {
		return ErrSubmissionInFlight
	}
	s.submissions[traderID] = submissionInFlight
	return nil
}

// settleSubmission returns the trader's submission state to idle once the
// attempt has settled, successfully or not.
func (s *OrderService) settleSubmission(traderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[traderID] = submissionIdle
}

// SubmitOrder validates the shipping form, assembles the frozen order
// payload from the trader's cart, draws the next order number and persists
// the order. The cart is cleared only after the order is confirmed stored,
// so a failed submission is safely retryable.
func (s *OrderService) SubmitOrder(traderID string, shipping models.ShippingData) (*models.Order, error) {
	if err := s.beginSubmission(traderID); err != nil {
		return nil, err
	}
	defer s.settleSubmission(traderID)

	c, err := s.carts.Get(traderID)
	if err != nil {
		return nil, err
	}
	if err := validateShipping(c, shipping); err != nil {
		return nil, err
	}

	city, err := s.cityRepo.GetByID(shipping.CityID)
	if err != nil {
		return nil, ErrCityRequired
	}

	applied := c.AppliedCoupon()
	discountAmount := 0
	var discount *models.Discount
	if applied != nil && applied.Amount > 0 {
		discountAmount = applied.Amount
		discount = &models.Discount{Code: applied.Code, Amount: applied.Amount}
	}

	items := assembleItems(c.Items())
	pricing := Summary(c, city, discountAmount)

	customerName := strings.TrimSpace(shipping.CustomerName)
	if customerName == "" {
		customerName = "عميل"
	}

	// The order number counter is read and written as two separate
	// repository calls; see OrderRepository for the race this carries.
	current, err := s.orderRepo.CurrentOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}
	number := current + 1
	if err := s.orderRepo.SetOrderNumber(number); err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		OrderNumber: number,
		TraderID:    traderID,
		Items:       items,
		Customer: models.Customer{
			Name:     customerName,
			Phone:    models.StripCountryCode(shipping.Phone1),
			Phone2:   models.StripCountryCode(shipping.Phone2),
			CityID:   city.CompanyCityID,
			CityName: city.DisplayName,
			Area:     strings.TrimSpace(shipping.Area),
			Landmark: shipping.Landmark,
			Notes:    shipping.Notes,
		},
		Delivery: models.DeliveryInfo{
			Status:     models.DeliveryStatusUnlinked,
			StatusText: models.DeliveryStatusUnlinkedText,
			Fee:        city.DeliveryFee,
		},
		Pricing:    pricing,
		Discount:   discount,
		Status:     models.OrderStatusPending,
		StatusText: models.OrderStatusText(models.OrderStatusPending),
	}

	if err := s.orderRepo.Create(order); err != nil {
		// Cart state is left untouched so the trader can retry.
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	if discount != nil {
		if err := s.couponRepo.IncrementUses(discount.Code); err != nil {
			log.Printf("Warning: failed to record coupon use for %s: %v", discount.Code, err)
		}
	}

	if err := c.Clear(); err != nil {
		log.Printf("Warning: failed to clear cart for trader %s: %v", traderID, err)
	}

	s.publishOrderCreated(order)

	return order, nil
}

// publishOrderCreated emits an order.created event. Publishing is
// best-effort; a broker failure never fails the submission.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}
	event := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"traderID":    order.TraderID,
		"status":      order.Status,
		"finalTotal":  order.Pricing.FinalTotal,
		"profit":      order.Pricing.Profit,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.publisher.Publish("order", "order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order created event for order %s", order.ID)
	}
}

// assembleItems freezes cart lines into order items, encoding the selected
// variant and size as the generic options list the delivery integration
// expects.
func assembleItems(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var options []models.OrderOption
		if line.SelectedVariant != "" {
			options = append(options, models.OrderOption{Name: "اللون", Value: line.SelectedVariant})
		}
		if line.SelectedSize != "" {
			options = append(options, models.OrderOption{Name: "المقاس", Value: line.SelectedSize})
		}
		items = append(items, models.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			ImageURL:       line.ImageURL,
			WholesalePrice: line.WholesalePrice,
			SellingPrice:   line.SellingPrice,
			Quantity:       line.Quantity,
			Options:        options,
		})
	}
	return items
}

// GetOrders retrieves a trader's orders, optionally filtered by status.
func (s *OrderService) GetOrders(traderID, status string) ([]models.Order, error) {
	return s.orderRepo.GetAllByTrader(traderID, status)
}

// GetOrderByID retrieves a single order owned by the trader.
func (s *OrderService) GetOrderByID(traderID, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(traderID, id)
}

// UpdateOrderStatus updates the status of an existing order and publishes a
// status event.
func (s *OrderService) UpdateOrderStatus(traderID, id, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(traderID, id, status, models.OrderStatusText(status)); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	if s.publisher != nil {
		body, err := json.Marshal(map[string]interface{}{"orderID": id, "status": status})
		if err == nil {
			if err := s.publisher.Publish("order", "order.status", body); err != nil {
				log.Printf("Warning: failed to publish order status event for order %s: %v", id, err)
			}
		}
	}
	return nil
}
