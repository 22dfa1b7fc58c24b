package handlers

import (
	"errors"
	"log"

	"matjar/internal/cart"
	"matjar/internal/middleware"
	"matjar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the trader's cart.
type CartHandler struct {
	cartService  *services.CartService
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, orderService *services.OrderService) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/summary", h.HandleGetSummary)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id/quantity", h.HandleUpdateQuantity)
	cartRoutes.Patch("/items/:id/price", h.HandleUpdatePrice)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/coupon", h.HandleApplyCoupon)
	cartRoutes.Delete("/coupon", h.HandleRemoveCoupon)
}

// cartError maps engine errors to HTTP responses: rejected edits and missing
// selections are client errors, everything else is a server error.
func cartError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, cart.ErrVariantRequired),
		errors.Is(err, cart.ErrSizeRequired),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrQuantityOutOfRange),
		errors.Is(err, cart.ErrPriceOutOfRange):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// HandleGetCart returns the cart lines plus derived totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	traderID := middleware.TraderID(c)
	trCart, err := h.cartService.Cart(traderID)
	if err != nil {
		log.Printf("Error loading cart for trader %s: %v", traderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"items":          trCart.Items(),
		"totalItems":     trCart.TotalItems(),
		"wholesaleTotal": trCart.WholesaleTotal(),
		"sellingTotal":   trCart.SellingTotal(),
		"profit":         trCart.Profit(),
		"coupon":         trCart.AppliedCoupon(),
	})
}

// HandleGetSummary returns the full pricing snapshot for the cart and the
// optionally selected city (?city=<id>).
func (h *CartHandler) HandleGetSummary(c *fiber.Ctx) error {
	traderID := middleware.TraderID(c)
	summary, err := h.orderService.CartSummary(traderID, c.Query("city"))
	if err != nil {
		log.Printf("Error computing summary for trader %s: %v", traderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute summary",
			"error":   err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleAddItem adds a product (with its variant/size selection) to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req services.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	line, err := h.cartService.AddItem(middleware.TraderID(c), req)
	if err != nil {
		log.Printf("Error adding product %s to cart: %v", req.ProductID, err)
		return cartError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// quantityRequest is the body for a quantity update.
type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity updates a line's quantity; below 1 removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.cartService.UpdateQuantity(middleware.TraderID(c), c.Params("id"), req.Quantity); err != nil {
		return cartError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Quantity updated",
	})
}

// priceRequest is the body for a selling-price update.
type priceRequest struct {
	SellingPrice int `json:"sellingPrice"`
}

// HandleUpdatePrice updates a line's selling price.
func (h *CartHandler) HandleUpdatePrice(c *fiber.Ctx) error {
	var req priceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.cartService.UpdateSellingPrice(middleware.TraderID(c), c.Params("id"), req.SellingPrice); err != nil {
		return cartError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Selling price updated",
	})
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.cartService.RemoveItem(middleware.TraderID(c), c.Params("id")); err != nil {
		return cartError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Item removed",
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.cartService.Clear(middleware.TraderID(c)); err != nil {
		return cartError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// couponRequest is the body for applying a coupon.
type couponRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleApplyCoupon validates a coupon code against the current cart total
// and applies it when valid. An invalid code is a 200 with valid=false, not
// an error; collaborator failures are 502.
func (h *CartHandler) HandleApplyCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	result, err := h.cartService.ApplyCoupon(middleware.TraderID(c), req.Code)
	if err != nil {
		log.Printf("Error validating coupon %s: %v", req.Code, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not validate coupon",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleRemoveCoupon clears the applied coupon.
func (h *CartHandler) HandleRemoveCoupon(c *fiber.Ctx) error {
	if err := h.cartService.RemoveCoupon(middleware.TraderID(c)); err != nil {
		return cartError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Coupon removed",
	})
}
