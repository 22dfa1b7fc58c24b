package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"matjar/internal/cart"
	"matjar/internal/handlers"
	"matjar/internal/middleware"
	"matjar/internal/models"
	"matjar/internal/repositories"
	"matjar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired the way main does it.
func setupApp(t *testing.T) *fiber.App {
	// One named in-memory database per test, so tests do not share state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Trader{}, &models.Product{}, &models.Coupon{},
		&models.City{}, &cart.CartRecord{},
	))

	// Repositories
	traderRepo := repositories.NewGORMTraderRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	couponRepo := repositories.NewGORMCouponRepository(db)
	cityRepo := repositories.NewGORMCityRepository(db)
	orderRepo := repositories.NewMockOrderRepository() // order rows stay in memory

	carts := cart.NewManager(cart.NewGORMStore(db))

	// Services
	authService := services.NewAuthService(traderRepo, "test_jwt_secret")
	productService := services.NewProductService(productRepo)
	couponService := services.NewCouponService(couponRepo)
	cityService := services.NewCityService(cityRepo, nil)
	cartService := services.NewCartService(carts, productRepo, couponService)
	orderService := services.NewOrderService(orderRepo, couponRepo, cityRepo, carts, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	cityHandler := handlers.NewCityHandler(cityService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	cityHandler.RegisterRoutes(protected)

	seedCatalog(t, productRepo, couponRepo, cityRepo)
	return app
}

// seedCatalog populates a product with variants, one coupon and one city.
func seedCatalog(t *testing.T, products repositories.ProductRepository, coupons repositories.CouponRepository, cities repositories.CityRepository) {
	require.NoError(t, products.Create(&models.Product{
		ID:               "prod-shirt",
		Name:             "قميص",
		WholesalePrice:   5000,
		MinSellingPrice:  4750,
		MaxSellingPrice:  30000,
		Stock:            40,
		MaxOrderQuantity: 6,
		Variants: []models.ColorVariant{
			{
				Name: "أحمر",
				Sizes: []models.SizeOption{
					{Value: "M", Quantity: 10, WholesalePrice: 4750},
				},
			},
		},
	}))
	require.NoError(t, coupons.Create(&models.Coupon{
		Code:              "SAVE10",
		DiscountType:      models.DiscountPercentage,
		Value:             10,
		MaxDiscountAmount: 1000,
		StartDate:         time.Now().Add(-time.Hour),
		EndDate:           time.Now().Add(time.Hour),
		IsActive:          true,
	}))
	require.NoError(t, cities.ReplaceAll([]models.City{
		{CompanyCityID: "1", CompanyCityName: "بغداد", DisplayName: "بغداد", DeliveryFee: 5000},
	}))
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// jsonRequest builds a JSON request with an optional bearer token.
func jsonRequest(method, target string, body any, token string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// registerAndLogin creates a trader account and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, ""), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "password123",
	}, ""), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	token := registerAndLogin(t, app, "testtrader")
	assert.NotEmpty(t, token)

	// Duplicate registration conflicts.
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "testtrader",
		"email":    "testtrader@example.com",
		"password": "password123",
	}, ""), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "testtrader",
		"password": "wrong",
	}, ""), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestEndpointsRequireAuth(t *testing.T) {
	app := setupApp(t)

	for _, target := range []string{"/api/v1/products", "/api/v1/cart", "/api/v1/orders", "/api/v1/cities"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
		resp.Body.Close()
	}
}

func TestCartFlow(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "carttrader")

	// Add the shirt (color 0, size 0) at 6130, which rounds to 6250.
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId":    "prod-shirt",
		"quantity":     2,
		"sellingPrice": 6130,
		"variantIndex": 0,
		"sizeIndex":    0,
	}, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var line models.CartLine
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&line))
	resp.Body.Close()
	assert.Equal(t, 6250, line.SellingPrice)
	assert.Equal(t, 4750, line.WholesalePrice)
	assert.Equal(t, 2, line.Quantity)

	// Adding without a size selection is rejected.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId":    "prod-shirt",
		"quantity":     1,
		"variantIndex": 0,
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Totals reflect the single merged line.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/cart", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartResp struct {
		Items          []models.CartLine `json:"items"`
		TotalItems     int               `json:"totalItems"`
		WholesaleTotal int               `json:"wholesaleTotal"`
		SellingTotal   int               `json:"sellingTotal"`
		Profit         int               `json:"profit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartResp))
	resp.Body.Close()
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 2, cartResp.TotalItems)
	assert.Equal(t, 9500, cartResp.WholesaleTotal)
	assert.Equal(t, 12500, cartResp.SellingTotal)
	assert.Equal(t, 3000, cartResp.Profit)

	// Price edit outside the bounds is rejected.
	resp, err = app.Test(jsonRequest(http.MethodPatch, "/api/v1/cart/items/"+line.ID+"/price", map[string]int{
		"sellingPrice": 31000,
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Quantity above the cap is rejected.
	resp, err = app.Test(jsonRequest(http.MethodPatch, "/api/v1/cart/items/"+line.ID+"/quantity", map[string]int{
		"quantity": 7,
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCouponAndOrderFlow(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "ordertrader")

	// Put 2 × 6000 in the cart.
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"productId":    "prod-shirt",
		"quantity":     2,
		"sellingPrice": 6000,
		"variantIndex": 0,
		"sizeIndex":    0,
	}, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Apply the 10% coupon: 1200 capped at 1000.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]string{
		"code": "save10",
	}, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var couponResp services.CouponResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&couponResp))
	resp.Body.Close()
	assert.True(t, couponResp.Valid)
	assert.Equal(t, 1000, couponResp.Discount)

	// Summary with the city selected: 12000 + 5000 - 1000.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/cart/summary?city=1", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary models.Pricing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	resp.Body.Close()
	assert.Equal(t, 16000, summary.FinalTotal)

	// Missing phone fails before anything else.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/orders", map[string]string{
		"customerName": "أحمد",
		"cityId":       "1",
		"area":         "الكرادة",
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Submit with a complete form.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/orders", map[string]string{
		"customerName": "أحمد",
		"phone1":       "+9647701234567",
		"cityId":       "1",
		"area":         "الكرادة",
	}, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()

	assert.Equal(t, 1, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "7701234567", order.Customer.Phone)
	assert.Equal(t, 16000, order.Pricing.FinalTotal)
	require.NotNil(t, order.Discount)
	assert.Equal(t, "SAVE10", order.Discount.Code)

	// Submission cleared the cart.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/cart", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartResp struct {
		Items      []models.CartLine `json:"items"`
		TotalItems int               `json:"totalItems"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartResp))
	resp.Body.Close()
	assert.Empty(t, cartResp.Items)

	// A second submit on the now-empty cart is a validation failure.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/orders", map[string]string{
		"phone1": "+9647701234567",
		"cityId": "1",
		"area":   "الكرادة",
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The order shows up in the trader's list.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/orders", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Status update with an unknown status is rejected.
	resp, err = app.Test(jsonRequest(http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", map[string]string{
		"status": "teleported",
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", map[string]string{
		"status": models.OrderStatusShipped,
	}, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCityEndpoints(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "citytrader")

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/v1/cities", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cities []models.City
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cities))
	resp.Body.Close()
	require.Len(t, cities, 1)
	assert.Equal(t, 5000, cities[0].DeliveryFee)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/cities/1", nil, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/cities/999", nil, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// No delivery company configured: refresh is a bad-gateway.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/cities/refresh", nil, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}
