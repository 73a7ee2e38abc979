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
	"testing"
	"time"

	"pandastore/internal/handlers"
	"pandastore/internal/middleware"
	"pandastore/internal/models"
	"pandastore/internal/repositories"
	"pandastore/internal/services"
	"pandastore/pkg/paytm"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeGateway stands in for the payment processor's initiate-transaction
// endpoint.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"body": map[string]interface{}{"txnToken": "tok-test"},
		})
	}))
}

type testEnv struct {
	app         *fiber.App
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	blogRepo    repositories.BlogRepository
}

// setupApp wires the full API against an in-memory SQLite database and the
// given fake gateway, mirroring the wiring in main.
func setupApp(t *testing.T, gatewayURL string) *testEnv {
	t.Helper()

	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Each test gets its own named in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.User{}, &models.Blog{}, &models.ContactMessage{})
	assert.NoError(t, err)

	gatewayClient, err := paytm.NewClient(paytm.Config{
		MerchantID:  "MID123",
		MerchantKey: "secret-key",
		Website:     "WEBSTAGING",
		CallbackURL: "http://localhost:8080/api/posttransaction",
		BaseURL:     gatewayURL,
		Timeout:     5 * time.Second,
	})
	assert.NoError(t, err)

	// Initialize Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	blogRepo := repositories.NewGORMBlogRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	// Initialize Services
	productService := services.NewProductService(productRepo)
	checkoutService := services.NewCheckoutService(orderRepo, productRepo, gatewayClient, "MID123", nil)
	callbackService := services.NewCallbackService(orderRepo, productRepo, nil)
	authService := services.NewAuthService(userRepo, jwtSecret)
	blogService := services.NewBlogService(blogRepo, contactRepo)

	// Initialize Handlers
	productHandler := handlers.NewProductHandler(productService)
	transactionHandler := handlers.NewTransactionHandler(checkoutService, callbackService)
	authHandler := handlers.NewAuthHandler(authService)
	pincodeHandler := handlers.NewPincodeHandler()
	blogHandler := handlers.NewBlogHandler(blogService)

	app := fiber.New()

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	pincodeHandler.RegisterRoutes(api)
	authHandler.RegisterRoutes(api)
	transactionHandler.RegisterRoutes(api)
	blogHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	transactionHandler.RegisterProtectedRoutes(protected)
	productHandler.RegisterProtectedRoutes(protected)

	return &testEnv{app: app, orderRepo: orderRepo, productRepo: productRepo, blogRepo: blogRepo}
}

func seedProduct(t *testing.T, env *testEnv) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           "p1",
		Slug:         "panda-hoodie-black-m",
		Title:        "Panda Hoodie",
		Category:     "hoodies",
		Price:        100,
		AvailableQty: 10,
	}
	assert.NoError(t, env.productRepo.Create(product))
	return product
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var decoded map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"email": "buyer@example.com",
		"oid":   "OID1",
		"cart": []map[string]interface{}{
			{"productId": "p1", "qty": 2, "price": 100},
		},
		"address":  "221B Baker Street",
		"subtotal": 200,
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestCheckoutAndCallbackRoundTrip(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	// --- Checkout initiation ---
	resp := postJSON(t, env.app, "/api/pretransaction", checkoutBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "tok-test", body["token"])
	assert.Equal(t, "OID1", body["orderId"])
	assert.Equal(t, "MID123", body["mid"])

	// The Pending order was persisted with the supplied orderId
	order, err := env.orderRepo.GetByOrderID("OID1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 200.0, order.Amount)

	// --- Gateway success callback ---
	callback := map[string]interface{}{
		"ORDERID": "OID1",
		"STATUS":  "TXN_SUCCESS",
		"TXNID":   "TXN-1",
		"TXNDATE": "2024-01-01 10:00:00",
		"GATEWAY": "TESTBANK",
		"RESPMSG": "Txn Success",
	}
	resp = postJSON(t, env.app, "/api/posttransaction", callback)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	order, err = env.orderRepo.GetByOrderID("OID1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	// The raw callback payload is stored verbatim for audit
	var audited map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(order.PaymentInfo), &audited))
	assert.Equal(t, "TXN-1", audited["TXNID"])

	product, err := env.productRepo.GetByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 8, product.AvailableQty)

	// --- Replay the same success callback: no second decrement ---
	resp = postJSON(t, env.app, "/api/posttransaction", callback)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	product, err = env.productRepo.GetByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 8, product.AvailableQty)

	order, err = env.orderRepo.GetByOrderID("OID1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
}

func TestPreTransactionMissingFields(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	body := checkoutBody()
	delete(body, "email")

	resp := postJSON(t, env.app, "/api/pretransaction", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decoded := decodeBody(t, resp)
	assert.Equal(t, false, decoded["success"])

	// No order was persisted
	_, err := env.orderRepo.GetByOrderID("OID1")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestPreTransactionPriceMismatch(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	body := checkoutBody()
	body["cart"] = []map[string]interface{}{
		{"productId": "p1", "qty": 2, "price": 50}, // catalog says 100
	}
	body["subtotal"] = 100

	resp := postJSON(t, env.app, "/api/pretransaction", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	_, err := env.orderRepo.GetByOrderID("OID1")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestPreTransactionRetryWithDifferentCartRejected(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	// First attempt records OID1 as a two-hoodie order worth 200
	resp := postJSON(t, env.app, "/api/pretransaction", checkoutBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Resubmitting the same orderId with a one-hoodie cart must not get a
	// fresh token priced at 100
	body := checkoutBody()
	body["cart"] = []map[string]interface{}{
		{"productId": "p1", "qty": 1, "price": 100},
	}
	body["subtotal"] = 100

	resp = postJSON(t, env.app, "/api/pretransaction", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decoded := decodeBody(t, resp)
	assert.Equal(t, false, decoded["success"])

	// The recorded order is untouched
	order, err := env.orderRepo.GetByOrderID("OID1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 200.0, order.Amount)

	// A faithful resubmission of the original cart still succeeds
	resp = postJSON(t, env.app, "/api/pretransaction", checkoutBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	retried := decodeBody(t, resp)
	assert.Equal(t, true, retried["success"])
	assert.Equal(t, "tok-test", retried["token"])
}

func TestPostTransactionUnknownOrder(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	resp := postJSON(t, env.app, "/api/posttransaction", map[string]interface{}{
		"ORDERID": "OID999",
		"STATUS":  "TXN_SUCCESS",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decoded := decodeBody(t, resp)
	assert.Equal(t, false, decoded["success"])

	// No inventory was touched
	product, err := env.productRepo.GetByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 10, product.AvailableQty)
}

func TestPostTransactionMethodNotAllowed(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/posttransaction", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestPostTransactionPendingStatus(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	resp := postJSON(t, env.app, "/api/pretransaction", checkoutBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, env.app, "/api/posttransaction", map[string]interface{}{
		"ORDERID": "OID1",
		"STATUS":  "PENDING",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	order, err := env.orderRepo.GetByOrderID("OID1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	// No inventory change for a still-pending transaction
	product, err := env.productRepo.GetByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 10, product.AvailableQty)
}

func TestAuthSignupLoginAndMyOrders(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	// Signup
	resp := postJSON(t, env.app, "/api/auth/signup", map[string]string{
		"name":     "Test Buyer",
		"email":    "buyer@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Duplicate signup conflicts
	resp = postJSON(t, env.app, "/api/auth/signup", map[string]string{
		"name":     "Test Buyer",
		"email":    "buyer@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login
	resp = postJSON(t, env.app, "/api/auth/login", map[string]string{
		"email":    "buyer@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	loginBody := decodeBody(t, resp)
	token, _ := loginBody["token"].(string)
	assert.NotEmpty(t, token)

	// Place an order so there is something to list
	resp = postJSON(t, env.app, "/api/pretransaction", checkoutBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// My orders requires a token
	req := httptest.NewRequest(http.MethodGet, "/api/myorder", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// With a token, the user's orders are listed
	req = httptest.NewRequest(http.MethodGet, "/api/myorder", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	listBody := decodeBody(t, resp)
	orders, ok := listBody["orders"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, orders, 1)

	// Single-order lookup is scoped to the owning account
	req = httptest.NewRequest(http.MethodGet, "/api/order/OID1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestGetProductsAndPincode(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)
	seedProduct(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/getproducts", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	products, ok := body["products"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, products, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/pincode", nil)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["pincode"])
}

func TestBlogListingAndLookup(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)

	assert.NoError(t, env.blogRepo.Create(&models.Blog{
		Slug:    "why-pandas-code",
		Title:   "Why Pandas Code",
		Excerpt: "An investigation.",
		Content: "Pandas code because bamboo compiles.",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	blogs, ok := body["blogs"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, blogs, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/getblog/why-pandas-code", nil)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	post := decodeBody(t, resp)
	assert.Equal(t, "Why Pandas Code", post["title"])

	req = httptest.NewRequest(http.MethodGet, "/api/getblog/no-such-post", nil)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestContactFormSubmission(t *testing.T) {
	gateway := fakeGateway(t)
	defer gateway.Close()
	env := setupApp(t, gateway.URL)

	resp := postJSON(t, env.app, "/api/contact", map[string]string{
		"name":  "Asha",
		"email": "asha@example.com",
		"phone": "9999999999",
		"desc":  "When is the panda mug back in stock?",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Message sent successfully!", body["message"])

	// Missing fields are rejected
	resp = postJSON(t, env.app, "/api/contact", map[string]string{
		"name":  "Asha",
		"email": "asha@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decoded := decodeBody(t, resp)
	assert.Equal(t, "All fields are required", decoded["error"])

	// Non-POST requests are not served
	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	getResp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, getResp.StatusCode)
	getResp.Body.Close()
}
