package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"garments-store/internal/client"
	"garments-store/internal/config"
	"garments-store/internal/dto"
	"garments-store/internal/model"
	"garments-store/internal/repository"
	"garments-store/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type fakeCheckout struct {
	mu       sync.Mutex
	sessions map[string]*client.CheckoutSession
}

func (f *fakeCheckout) CreateSession(ctx context.Context, req *client.CheckoutSessionRequest) (*client.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := "PAYPAL-" + uuid.NewString()
	f.sessions[id] = &client.CheckoutSession{
		ID:            id,
		URL:           "https://www.sandbox.paypal.com/checkoutnow?token=" + id,
		PaymentStatus: client.SessionStatusUnpaid,
		AmountTotal:   decimal.New(req.AmountMinor, -2),
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		Metadata: map[string]string{
			"orderId":     req.OrderID,
			"productId":   req.ProductID,
			"productName": req.ProductName,
		},
	}
	return f.sessions[id], nil
}

func (f *fakeCheckout) GetSession(ctx context.Context, sessionID string) (*client.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("RESOURCE_NOT_FOUND")
	}
	copied := *session
	return &copied, nil
}

func (f *fakeCheckout) capture(sessionID, transactionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sessions[sessionID].PaymentStatus = client.SessionStatusPaid
	f.sessions[sessionID].TransactionID = transactionID
}

type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	handler  http.Handler
	checkout *fakeCheckout
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := client.InitDBClient(&config.Database{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	checkout := &fakeCheckout{sessions: map[string]*client.CheckoutSession{}}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	srv := NewServer(Services{
		Users:    service.NewUserService(userRepo, log),
		Products: service.NewProductService(productRepo),
		Orders:   service.NewOrderService(orderRepo, productRepo, log),
		Payments: service.NewPaymentService(db, checkout, "http://localhost:5173", "USD", orderRepo, paymentRepo, log),
	}, client.NewIdentityClient(&config.Auth{JWTSecret: testSecret}), log)

	return &testEnv{t: t, db: db, handler: srv.Handler(), checkout: checkout}
}

func token(t *testing.T, email string) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.NewString(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do sends a request as email ("" for anonymous) and decodes a 2xx body
// into out when it is non-nil.
func (e *testEnv) do(method, target, email, body string, out interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+token(e.t, email))
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func (e *testEnv) seedAdmin(email string) {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(&model.User{
		ID:     uuid.NewString(),
		Email:  email,
		Role:   model.RoleAdmin,
		Status: model.UserStatusApproved,
	}).Error)
}

func (e *testEnv) register(email string, role model.Role) {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/users", email, `{"name":"n","role":"`+string(role)+`"}`, nil)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/health", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("admin@example.com")
	env.register("plain@example.com", model.RoleUser)

	rec := env.do(http.MethodGet, "/users", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	bad := httptest.NewRecorder()
	env.handler.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	rec = env.do(http.MethodGet, "/users", "stranger@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/users", "plain@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())

	var page dto.UserPage
	rec = env.do(http.MethodGet, "/users?limit=10", "admin@example.com", "", &page)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Users, 2)
}

func TestRegisterTwice(t *testing.T) {
	env := newTestEnv(t)

	var first, second dto.RegisterUserResponse
	rec := env.do(http.MethodPost, "/users", "someone@example.com", `{"name":"Some One"}`, &first)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, first.Inserted)
	require.NotNil(t, first.User)
	assert.Equal(t, "someone@example.com", first.User.Email)
	assert.Equal(t, model.RoleUser, first.User.Role)

	rec = env.do(http.MethodPost, "/users", "someone@example.com", `{"name":"Other"}`, &second)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, second.Inserted)

	var role dto.UserRoleResponse
	rec = env.do(http.MethodGet, "/users/someone@example.com/role", "someone@example.com", "", &role)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleUser, role.Role)
	assert.Equal(t, model.UserStatusPending, role.Status)
}

func TestRegisterRejectsAdminAndUnknownFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/users", "x@example.com", `{"role":"Admin"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/users", "x@example.com", `{"name":"x","isAdmin":true}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register("maker@example.com", model.RoleManager)
	env.register("buyer@example.com", model.RoleUser)

	var product model.Product
	rec := env.do(http.MethodPost, "/products", "maker@example.com",
		`{"title":"Denim Jacket","category":"Jacket","price":"25.00","quantity":100,"minimumOrder":2}`, &product)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "maker@example.com", product.OwnerEmail)

	// only managers create products
	env.seedAdmin("admin@example.com")
	for _, email := range []string{"buyer@example.com", "admin@example.com"} {
		rec = env.do(http.MethodPost, "/products", email,
			`{"title":"Nope","category":"Jacket","price":"1.00"}`, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, email)
	}

	var order model.Order
	rec = env.do(http.MethodPost, "/orders", "buyer@example.com",
		`{"productId":"`+product.ID+`","quantity":2,"deliveryAddress":"12 Loom St"}`, &order)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("50")))

	var session dto.CheckoutSessionResponse
	rec = env.do(http.MethodPost, "/create-checkout-session", "buyer@example.com",
		`{"cost":"50","productId":"`+product.ID+`","productName":"Denim Jacket","orderId":"`+order.ID+`"}`, &session)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, session.SessionID)
	assert.Contains(t, session.URL, session.SessionID)

	var unpaid dto.PaymentConfirmation
	rec = env.do(http.MethodPatch, "/payment-success?session_id="+session.SessionID, "", "", &unpaid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, unpaid.Success)
	assert.Equal(t, client.SessionStatusUnpaid, unpaid.PaymentStatus)

	env.checkout.capture(session.SessionID, "CAP-123")

	var paid dto.PaymentConfirmation
	rec = env.do(http.MethodPatch, "/payment-success?session_id="+session.SessionID, "", "", &paid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, paid.Success)
	assert.Equal(t, "CAP-123", paid.TransactionID)
	assert.Regexp(t, `^TRK-[0-9A-Z]+-[0-9A-Z]{5}$`, paid.TrackingID)

	// PayPal's return URL carries the order id as token
	var replay dto.PaymentConfirmation
	rec = env.do(http.MethodPatch, "/payment-success?token="+session.SessionID, "", "", &replay)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, paid.TrackingID, replay.TrackingID)

	var orders []*model.Order
	rec = env.do(http.MethodGet, "/my-orders", "buyer@example.com", "", &orders)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, orders, 1)
	assert.Equal(t, model.PaymentStatusPaid, orders[0].PaymentStatus)
	assert.Equal(t, paid.TrackingID, orders[0].TrackingID)

	var payments []*model.Payment
	rec = env.do(http.MethodGet, "/payments", "buyer@example.com", "", &payments)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, payments, 1)
	assert.Equal(t, "buyer@example.com", payments[0].CustomerEmail)

	rec = env.do(http.MethodGet, "/payments?email=buyer@example.com", "maker@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckoutValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/create-checkout-session", "",
		`{"cost":"10","productId":"p1","productName":"Tee"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/create-checkout-session", "buyer@example.com",
		`{"cost":"0","productId":"p1","productName":"Tee"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/create-checkout-session", "buyer@example.com",
		`{"cost":"10","productId":"p1","productName":"Tee","email":"other@example.com"}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPatch, "/payment-success", "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	longID := strings.Repeat("p", 65)
	rec = env.do(http.MethodPost, "/create-checkout-session", "buyer@example.com",
		`{"cost":"10","productId":"`+longID+`","productName":"Tee"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/create-checkout-session", "buyer@example.com",
		`{"cost":"10","productId":"p1","productName":"Tee","orderId":"`+longID+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, id := range []string{"..", "..%2F..%2Fv1%2Fnotifications%2Fwebhooks", "ORDER-1%3Fx%3D1", longID} {
		rec = env.do(http.MethodPatch, "/payment-success?session_id="+id, "", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.JSONEq(t, `{"message":"invalid session_id"}`, rec.Body.String(), id)
	}

	rec = env.do(http.MethodPatch, "/payment-success?session_id=missing", "", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"message":"upstream service failure"}`, rec.Body.String())
}

func TestOrderDecisions(t *testing.T) {
	env := newTestEnv(t)
	env.register("maker@example.com", model.RoleManager)
	env.register("buyer@example.com", model.RoleUser)

	var product model.Product
	rec := env.do(http.MethodPost, "/products", "maker@example.com",
		`{"title":"Polo","category":"Shirt","price":"9.50"}`, &product)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order model.Order
	rec = env.do(http.MethodPost, "/orders", "buyer@example.com",
		`{"productId":"`+product.ID+`","quantity":3,"deliveryAddress":"1 Mill Rd"}`, &order)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pending []*model.Order
	rec = env.do(http.MethodGet, "/orders/pending", "maker@example.com", "", &pending)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pending, 1)

	rec = env.do(http.MethodPatch, "/my-orders/"+order.ID+"/approve", "buyer@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.register("rival@example.com", model.RoleManager)
	rec = env.do(http.MethodPatch, "/my-orders/"+order.ID+"/approve", "rival@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var approved model.Order
	rec = env.do(http.MethodPatch, "/my-orders/"+order.ID+"/approve", "maker@example.com", "", &approved)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.OrderStatusApproved, approved.OrderStatus)
	assert.NotNil(t, approved.ApprovedAt)

	rec = env.do(http.MethodPatch, "/my-orders/"+order.ID+"/reject", "maker@example.com", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodDelete, "/my-orders/"+order.ID, "buyer@example.com", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var fetched model.Order
	rec = env.do(http.MethodGet, "/orders/"+order.ID, "buyer@example.com", "", &fetched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.ID, fetched.ID)

	env.register("nosy@example.com", model.RoleUser)
	rec = env.do(http.MethodGet, "/orders/"+order.ID, "nosy@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/orders/unknown", "buyer@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductListing(t *testing.T) {
	env := newTestEnv(t)
	env.register("maker@example.com", model.RoleManager)

	for _, title := range []string{"Linen Shirt", "Wool Coat", "Linen Trousers"} {
		rec := env.do(http.MethodPost, "/products", "maker@example.com",
			`{"title":"`+title+`","category":"Apparel","price":"20"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	var page dto.ProductPage
	rec := env.do(http.MethodGet, "/products?search=linen&limit=1", "", "", &page)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Products, 1)

	for i := 0; i < 12; i++ {
		rec = env.do(http.MethodPost, "/products", "maker@example.com",
			fmt.Sprintf(`{"title":"Cotton Tee %02d","category":"Apparel","price":"8"}`, i), nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	// without a limit every product is listed
	var all dto.ProductPage
	rec = env.do(http.MethodGet, "/products", "", "", &all)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 15, all.Total)
	assert.Len(t, all.Products, 15)

	rec = env.do(http.MethodGet, "/products?sort=color", "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var owned []*model.Product
	rec = env.do(http.MethodGet, "/products/by-email/maker@example.com", "maker@example.com", "", &owned)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, owned, 15)

	rec = env.do(http.MethodGet, "/products/"+uuid.NewString(), "", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
