package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"garments-store/internal/client"
	"garments-store/internal/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDBClient(&config.Database{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCheckout stands in for the payment gateway.
type fakeCheckout struct {
	mu        sync.Mutex
	sessions  map[string]*client.CheckoutSession
	lastReq   *client.CheckoutSessionRequest
	createErr error
	getErr    error
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{sessions: map[string]*client.CheckoutSession{}}
}

func (f *fakeCheckout) CreateSession(ctx context.Context, req *client.CheckoutSessionRequest) (*client.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastReq = req

	id := "cs_" + uuid.NewString()
	f.sessions[id] = &client.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.test/" + id,
		PaymentStatus: client.SessionStatusUnpaid,
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

	if f.getErr != nil {
		return nil, f.getErr
	}
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	copied := *session
	return &copied, nil
}

// pay marks a session paid the way the gateway would after capture.
func (f *fakeCheckout) pay(sessionID, transactionID string, amount string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.sessions[sessionID]
	s.PaymentStatus = client.SessionStatusPaid
	s.TransactionID = transactionID
	s.AmountTotal = mustDecimal(amount)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
