package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"garments-store/internal/client"
	"garments-store/internal/dto"
	"garments-store/internal/model"
	"garments-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, buyerEmail string, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*dto.PaymentConfirmation, error)
	ListPayments(ctx context.Context, email string) ([]*model.Payment, error)
}

type paymentServiceImpl struct {
	db             *gorm.DB
	checkoutClient client.CheckoutClient
	clientURL      string
	currency       string
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	log            *slog.Logger
	now            func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	checkoutClient client.CheckoutClient,
	clientURL string,
	currency string,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	log *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:             db,
		checkoutClient: checkoutClient,
		clientURL:      strings.TrimRight(clientURL, "/"),
		currency:       currency,
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		log:            log,
		now:            time.Now,
	}
}

func (s *paymentServiceImpl) CreateCheckoutSession(ctx context.Context, buyerEmail string, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	if !req.Cost.IsPositive() {
		return nil, fmt.Errorf("%w: cost must be positive", ErrInvalidInput)
	}

	orderID := req.OrderID
	if orderID == "" {
		// the storefront passes the order id in the product slot
		orderID = req.ProductID
	}

	session, err := s.checkoutClient.CreateSession(ctx, &client.CheckoutSessionRequest{
		AmountMinor:   req.Cost.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency:      s.currency,
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		OrderID:       orderID,
		CustomerEmail: buyerEmail,
		SuccessURL:    s.clientURL + "/dashboard/payment-success",
		CancelURL:     s.clientURL + "/dashboard/payment-cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %w", ErrUpstream, err)
	}

	return &dto.CheckoutSessionResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}, nil
}

// ConfirmPayment reconciles a checkout session. It is idempotent per
// gateway transaction: replays return the tracking id already issued.
// An unpaid session writes nothing.
func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, sessionID string) (*dto.PaymentConfirmation, error) {
	session, err := s.checkoutClient.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve checkout session: %w", ErrUpstream, err)
	}

	if session.TransactionID != "" {
		existing, err := s.paymentRepo.FindByTransactionID(ctx, nil, session.TransactionID)
		if err == nil {
			s.log.Info("payment replay", "session_id", sessionID, "transaction_id", existing.TransactionID)
			return confirmation(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find payment: %w", err)
		}
	}

	if session.PaymentStatus != client.SessionStatusPaid {
		s.log.Info("checkout session not paid", "session_id", sessionID, "payment_status", session.PaymentStatus)
		return &dto.PaymentConfirmation{
			Success:       false,
			PaymentStatus: session.PaymentStatus,
		}, nil
	}

	if session.TransactionID == "" {
		return nil, fmt.Errorf("%w: paid session %s has no transaction id", ErrUpstream, sessionID)
	}

	orderID := session.Metadata["orderId"]
	customerEmail := session.CustomerEmail
	if orderID != "" {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		switch {
		case err == nil:
			customerEmail = order.BuyerEmail
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.log.Warn("paid session references unknown order", "session_id", sessionID, "order_id", orderID)
			orderID = ""
		default:
			return nil, fmt.Errorf("find order: %w", err)
		}
	}

	payment := &model.Payment{
		ID:            uuid.NewString(),
		Amount:        session.AmountTotal,
		Currency:      session.Currency,
		CustomerEmail: customerEmail,
		ProductID:     session.Metadata["productId"],
		ProductName:   session.Metadata["productName"],
		OrderID:       orderID,
		TransactionID: session.TransactionID,
		PaymentStatus: session.PaymentStatus,
		TrackingID:    NewTrackingID(s.now()),
		PaidAt:        s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the unique transaction index decides concurrent confirmations
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}

		if orderID == "" {
			return nil
		}
		if _, err := s.orderRepo.MarkPaid(ctx, tx, orderID, payment.TrackingID); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		return nil
	})

	if errors.Is(err, repository.ErrDuplicatePayment) {
		existing, err := s.paymentRepo.FindByTransactionID(ctx, nil, session.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("find payment after duplicate insert: %w", err)
		}
		return confirmation(existing), nil
	}
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.log.Info("payment recorded",
		"session_id", sessionID,
		"transaction_id", payment.TransactionID,
		"order_id", orderID,
		"tracking_id", payment.TrackingID,
	)
	return confirmation(payment), nil
}

func (s *paymentServiceImpl) ListPayments(ctx context.Context, email string) ([]*model.Payment, error) {
	payments, err := s.paymentRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func confirmation(p *model.Payment) *dto.PaymentConfirmation {
	return &dto.PaymentConfirmation{
		Success:       true,
		TrackingID:    p.TrackingID,
		TransactionID: p.TransactionID,
		PaymentStatus: p.PaymentStatus,
	}
}
