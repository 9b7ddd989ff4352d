package repository

import (
	"context"
	"errors"

	"garments-store/internal/model"

	"gorm.io/gorm"
)

// ErrDuplicatePayment is returned when a payment for the same gateway
// transaction is already stored.
var ErrDuplicatePayment = errors.New("payment already recorded for transaction")

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	FindByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*model.Payment, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Payment, error)
}

type paymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepositoryImpl{
		db: db,
	}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	err := tx.WithContext(ctx).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePayment
	}
	return err
}

func (r *paymentRepositoryImpl) FindByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}

	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepositoryImpl) ListByEmail(ctx context.Context, email string) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}
