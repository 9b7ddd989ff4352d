package repository

import (
	"context"
	"time"

	"garments-store/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error)
	ListByCreator(ctx context.Context, creatorEmail string, status model.OrderStatus) ([]*model.Order, error)
	// Decide moves a Pending order to status. Zero rows means the order is
	// missing or no longer Pending.
	Decide(ctx context.Context, orderID string, status model.OrderStatus, at time.Time) (int64, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID, trackingID string) (int64, error)
	DeletePending(ctx context.Context, orderID, buyerEmail string) (int64, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_email = ?", buyerEmail).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListByCreator(ctx context.Context, creatorEmail string, status model.OrderStatus) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("created_by = ?", creatorEmail).
		Where("order_status = ?", status).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) Decide(ctx context.Context, orderID string, status model.OrderStatus, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"order_status": status,
	}
	switch status {
	case model.OrderStatusApproved:
		updates["approved_at"] = at
	case model.OrderStatusRejected:
		updates["rejected_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where(`
			id = ?
			AND order_status = ?
		`,
			orderID,
			model.OrderStatusPending,
		).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID, trackingID string) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"tracking_id":    trackingID,
		})

	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) DeletePending(ctx context.Context, orderID, buyerEmail string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where(`
			id = ?
			AND buyer_email = ?
			AND order_status = ?
			AND (payment_status IS NULL OR payment_status = '')
		`,
			orderID,
			buyerEmail,
			model.OrderStatusPending,
		).
		Delete(&model.Order{})

	return result.RowsAffected, result.Error
}
