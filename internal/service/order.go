package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"garments-store/internal/dto"
	"garments-store/internal/model"
	"garments-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, buyerEmail string, req *dto.CreateOrderRequest) (*model.Order, error)
	Get(ctx context.Context, viewer *model.User, orderID string) (*model.Order, error)
	ListForBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error)
	ListPending(ctx context.Context, creatorEmail string) ([]*model.Order, error)
	ListApproved(ctx context.Context, creatorEmail string) ([]*model.Order, error)
	// Approve and Reject are open to the order's creator and to admins.
	Approve(ctx context.Context, decider *model.User, orderID string) (*model.Order, error)
	Reject(ctx context.Context, decider *model.User, orderID string) (*model.Order, error)
	Cancel(ctx context.Context, buyerEmail, orderID string) error
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	log         *slog.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	log *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		log:         log,
		now:         time.Now,
	}
}

func (s *orderServiceImpl) Create(ctx context.Context, buyerEmail string, req *dto.CreateOrderRequest) (*model.Order, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", req.ProductID, ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if req.Quantity < product.MinimumOrder {
		return nil, fmt.Errorf("%w: quantity below minimum order of %d", ErrInvalidInput, product.MinimumOrder)
	}
	if product.Quantity > 0 && req.Quantity > product.Quantity {
		return nil, fmt.Errorf("%w: only %d available", ErrInvalidInput, product.Quantity)
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		ProductID:       product.ID,
		ProductTitle:    product.Title,
		Quantity:        req.Quantity,
		UnitPrice:       product.Price,
		TotalPrice:      product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		BuyerEmail:      buyerEmail,
		CreatedBy:       product.OwnerEmail,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		OrderStatus:     model.OrderStatusPending,
	}
	if req.Attributes != nil {
		order.Attributes = datatypes.JSONMap(req.Attributes)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.log.Info("order placed", "order_id", order.ID, "buyer", buyerEmail, "product_id", product.ID)
	return order, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, viewer *model.User, orderID string) (*model.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case viewer.Role == model.RoleAdmin:
	case order.BuyerEmail == viewer.Email:
	case order.CreatedBy == viewer.Email:
	default:
		return nil, fmt.Errorf("order %s: %w", orderID, ErrForbidden)
	}

	return order, nil
}

func (s *orderServiceImpl) ListForBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("list buyer orders: %w", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) ListPending(ctx context.Context, creatorEmail string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByCreator(ctx, creatorEmail, model.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) ListApproved(ctx context.Context, creatorEmail string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByCreator(ctx, creatorEmail, model.OrderStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved orders: %w", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) Approve(ctx context.Context, decider *model.User, orderID string) (*model.Order, error) {
	return s.decide(ctx, decider, orderID, model.OrderStatusApproved)
}

func (s *orderServiceImpl) Reject(ctx context.Context, decider *model.User, orderID string) (*model.Order, error) {
	return s.decide(ctx, decider, orderID, model.OrderStatusRejected)
}

// decide applies a manager decision. Approved and Rejected are terminal.
func (s *orderServiceImpl) decide(ctx context.Context, decider *model.User, orderID string, status model.OrderStatus) (*model.Order, error) {
	current, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if decider.Role != model.RoleAdmin && current.CreatedBy != decider.Email {
		return nil, fmt.Errorf("order %s belongs to another manager: %w", orderID, ErrForbidden)
	}

	updated, err := s.orderRepo.Decide(ctx, orderID, status, s.now())
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if updated == 0 {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.OrderStatus, ErrOrderFinalized)
	}

	s.log.Info("order decided", "order_id", orderID, "status", status, "by", decider.Email)
	return order, nil
}

func (s *orderServiceImpl) Cancel(ctx context.Context, buyerEmail, orderID string) error {
	deleted, err := s.orderRepo.DeletePending(ctx, orderID, buyerEmail)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if deleted > 0 {
		return nil
	}

	order, err := s.find(ctx, orderID)
	if err != nil {
		return err
	}
	if order.BuyerEmail != buyerEmail {
		return fmt.Errorf("order %s: %w", orderID, ErrForbidden)
	}

	return fmt.Errorf("%w: only pending unpaid orders can be cancelled", ErrConflict)
}

func (s *orderServiceImpl) find(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}
