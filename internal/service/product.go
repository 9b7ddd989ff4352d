package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"garments-store/internal/dto"
	"garments-store/internal/model"
	"garments-store/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductService interface {
	List(ctx context.Context, query *dto.ListProductsQuery) (*dto.ProductPage, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*model.Product, error)
	Create(ctx context.Context, ownerEmail string, req *dto.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, productID string, req *dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) List(ctx context.Context, query *dto.ListProductsQuery) (*dto.ProductPage, error) {
	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Search:     strings.TrimSpace(query.Search),
		Category:   query.Category,
		OwnerEmail: query.Email,
		HomeOnly:   query.Home,
		SortBy:     query.Sort,
		Desc:       query.Order == "desc",
		Page:       repository.Page{Limit: query.Limit, Skip: query.Skip},
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &dto.ProductPage{Products: products, Total: total}, nil
}

func (s *productServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	return product, nil
}

func (s *productServiceImpl) ListByOwner(ctx context.Context, ownerEmail string) ([]*model.Product, error) {
	products, err := s.productRepo.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("list products by owner: %w", err)
	}

	return products, nil
}

func (s *productServiceImpl) Create(ctx context.Context, ownerEmail string, req *dto.CreateProductRequest) (*model.Product, error) {
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	minimum := req.MinimumOrder
	if minimum == 0 {
		minimum = 1
	}
	if req.Quantity > 0 && minimum > req.Quantity {
		return nil, fmt.Errorf("%w: minimum order exceeds available quantity", ErrInvalidInput)
	}

	product := &model.Product{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price.Round(2),
		Quantity:     req.Quantity,
		MinimumOrder: minimum,
		OwnerEmail:   ownerEmail,
		ShowOnHome:   req.ShowOnHome,
	}
	if req.Attributes != nil {
		product.Attributes = datatypes.JSONMap(req.Attributes)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, productID string, req *dto.UpdateProductRequest) (*model.Product, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.MinimumOrder != nil {
		updates["minimum_order"] = *req.MinimumOrder
	}
	if req.ShowOnHome != nil {
		updates["show_on_home"] = *req.ShowOnHome
	}
	if req.Attributes != nil {
		updates["attributes"] = datatypes.JSONMap(req.Attributes)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	// zero rows can also mean "nothing changed" on mysql, so reload decides
	if _, err := s.productRepo.Update(ctx, productID, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return s.Get(ctx, productID)
}

func (s *productServiceImpl) Delete(ctx context.Context, productID string) error {
	deleted, err := s.productRepo.Delete(ctx, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	return nil
}
