package repository

import (
	"context"

	"garments-store/internal/model"

	"gorm.io/gorm"
)

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"title":     "title",
}

type ProductFilter struct {
	Search     string // substring of title, case-insensitive
	Category   string
	OwnerEmail string
	HomeOnly   bool
	SortBy     string // createdAt | price | title
	Desc       bool
	Page
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*model.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, productID string) (int64, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) List(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Product{})
		if filter.Search != "" {
			q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", likePattern(filter.Search))
		}
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.OwnerEmail != "" {
			q = q.Where("owner_email = ?", filter.OwnerEmail)
		}
		if filter.HomeOnly {
			q = q.Where("show_on_home = ?", true)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if filter.Desc {
		direction = " DESC"
	}

	var products []*model.Product
	err := filter.Page.apply(filtered()).
		Order(column + direction).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepoImpl) ListByOwner(ctx context.Context, ownerEmail string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("owner_email = ?", ownerEmail).
		Order("created_at DESC").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Update(ctx context.Context, productID string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	return result.RowsAffected, result.Error
}
