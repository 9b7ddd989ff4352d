package repository

import (
	"context"

	"garments-store/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFilter struct {
	Role   model.Role
	Status model.UserStatus
	Page
}

type UserRepository interface {
	// CreateIfAbsent inserts the user unless the email is taken and reports
	// whether a row was written.
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]*model.User, int64, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (int64, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(user)

	return result.RowsAffected > 0, result.Error
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) List(ctx context.Context, filter UserFilter) ([]*model.User, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.User{})
		if filter.Role != "" {
			q = q.Where("role = ?", filter.Role)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err := filter.Page.apply(filtered()).
		Order("created_at DESC").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepoImpl) Update(ctx context.Context, userID string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(updates)

	return result.RowsAffected, result.Error
}
