package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"rentacar.com/internal/domain"
	"rentacar.com/internal/model"
)

// UserRepo implements domain.UserRepository on GORM.
var _ domain.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewInternalError("failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByField(ctx context.Context, field domain.UserField, value string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(string(field)+" = ?", value).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domain.NewInternalError("failed to fetch user by "+string(field), err)
	}
	return &user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (r *UserRepo) Insert(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrAlreadyExists
		}
		return domain.NewInternalError("failed to create user", err)
	}
	return nil
}

// Update writes the admin-editable columns guarded by the record's version.
// A lost race resolves against the current state of the row: gone means
// NotFound, still present means a terminal conflict.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
			"egn":      user.EGN,
			"password": user.Password,
			"version":  user.Version + 1,
		})
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return domain.ErrAlreadyExists
		}
		return domain.NewInternalError("failed to update user", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Count(&count)
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	user.Version++
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return domain.NewInternalError("failed to delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isDuplicateKey matches unique-constraint violations across postgres and the
// sqlite driver used in tests.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
