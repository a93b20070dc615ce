package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"rentacar.com/internal/domain"
	"rentacar.com/internal/model"
)

// CarRepo implements domain.CarRepository on GORM.
var _ domain.CarRepository = (*CarRepo)(nil)

type CarRepo struct {
	db *gorm.DB
}

func NewCarRepo(db *gorm.DB) *CarRepo {
	return &CarRepo{db: db}
}

func (r *CarRepo) FindByID(ctx context.Context, id uint) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewInternalError("failed to fetch car", err)
	}
	return &car, nil
}

func (r *CarRepo) List(ctx context.Context, page, pageSize int) ([]model.Car, int64, error) {
	var cars []model.Car
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&model.Car{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count cars", err)
	}
	if err := query.Order("id ASC").Limit(pageSize).Offset(offset).Find(&cars).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to list cars", err)
	}
	return cars, total, nil
}

func (r *CarRepo) Insert(ctx context.Context, car *model.Car) error {
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		return domain.NewInternalError("failed to create car", err)
	}
	return nil
}

func (r *CarRepo) Update(ctx context.Context, car *model.Car) error {
	res := r.db.WithContext(ctx).Model(&model.Car{}).Where("id = ?", car.ID).
		Updates(map[string]interface{}{
			"brand":         car.Brand,
			"model":         car.Model,
			"year":          car.Year,
			"seats":         car.Seats,
			"info":          car.Info,
			"price_per_day": car.PricePerDay,
		})
	if res.Error != nil {
		return domain.NewInternalError("failed to update car", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CarRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Car{}, id)
	if res.Error != nil {
		return domain.NewInternalError("failed to delete car", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
