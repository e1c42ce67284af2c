package repository

import (
	"context"

	"gorm.io/gorm"

	"skoleadmin/backend/internal/model"
)

// HoldFilter 教学班列表过滤条件；空字段表示不过滤
type HoldFilter struct {
	Afdeling     string
	Modulperiode string
}

// HoldRepository 教学班数据访问接口
type HoldRepository interface {
	Create(ctx context.Context, hold *model.Hold) error
	GetByID(ctx context.Context, id string) (*model.Hold, error)
	List(ctx context.Context, filter HoldFilter) ([]model.Hold, error)
	Update(ctx context.Context, hold *model.Hold) error
	Delete(ctx context.Context, id string) error
}

type holdRepo struct {
	db *gorm.DB
}

// NewHoldRepo 创建 HoldRepository 实例
func NewHoldRepo(db *gorm.DB) HoldRepository {
	return &holdRepo{db: db}
}

func (r *holdRepo) Create(ctx context.Context, hold *model.Hold) error {
	return r.db.WithContext(ctx).Create(hold).Error
}

func (r *holdRepo) GetByID(ctx context.Context, id string) (*model.Hold, error) {
	var hold model.Hold
	err := r.db.WithContext(ctx).
		Where("hold_id = ?", id).
		First(&hold).Error
	if err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *holdRepo) List(ctx context.Context, filter HoldFilter) ([]model.Hold, error) {
	q := r.db.WithContext(ctx).Model(&model.Hold{})
	if filter.Afdeling != "" {
		q = q.Where("afdeling = ?", filter.Afdeling)
	}
	if filter.Modulperiode != "" {
		q = q.Where("modulperiode = ?", filter.Modulperiode)
	}

	var holds []model.Hold
	err := q.Order("startdato DESC, navn ASC").Find(&holds).Error
	return holds, err
}

func (r *holdRepo) Update(ctx context.Context, hold *model.Hold) error {
	return r.db.WithContext(ctx).Save(hold).Error
}

func (r *holdRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("hold_id = ?", id).
		Delete(&model.Hold{}).Error
}
