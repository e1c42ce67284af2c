package repository

import (
	"context"

	"gorm.io/gorm"

	"skoleadmin/backend/internal/model"
	pkgerrors "skoleadmin/backend/pkg/errors"
)

// UgeplanRepository 周计划数据访问接口
type UgeplanRepository interface {
	Create(ctx context.Context, plan *model.Ugeplan) error
	GetByID(ctx context.Context, id string) (*model.Ugeplan, error)
	ListByWeek(ctx context.Context, holdID string, uge, aar int) ([]model.Ugeplan, error)
	ListDrafts(ctx context.Context, holdID string) ([]model.Ugeplan, error)
	ListByHoldAndWeekRange(ctx context.Context, holdID string, fromAar, fromUge, toAar, toUge int) ([]model.Ugeplan, error)
	Update(ctx context.Context, plan *model.Ugeplan) error
	Delete(ctx context.Context, id string) error
}

type ugeplanRepo struct {
	db *gorm.DB
}

// NewUgeplanRepo 创建 UgeplanRepository 实例
func NewUgeplanRepo(db *gorm.DB) UgeplanRepository {
	return &ugeplanRepo{db: db}
}

func (r *ugeplanRepo) Create(ctx context.Context, plan *model.Ugeplan) error {
	if plan.Version == 0 {
		plan.Version = 1
	}
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *ugeplanRepo) GetByID(ctx context.Context, id string) (*model.Ugeplan, error) {
	var plan model.Ugeplan
	err := r.db.WithContext(ctx).
		Preload("Hold").
		Where("ugeplan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByWeek 指定周已发布的周计划
func (r *ugeplanRepo) ListByWeek(ctx context.Context, holdID string, uge, aar int) ([]model.Ugeplan, error) {
	var plans []model.Ugeplan
	err := r.db.WithContext(ctx).
		Where("hold_id = ? AND uge = ? AND aar = ? AND er_kladde = ?", holdID, uge, aar, false).
		Order("created_at ASC").
		Find(&plans).Error
	return plans, err
}

// ListDrafts 教学班的全部草稿，最近更新的在前
func (r *ugeplanRepo) ListDrafts(ctx context.Context, holdID string) ([]model.Ugeplan, error) {
	var plans []model.Ugeplan
	err := r.db.WithContext(ctx).
		Where("hold_id = ? AND er_kladde = ?", holdID, true).
		Order("updated_at DESC").
		Find(&plans).Error
	return plans, err
}

// ListByHoldAndWeekRange 闭区间 [from, to] 内已发布的周计划，按 (aar, uge) 升序
func (r *ugeplanRepo) ListByHoldAndWeekRange(ctx context.Context, holdID string, fromAar, fromUge, toAar, toUge int) ([]model.Ugeplan, error) {
	var plans []model.Ugeplan
	err := r.db.WithContext(ctx).
		Where("hold_id = ? AND er_kladde = ?", holdID, false).
		Where("(aar, uge) >= (?, ?) AND (aar, uge) <= (?, ?)", fromAar, fromUge, toAar, toUge).
		Order("aar ASC, uge ASC, created_at ASC").
		Find(&plans).Error
	return plans, err
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *ugeplanRepo) Update(ctx context.Context, plan *model.Ugeplan) error {
	oldVersion := plan.Version
	result := r.db.WithContext(ctx).
		Model(&model.Ugeplan{}).
		Where("ugeplan_id = ? AND version = ?", plan.UgeplanID, oldVersion).
		Updates(map[string]interface{}{
			"uge":       plan.Uge,
			"aar":       plan.Aar,
			"navn":      plan.Navn,
			"er_kladde": plan.ErKladde,
			"dage":      plan.Dage,
			"version":   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	plan.Version = oldVersion + 1
	return nil
}

func (r *ugeplanRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("ugeplan_id = ?", id).
		Delete(&model.Ugeplan{}).Error
}
