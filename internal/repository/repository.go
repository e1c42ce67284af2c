package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db      *gorm.DB
	Hold    HoldRepository
	Ugeplan UgeplanRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:      db,
		Hold:    NewHoldRepo(db),
		Ugeplan: NewUgeplanRepo(db),
	}
}

// Transaction 在同一事务中执行 fn；fn 返回错误时回滚
// 测试中以 mock 组装的 Repository 没有 db，直接执行 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
