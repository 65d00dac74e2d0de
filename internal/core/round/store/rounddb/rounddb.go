package rounddb

import (
	"context"
	"log/slog"

	"github.com/gowvp/wink/internal/core/round"
	"github.com/ixugo/goddd/pkg/orm"
	"gorm.io/gorm"
)

// DB 对局存储的 gorm 实现
type DB struct {
	db *gorm.DB
}

var _ round.Storer = DB{}

func NewDB(db *gorm.DB) DB {
	return DB{db: db}
}

// AutoMigrate 按需建表，链式调用
func (d DB) AutoMigrate(enabled bool) DB {
	if !enabled {
		return d
	}
	if err := d.db.AutoMigrate(&round.Round{}); err != nil {
		slog.Error("auto migrate rounds", "err", err)
	}
	return d
}

func (d DB) Round() round.RoundStorer {
	return Rounds{db: d.db}
}

// Rounds implements round.RoundStorer
type Rounds struct {
	db *gorm.DB
}

func (r Rounds) session(ctx context.Context, opts ...orm.QueryOption) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&round.Round{})
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

func (r Rounds) Find(ctx context.Context, out *[]*round.Round, pager orm.Pager, opts ...orm.QueryOption) (int64, error) {
	db := r.session(ctx, opts...)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := db.Offset(pager.Offset()).Limit(pager.Limit()).Find(out).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r Rounds) Get(ctx context.Context, out *round.Round, opts ...orm.QueryOption) error {
	return r.session(ctx, opts...).First(out).Error
}

func (r Rounds) Add(ctx context.Context, in *round.Round) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r Rounds) Del(ctx context.Context, out *round.Round, opts ...orm.QueryOption) error {
	db := r.session(ctx, opts...)
	if err := db.First(out).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(out).Error
}

func (r Rounds) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	var total int64
	err := r.session(ctx, opts...).Count(&total).Error
	return total, err
}
