package round

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/jinzhu/copier"
)

// Storer data persistence
type Storer interface {
	Round() RoundStorer
}

// RoundStorer Instantiation interface
type RoundStorer interface {
	Find(context.Context, *[]*Round, orm.Pager, ...orm.QueryOption) (int64, error)
	Get(context.Context, *Round, ...orm.QueryOption) error
	Add(context.Context, *Round) error
	Del(context.Context, *Round, ...orm.QueryOption) error
	Count(context.Context, ...orm.QueryOption) (int64, error)
}

// Core business domain
type Core struct {
	store Storer
}

// NewCore create business domain
func NewCore(store Storer) Core {
	return Core{store: store}
}

// AddRoundInput 新增对局入参
type AddRoundInput struct {
	StartedAt time.Time
	StoppedAt time.Time
	Score     int
	Resets    int
}

// FindRoundInput 分页查询对局入参
type FindRoundInput struct {
	web.PagerFilter
	web.DateFilter
	MinScore int `form:"min_score"`
}

// AddRound Insert into database
func (c Core) AddRound(ctx context.Context, in *AddRoundInput) (*Round, error) {
	var out Round
	if err := copier.Copy(&out, in); err != nil {
		slog.ErrorContext(ctx, "Copy", "err", err)
	}
	out.ID = uuid.NewString()
	out.StartedAt = orm.Time{Time: in.StartedAt}
	out.StoppedAt = orm.Time{Time: in.StoppedAt}
	if err := c.store.Round().Add(ctx, &out); err != nil {
		return nil, reason.ErrDB.Withf(`Add err[%s]`, err.Error())
	}
	return &out, nil
}

// FindRounds 分页查询对局列表，支持分数与时间范围筛选
func (c Core) FindRounds(ctx context.Context, in *FindRoundInput) ([]*Round, int64, error) {
	query := orm.NewQuery(3).OrderBy("started_at DESC")
	if in.MinScore > 0 {
		query.Where("score >= ?", in.MinScore)
	}
	if in.StartMs > 0 && in.EndMs > 0 {
		query.Where("started_at >= ? AND stopped_at <= ?", in.StartAt(), in.EndAt())
	}

	items := make([]*Round, 0, in.Limit())
	total, err := c.store.Round().Find(ctx, &items, in, query.Encode()...)
	if err != nil {
		return nil, 0, reason.ErrDB.Withf(`Find in[%+v] err[%s]`, in, err.Error())
	}
	return items, total, nil
}

// GetRound Query a single object
func (c Core) GetRound(ctx context.Context, id string) (*Round, error) {
	var out Round
	if err := c.store.Round().Get(ctx, &out, orm.Where("id=?", id)); err != nil {
		if orm.IsErrRecordNotFound(err) {
			return nil, reason.ErrNotFound.Withf(`Get id[%v] err[%s]`, id, err.Error())
		}
		return nil, reason.ErrDB.Withf(`Get id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// DelRound Delete object
func (c Core) DelRound(ctx context.Context, id string) (*Round, error) {
	var out Round
	if err := c.store.Round().Del(ctx, &out, orm.Where("id=?", id)); err != nil {
		return nil, reason.ErrDB.Withf(`Del id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// BestScore 返回历史最高分，没有记录时返回 0
func (c Core) BestScore(ctx context.Context) (int, error) {
	var items []*Round
	query := orm.NewQuery(1).OrderBy("score DESC")
	pager := &defaultPager{limit: 1}
	if _, err := c.store.Round().Find(ctx, &items, pager, query.Encode()...); err != nil {
		return 0, reason.ErrDB.Withf(`BestScore err[%s]`, err.Error())
	}
	if len(items) == 0 {
		return 0, nil
	}
	return items[0].Score, nil
}

// defaultPager 内部使用的分页器，避免传入 nil 导致空指针
type defaultPager struct {
	limit int
}

func (p *defaultPager) Offset() int { return 0 }
func (p *defaultPager) Limit() int  { return p.limit }
