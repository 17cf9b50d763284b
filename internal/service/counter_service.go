package service

import (
	"CookingSecret/internal/model"
	"CookingSecret/internal/repository"
	"context"
	log "log/slog"

	"golang.org/x/sync/errgroup"
)

type CounterEventKind int

const (
	EventLike CounterEventKind = iota + 1
	EventUnlike
	EventSave
	EventUnsave
	EventFollow
	EventUnfollow
	EventFollowingAdd
	EventFollowingRemove
	EventCommentAdd
	EventCommentRemove
	EventRecipeCreate
	EventRecipeDelete
)

// CounterEvent 一次关系变更。切换类事件 ActorID 为发起者、SubjectID 为目标；
// 评论与菜谱事件只使用 SubjectID（菜谱 ID 或作者 ID）
type CounterEvent struct {
	Kind      CounterEventKind
	ActorID   uint64
	SubjectID uint64
}

type counterRule struct {
	field        model.CounterField
	ownerIsActor bool
}

// 同一计数的增减事件落到同一字段上，方向只由关系表中的事实决定
var counterRules = map[CounterEventKind]counterRule{
	EventLike:            {field: model.RecipeLikes},
	EventUnlike:          {field: model.RecipeLikes},
	EventSave:            {field: model.RecipeSaves},
	EventUnsave:          {field: model.RecipeSaves},
	EventFollow:          {field: model.UserFollowers},
	EventUnfollow:        {field: model.UserFollowers},
	EventFollowingAdd:    {field: model.UserFollowing, ownerIsActor: true},
	EventFollowingRemove: {field: model.UserFollowing, ownerIsActor: true},
	EventCommentAdd:      {field: model.RecipeComments},
	EventCommentRemove:   {field: model.RecipeComments},
	EventRecipeCreate:    {field: model.UserRecipes},
	EventRecipeDelete:    {field: model.UserRecipes},
}

const recountBatchSize = 500

type CounterService interface {
	Apply(ctx context.Context, events ...CounterEvent)
	Recount(ctx context.Context, ref model.CounterRef) error
	RepairDirty(ctx context.Context) (int, int, error)
	RecountAll(ctx context.Context) (int, error)
}

type CounterServiceImpl struct {
	counterRepo repository.CounterRepo
	dirty       DirtyStore
}

func NewCounterService(counterRepo repository.CounterRepo, dirty DirtyStore) CounterService {
	return &CounterServiceImpl{counterRepo: counterRepo, dirty: dirty}
}

// Apply 每个事件只调整一个实体上的一个计数。计数直接收敛到关系表的实际行数，
// 所以重复投递、乱序与并发的事件都不会让计数漂移。失败不会返回给调用方，
// 而是记录日志并把计数放入修复队列
func (s *CounterServiceImpl) Apply(ctx context.Context, events ...CounterEvent) {
	for _, ev := range events {
		s.apply(ctx, ev)
	}
}

func (s *CounterServiceImpl) apply(ctx context.Context, ev CounterEvent) {
	rule, ok := counterRules[ev.Kind]
	if !ok {
		log.WarnContext(ctx, "unknown counter event", "kind", ev.Kind)
		return
	}

	ownerID := ev.SubjectID
	if rule.ownerIsActor {
		ownerID = ev.ActorID
	}
	ref := model.CounterRef{Field: rule.field, ID: ownerID}
	if err := s.counterRepo.Recount(ctx, rule.field, ownerID); err != nil {
		s.markDirty(ctx, ref, err)
	}
}

func (s *CounterServiceImpl) markDirty(ctx context.Context, ref model.CounterRef, cause error) {
	log.ErrorContext(ctx, "counter update failed, marked dirty", "counter", ref.String(), "err", cause)
	if s.dirty == nil {
		return
	}
	if err := s.dirty.MarkDirty(ctx, ref); err != nil {
		log.ErrorContext(ctx, "mark counter dirty failed", "counter", ref.String(), "err", err)
	}
}

// Recount 以关系表为准重算，幂等
func (s *CounterServiceImpl) Recount(ctx context.Context, ref model.CounterRef) error {
	return s.counterRepo.Recount(ctx, ref.Field, ref.ID)
}

// RepairDirty 处理修复队列，返回 (总数, 成功数)
func (s *CounterServiceImpl) RepairDirty(ctx context.Context) (int, int, error) {
	if s.dirty == nil {
		return 0, 0, nil
	}
	return s.dirty.Drain(ctx, s.Recount)
}

// RecountAll 全量扫描所有计数字段
func (s *CounterServiceImpl) RecountAll(ctx context.Context) (int, error) {
	total := 0
	for _, field := range model.CounterFields {
		var afterID uint64
		for {
			ids, err := s.counterRepo.ListIDs(ctx, field.Table, afterID, recountBatchSize)
			if err != nil {
				return total, err
			}
			if len(ids) == 0 {
				break
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.SetLimit(8)
			for _, id := range ids {
				eg.Go(func() error {
					return s.counterRepo.Recount(egCtx, field, id)
				})
			}
			if err = eg.Wait(); err != nil {
				return total, err
			}

			total += len(ids)
			afterID = ids[len(ids)-1]
			if len(ids) < recountBatchSize {
				break
			}
		}
	}
	return total, nil
}
