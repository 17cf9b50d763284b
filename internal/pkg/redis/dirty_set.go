package redis

import (
	"CookingSecret/internal/model"
	"context"
	log "log/slog"
)

// DirtySet 记录待重算的计数，成员形如 recipe_likes:12
type DirtySet struct {
	key string
}

func NewDirtySet(key string) *DirtySet {
	return &DirtySet{key: key}
}

func (s *DirtySet) MarkDirty(ctx context.Context, ref model.CounterRef) error {
	return Rdb.SAdd(ctx, s.key, ref.String()).Err()
}

// Drain 取出全部脏计数逐个处理，处理失败的成员放回集合等待下一轮
func (s *DirtySet) Drain(ctx context.Context, fn func(ctx context.Context, ref model.CounterRef) error) (int, int, error) {
	processingKey := s.key + ":processing"

	// 合并上次中断遗留的成员，再清空脏集合
	pipe := Rdb.TxPipeline()
	pipe.SUnionStore(ctx, processingKey, processingKey, s.key)
	pipe.Del(ctx, s.key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	members, err := Rdb.SMembers(ctx, processingKey).Result()
	if err != nil {
		return 0, 0, err
	}

	success := 0
	var failed []interface{}
	for _, m := range members {
		ref, err := model.ParseCounterRef(m)
		if err != nil {
			log.WarnContext(ctx, "drop invalid dirty member", "member", m, "err", err)
			continue
		}
		if err = fn(ctx, ref); err != nil {
			log.ErrorContext(ctx, "recount dirty counter failed", "member", m, "err", err)
			failed = append(failed, m)
			continue
		}
		success++
	}

	if len(failed) > 0 {
		if err = Rdb.SAdd(ctx, s.key, failed...).Err(); err != nil {
			return len(members), success, err
		}
	}
	return len(members), success, DeleteKey(ctx, processingKey)
}
