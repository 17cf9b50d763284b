package service

import (
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/llm"
	"context"
	"time"
)

// DirtyStore 计数修复队列
type DirtyStore interface {
	MarkDirty(ctx context.Context, ref model.CounterRef) error
	Drain(ctx context.Context, fn func(ctx context.Context, ref model.CounterRef) error) (int, int, error)
}

// FollowIDCache 关注 ID 集合缓存。回填前先取版本，Set 仅在版本未被 Invalidate 改变时写入
type FollowIDCache interface {
	Get(ctx context.Context, key string, offset, limit int) ([]uint64, bool)
	Version(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key string, version int64, ids []uint64, scores []float64) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// TokenStore 已注销 Token 的签名
type TokenStore interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

// UnreadPublisher 推送未读数变化
type UnreadPublisher interface {
	PublishUnread(ctx context.Context, userID uint64, count int64) error
}

// NotificationDispatcher 把通知创建命令交给异步通道
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, cmd model.NotifyCommand) error
}

// ImageStore 图片上传与地址转换
type ImageStore interface {
	Save(ctx context.Context, prefix, src string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// RecipeIndex 菜谱全文检索
type RecipeIndex interface {
	IndexRecipe(ctx context.Context, recipe *model.Recipe) error
	DeleteRecipe(ctx context.Context, id uint64) error
	SearchRecipes(ctx context.Context, query string, from, size int) ([]uint64, error)
}

// ChatModel 外部文本生成服务
type ChatModel interface {
	Reply(ctx context.Context, history []llm.Turn, question string) (string, error)
}
