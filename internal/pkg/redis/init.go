package redis

import (
	"CookingSecret/internal/api/config"
	"CookingSecret/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// Rdb 计数脏集合、关注缓存、切换锁、Token 黑名单与未读推送共用的客户端
var Rdb *redis.Client

func seconds(n int, def time.Duration) time.Duration {
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func newOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdle,
		DialTimeout:  seconds(cfg.DialTimeout, 5*time.Second),
		ReadTimeout:  seconds(cfg.ReadTimeout, 3*time.Second),
		WriteTimeout: seconds(cfg.WriteTimeout, 3*time.Second),

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
}

// InitRedis 连接失败时直接返回，切换锁与计数修复都依赖 Redis
func InitRedis(cfg config.RedisConfig) error {
	opts := newOptions(cfg)
	rdb := redis.NewClient(opts)
	rdb.AddHook(logger.NewRedisLogger())

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return err
	}

	Rdb = rdb
	log.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return nil
}

// Close 关闭客户端，未初始化时为空操作
func Close() error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Close()
}
