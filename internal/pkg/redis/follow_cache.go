package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// FollowCache 关注列表的有序集合缓存，分数为关注时间。
// 每个列表带一个版本号键，写关系后先递增版本再删除列表，
// 回填时只有版本未变才会写入，避免把并发变更之前读到的旧列表写回缓存
type FollowCache struct {
	ttl time.Duration
}

func NewFollowCache(ttl time.Duration) *FollowCache {
	return &FollowCache{ttl: ttl}
}

func versionKey(key string) string {
	return key + ":ver"
}

// Get 命中时返回按时间倒序的 ID 区间，空结果视为未命中
func (s *FollowCache) Get(ctx context.Context, key string, offset, limit int) ([]uint64, bool) {
	members, err := Rdb.ZRevRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil || len(members) == 0 {
		return nil, false
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Version 读取列表当前版本，回填前调用
func (s *FollowCache) Version(ctx context.Context, key string) (int64, error) {
	v, err := Rdb.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// KEYS[1] 列表 KEYS[2] 版本号; ARGV[1] 期望版本 ARGV[2] 过期秒数 ARGV[3..] score/member 交替
var fillScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if (cur or '0') ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
for i = 3, #ARGV, 2 do
	redis.call('ZADD', KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// Set 版本与 version 一致时原子地替换列表，返回是否写入
func (s *FollowCache) Set(ctx context.Context, key string, version int64, ids []uint64, scores []float64) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	args := make([]interface{}, 0, 2+2*len(ids))
	args = append(args, strconv.FormatInt(version, 10), int64(s.ttl/time.Second))
	for i, id := range ids {
		args = append(args, scores[i], strconv.FormatUint(id, 10))
	}
	n, err := fillScript.Run(ctx, Rdb, []string{key, versionKey(key)}, args...).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate 递增版本并删除列表，正在进行的回填会因版本不符而放弃
func (s *FollowCache) Invalidate(ctx context.Context, key string) error {
	pipe := Rdb.TxPipeline()
	pipe.Incr(ctx, versionKey(key))
	pipe.Expire(ctx, versionKey(key), 2*s.ttl)
	pipe.Del(ctx, key)
	_, err := pipe.Exec(ctx)
	return err
}
