package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/consts"
	"CookingSecret/internal/repository"
	"context"
	log "log/slog"
	"strconv"
)

const MaxFollowingCount = 1000

type UserFollowService interface {
	Follow(ctx context.Context, followerID, followingID uint64) (bool, error)
	Unfollow(ctx context.Context, followerID, followingID uint64) (bool, error)
	Toggle(ctx context.Context, followerID, followingID uint64) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error)
	GetFollowers(ctx context.Context, userID uint64, skip, limit int) ([]*dto.UserDTO, error)
	GetFollowing(ctx context.Context, userID uint64, skip, limit int) ([]*dto.UserDTO, error)
	FollowingIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type UserFollowServiceImpl struct {
	userRepo       repository.UserRepo
	userFollowRepo repository.UserFollowRepo
	counters       CounterService
	notifier       NotificationService
	locker         Locker
	cache          FollowIDCache
	images         ImageStore
}

func NewUserFollowService(
	userRepo repository.UserRepo,
	userFollowRepo repository.UserFollowRepo,
	counters CounterService,
	notifier NotificationService,
	locker Locker,
	cache FollowIDCache,
	images ImageStore,
) UserFollowService {
	return &UserFollowServiceImpl{
		userRepo:       userRepo,
		userFollowRepo: userFollowRepo,
		counters:       counters,
		notifier:       notifier,
		locker:         locker,
		cache:          cache,
		images:         images,
	}
}

// Follow 不存在时创建，返回是否发生了状态变化
func (s *UserFollowServiceImpl) Follow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if err := s.checkTarget(ctx, followerID, followingID); err != nil {
		return false, err
	}
	unlock, err := s.lock(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	defer unlock()
	return s.follow(ctx, followerID, followingID)
}

// Unfollow 存在时删除，返回是否发生了状态变化
func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if followerID == followingID {
		return false, ErrUserFollowSelf
	}
	unlock, err := s.lock(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	defer unlock()
	return s.unfollow(ctx, followerID, followingID)
}

// Toggle 切换关注状态，返回切换后的状态
func (s *UserFollowServiceImpl) Toggle(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if err := s.checkTarget(ctx, followerID, followingID); err != nil {
		return false, err
	}
	unlock, err := s.lock(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	defer unlock()

	existing, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if _, err = s.unfollow(ctx, followerID, followingID); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err = s.follow(ctx, followerID, followingID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	existing, err := s.userFollowRepo.GetUserFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *UserFollowServiceImpl) GetFollowers(ctx context.Context, userID uint64, skip, limit int) ([]*dto.UserDTO, error) {
	skip, limit = clampPage(skip, limit)
	follows, err := s.userFollowRepo.GetUserFollowers(ctx, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowerID)
	}
	return s.hydrate(ctx, ids)
}

func (s *UserFollowServiceImpl) GetFollowing(ctx context.Context, userID uint64, skip, limit int) ([]*dto.UserDTO, error) {
	skip, limit = clampPage(skip, limit)
	follows, err := s.userFollowRepo.GetUserFollowing(ctx, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
	}
	return s.hydrate(ctx, ids)
}

// FollowingIDs 全量关注 ID，最近关注在前，优先读缓存
func (s *UserFollowServiceImpl) FollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	key := followingKey(userID)
	version := int64(-1)
	if s.cache != nil {
		if ids, ok := s.cache.Get(ctx, key, 0, MaxFollowingCount); ok {
			return ids, nil
		}
		// 版本必须在读库之前取得
		v, err := s.cache.Version(ctx, key)
		if err != nil {
			log.WarnContext(ctx, "read following cache version failed", "user_id", userID, "err", err)
		} else {
			version = v
		}
	}

	follows, err := s.userFollowRepo.GetAllFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	scores := make([]float64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
		scores = append(scores, float64(f.CreatedAt.UnixMilli()))
	}

	if version >= 0 && len(ids) > 0 {
		stored, err := s.cache.Set(ctx, key, version, ids, scores)
		if err != nil {
			log.WarnContext(ctx, "cache following ids failed", "user_id", userID, "err", err)
		} else if !stored {
			log.DebugContext(ctx, "following changed during load, cache fill skipped", "user_id", userID)
		}
	}
	return ids, nil
}

func (s *UserFollowServiceImpl) checkTarget(ctx context.Context, followerID, followingID uint64) error {
	if followerID == followingID {
		return ErrUserFollowSelf
	}
	target, err := s.userRepo.GetUserById(ctx, followingID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserFollowServiceImpl) lock(ctx context.Context, followerID, followingID uint64) (func(), error) {
	unlock, err := s.locker.Lock(ctx, toggleLockKey("follow", followerID, followingID))
	if err != nil {
		log.WarnContext(ctx, "acquire follow lock failed", "err", err)
		return nil, ErrActionBusy
	}
	return unlock, nil
}

// follow 调用方需持有锁
func (s *UserFollowServiceImpl) follow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	count, err := s.userFollowRepo.GetUserFollowingCount(ctx, followerID)
	if err != nil {
		return false, err
	}
	if count >= MaxFollowingCount {
		return false, ErrUserFollowLimit
	}

	created, err := s.userFollowRepo.CreateUserFollow(ctx, followerID, followingID)
	if err != nil || !created {
		return false, err
	}

	s.counters.Apply(ctx,
		CounterEvent{Kind: EventFollow, ActorID: followerID, SubjectID: followingID},
		CounterEvent{Kind: EventFollowingAdd, ActorID: followerID, SubjectID: followingID},
	)
	s.invalidate(ctx, followerID)
	s.notifier.Notify(ctx, model.NotifyCommand{
		ActorID:     followerID,
		RecipientID: followingID,
		Type:        model.NotifyTypeFollow,
		TargetType:  model.TargetTypeUser,
		TargetID:    followerID,
		Message:     "started following you",
	})
	return true, nil
}

// unfollow 调用方需持有锁
func (s *UserFollowServiceImpl) unfollow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	deleted, err := s.userFollowRepo.DeleteUserFollow(ctx, followerID, followingID)
	if err != nil || !deleted {
		return false, err
	}

	s.counters.Apply(ctx,
		CounterEvent{Kind: EventUnfollow, ActorID: followerID, SubjectID: followingID},
		CounterEvent{Kind: EventFollowingRemove, ActorID: followerID, SubjectID: followingID},
	)
	s.invalidate(ctx, followerID)
	return true, nil
}

func (s *UserFollowServiceImpl) invalidate(ctx context.Context, followerID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, followingKey(followerID)); err != nil {
		log.WarnContext(ctx, "invalidate following cache failed", "user_id", followerID, "err", err)
	}
}

// hydrate 按 ids 顺序返回用户信息
func (s *UserFollowServiceImpl) hydrate(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	userMap := usersByID(users)
	res := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if u, ok := userMap[id]; ok {
			res = append(res, toUserDTO(u, s.images))
		}
	}
	return res, nil
}

func followingKey(userID uint64) string {
	return consts.UserFollowingKey + strconv.FormatUint(userID, 10)
}
