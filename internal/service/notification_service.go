package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	mongorepo "CookingSecret/internal/pkg/mongo"
	"CookingSecret/internal/pkg/util"
	"CookingSecret/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	Notify(ctx context.Context, cmd model.NotifyCommand)
	Create(ctx context.Context, cmd model.NotifyCommand) error
	List(ctx context.Context, userID uint64, skip, limit int) ([]*dto.NotificationDTO, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	SendSystem(ctx context.Context, actor Actor, req *dto.SystemNotificationDTO) (int, error)
	RelayOutbox(ctx context.Context) (int, int, error)
}

type NotificationServiceImpl struct {
	notificationRepo mongorepo.NotificationRepo
	outboxRepo       repository.OutboxRepo
	userRepo         repository.UserRepo
	dispatcher       NotificationDispatcher
	publisher        UnreadPublisher
	policy           AccessPolicy
	images           ImageStore
	outboxBatch      int
	outboxMaxTry     int
}

// NewNotificationService dispatcher 为 nil 时同步写入通知
func NewNotificationService(
	notificationRepo mongorepo.NotificationRepo,
	outboxRepo repository.OutboxRepo,
	userRepo repository.UserRepo,
	dispatcher NotificationDispatcher,
	publisher UnreadPublisher,
	policy AccessPolicy,
	images ImageStore,
	outboxBatch, outboxMaxTry int,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		outboxRepo:       outboxRepo,
		userRepo:         userRepo,
		dispatcher:       dispatcher,
		publisher:        publisher,
		policy:           policy,
		images:           images,
		outboxBatch:      outboxBatch,
		outboxMaxTry:     outboxMaxTry,
	}
}

// Notify 尽力投递，失败写入发件箱，不影响调用方
func (s *NotificationServiceImpl) Notify(ctx context.Context, cmd model.NotifyCommand) {
	if cmd.ActorID == cmd.RecipientID || cmd.RecipientID == 0 {
		return
	}
	if cmd.OccurredAt.IsZero() {
		cmd.OccurredAt = time.Now()
	}
	if cmd.EventID == "" {
		cmd.EventID = uuid.NewString()
	}

	err := s.dispatch(ctx, cmd)
	if err == nil {
		return
	}

	log.WarnContext(ctx, "dispatch notification failed, saving to outbox",
		"recipient_id", cmd.RecipientID, "type", cmd.Type, "err", err)
	if err = s.outboxRepo.CreateOutbox(ctx, cmd, err.Error()); err != nil {
		log.ErrorContext(ctx, "save notification outbox failed",
			"recipient_id", cmd.RecipientID, "type", cmd.Type, "err", err)
	}
}

// Create 写入通知文档并推送未读数。同一 EventID 的重放不会产生第二条通知
func (s *NotificationServiceImpl) Create(ctx context.Context, cmd model.NotifyCommand) error {
	if cmd.ActorID == cmd.RecipientID {
		return nil
	}
	n := &mongorepo.Notification{
		EventID:     cmd.EventID,
		RecipientID: cmd.RecipientID,
		ActorID:     cmd.ActorID,
		Type:        cmd.Type,
		TargetType:  cmd.TargetType,
		TargetID:    cmd.TargetID,
		Message:     cmd.Message,
		IsRead:      false,
		CreatedAt:   cmd.OccurredAt,
	}
	inserted, err := s.notificationRepo.Create(ctx, n)
	if err != nil {
		return err
	}
	if !inserted {
		log.InfoContext(ctx, "duplicate notification event ignored", "event_id", cmd.EventID)
		return nil
	}
	s.pushUnread(ctx, cmd.RecipientID)
	return nil
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID uint64, skip, limit int) ([]*dto.NotificationDTO, error) {
	skip, limit = clampPage(skip, limit)
	list, err := s.notificationRepo.List(ctx, userID, int64(skip), int64(limit))
	if err != nil {
		return nil, err
	}

	actorIDs := make([]uint64, 0, len(list))
	for _, n := range list {
		if n.ActorID != 0 {
			actorIDs = append(actorIDs, n.ActorID)
		}
	}
	actors, err := s.userRepo.GetUserByIds(ctx, util.UniqueUint64(actorIDs))
	if err != nil {
		return nil, err
	}
	actorMap := usersByID(actors)

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		res = append(res, toNotificationDTO(n, actorMap[n.ActorID], s.images))
	}
	return res, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead 任意一条不属于当前用户时整体拒绝，不修改任何通知；不存在的 ID 忽略
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID uint64, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrParamInvalid
	}
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, ErrParamInvalid
		}
		if _, ok := seen[oid]; ok {
			continue
		}
		seen[oid] = struct{}{}
		objectIDs = append(objectIDs, oid)
	}

	found, err := s.notificationRepo.FindByIDs(ctx, objectIDs)
	if err != nil {
		return 0, err
	}
	for _, n := range found {
		if n.RecipientID != userID {
			return 0, ErrForbidden
		}
	}

	modified, err := s.notificationRepo.MarkRead(ctx, userID, objectIDs)
	if err != nil {
		return 0, err
	}
	if modified > 0 {
		s.pushUnread(ctx, userID)
	}
	return modified, nil
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	modified, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if modified > 0 {
		s.pushUnread(ctx, userID)
	}
	return modified, nil
}

// SendSystem 管理人员下发系统通知，返回投递的条数
func (s *NotificationServiceImpl) SendSystem(ctx context.Context, actor Actor, req *dto.SystemNotificationDTO) (int, error) {
	if !s.policy.CanSendSystemNotice(actor) {
		return 0, ErrForbidden
	}
	recipients := util.UniqueUint64(req.RecipientIDs)
	users, err := s.userRepo.GetUserByIds(ctx, recipients)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if u.ID == actor.ID {
			continue
		}
		s.Notify(ctx, model.NotifyCommand{
			ActorID:     actor.ID,
			RecipientID: u.ID,
			Type:        model.NotifyTypeSystem,
			TargetType:  model.TargetTypeUser,
			TargetID:    u.ID,
			Message:     req.Message,
		})
		sent++
	}
	return sent, nil
}

// RelayOutbox 重投发件箱，超过最大次数的记录标记为失败，返回 (处理数, 成功数)
func (s *NotificationServiceImpl) RelayOutbox(ctx context.Context) (int, int, error) {
	list, err := s.outboxRepo.ListPending(ctx, s.outboxBatch)
	if err != nil {
		return 0, 0, err
	}

	success := 0
	for _, item := range list {
		if err = s.dispatch(ctx, item.Payload); err == nil {
			if err = s.outboxRepo.MarkSent(ctx, item.ID); err != nil {
				log.ErrorContext(ctx, "mark outbox sent failed", "id", item.ID, "err", err)
			}
			success++
			continue
		}

		retry := item.Retry + 1
		failed := retry >= s.outboxMaxTry
		log.WarnContext(ctx, "relay notification failed", "id", item.ID, "retry", retry, "failed", failed, "err", err)
		if err = s.outboxRepo.MarkRetry(ctx, item.ID, retry, err.Error(), failed); err != nil {
			log.ErrorContext(ctx, "mark outbox retry failed", "id", item.ID, "err", err)
		}
	}
	return len(list), success, nil
}

func (s *NotificationServiceImpl) dispatch(ctx context.Context, cmd model.NotifyCommand) error {
	if s.dispatcher == nil {
		return s.Create(ctx, cmd)
	}
	return s.dispatcher.Dispatch(ctx, cmd)
}

func (s *NotificationServiceImpl) pushUnread(ctx context.Context, userID uint64) {
	if s.publisher == nil {
		return
	}
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "count unread failed", "user_id", userID, "err", err)
		return
	}
	if err = s.publisher.PublishUnread(ctx, userID, count); err != nil {
		log.WarnContext(ctx, "publish unread count failed", "user_id", userID, "err", err)
	}
}
