package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/util"
	"CookingSecret/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"unicode/utf8"
)

const commentPreviewLen = 50

type RecipeActionService interface {
	ToggleLike(ctx context.Context, userID, recipeID uint64) (bool, error)
	IsLiked(ctx context.Context, userID, recipeID uint64) (bool, error)
	ToggleSave(ctx context.Context, userID, recipeID uint64) (bool, error)
	IsSaved(ctx context.Context, userID, recipeID uint64) (bool, error)
	AddComment(ctx context.Context, userID, recipeID uint64, text string) (*dto.CommentDTO, error)
	ListComments(ctx context.Context, recipeID uint64, skip, limit int) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, actor Actor, commentID uint64) error
}

type RecipeActionServiceImpl struct {
	recipeRepo repository.RecipeRepo
	actionRepo repository.RecipeActionRepo
	userRepo   repository.UserRepo
	counters   CounterService
	notifier   NotificationService
	policy     AccessPolicy
	locker     Locker
	images     ImageStore
}

func NewRecipeActionService(
	recipeRepo repository.RecipeRepo,
	actionRepo repository.RecipeActionRepo,
	userRepo repository.UserRepo,
	counters CounterService,
	notifier NotificationService,
	policy AccessPolicy,
	locker Locker,
	images ImageStore,
) RecipeActionService {
	return &RecipeActionServiceImpl{
		recipeRepo: recipeRepo,
		actionRepo: actionRepo,
		userRepo:   userRepo,
		counters:   counters,
		notifier:   notifier,
		policy:     policy,
		locker:     locker,
		images:     images,
	}
}

// ToggleLike 返回切换后的状态，只有从未赞到已赞才通知作者
func (s *RecipeActionServiceImpl) ToggleLike(ctx context.Context, userID, recipeID uint64) (bool, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return false, err
	}
	unlock, err := s.lock(ctx, "like", userID, recipeID)
	if err != nil {
		return false, err
	}
	defer unlock()

	deleted, err := s.actionRepo.DeleteLike(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.counters.Apply(ctx, CounterEvent{Kind: EventUnlike, ActorID: userID, SubjectID: recipeID})
		return false, nil
	}

	created, err := s.actionRepo.CreateLike(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if created {
		s.counters.Apply(ctx, CounterEvent{Kind: EventLike, ActorID: userID, SubjectID: recipeID})
		s.notifier.Notify(ctx, model.NotifyCommand{
			ActorID:     userID,
			RecipientID: recipe.AuthorID,
			Type:        model.NotifyTypeLike,
			TargetType:  model.TargetTypeRecipe,
			TargetID:    recipeID,
			Message:     "liked your recipe \"" + recipe.Title + "\"",
		})
	}
	return true, nil
}

func (s *RecipeActionServiceImpl) IsLiked(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.actionRepo.CheckLikeExists(ctx, userID, recipeID)
}

func (s *RecipeActionServiceImpl) ToggleSave(ctx context.Context, userID, recipeID uint64) (bool, error) {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return false, err
	}
	unlock, err := s.lock(ctx, "save", userID, recipeID)
	if err != nil {
		return false, err
	}
	defer unlock()

	deleted, err := s.actionRepo.DeleteSave(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.counters.Apply(ctx, CounterEvent{Kind: EventUnsave, ActorID: userID, SubjectID: recipeID})
		return false, nil
	}

	created, err := s.actionRepo.CreateSave(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if created {
		s.counters.Apply(ctx, CounterEvent{Kind: EventSave, ActorID: userID, SubjectID: recipeID})
	}
	return true, nil
}

func (s *RecipeActionServiceImpl) IsSaved(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.actionRepo.CheckSaveExists(ctx, userID, recipeID)
}

func (s *RecipeActionServiceImpl) AddComment(ctx context.Context, userID, recipeID uint64, text string) (*dto.CommentDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrParamInvalid
	}
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{RecipeID: recipeID, UserID: userID, Text: text}
	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.counters.Apply(ctx, CounterEvent{Kind: EventCommentAdd, ActorID: userID, SubjectID: recipeID})
	s.notifier.Notify(ctx, model.NotifyCommand{
		ActorID:     userID,
		RecipientID: recipe.AuthorID,
		Type:        model.NotifyTypeComment,
		TargetType:  model.TargetTypeRecipe,
		TargetID:    recipeID,
		Message:     "commented: " + preview(text, commentPreviewLen),
	})

	author, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "load comment author failed", "user_id", userID, "err", err)
	}
	return toCommentDTO(comment, author, s.images), nil
}

// ListComments 最新的在前
func (s *RecipeActionServiceImpl) ListComments(ctx context.Context, recipeID uint64, skip, limit int) ([]*dto.CommentDTO, error) {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	skip, limit = clampPage(skip, limit)
	comments, err := s.actionRepo.ListComments(ctx, recipeID, limit, skip)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.GetUserByIds(ctx, util.UniqueUint64(userIDs))
	if err != nil {
		return nil, err
	}
	userMap := usersByID(users)

	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		res = append(res, toCommentDTO(c, userMap[c.UserID], s.images))
	}
	return res, nil
}

// DeleteComment 评论作者或管理人员可删除
func (s *RecipeActionServiceImpl) DeleteComment(ctx context.Context, actor Actor, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if !s.policy.CanDeleteComment(actor, comment) {
		return ErrForbidden
	}

	deleted, err := s.actionRepo.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	s.counters.Apply(ctx, CounterEvent{Kind: EventCommentRemove, ActorID: actor.ID, SubjectID: comment.RecipeID})
	return nil
}

func (s *RecipeActionServiceImpl) getRecipe(ctx context.Context, recipeID uint64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *RecipeActionServiceImpl) lock(ctx context.Context, kind string, userID, recipeID uint64) (func(), error) {
	unlock, err := s.locker.Lock(ctx, toggleLockKey(kind, userID, recipeID))
	if err != nil {
		log.WarnContext(ctx, "acquire toggle lock failed", "kind", kind, "err", err)
		return nil, ErrActionBusy
	}
	return unlock, nil
}

func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
