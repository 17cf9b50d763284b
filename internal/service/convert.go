package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/consts"
	mongorepo "CookingSecret/internal/pkg/mongo"
	"time"

	"github.com/jinzhu/copier"
)

func imageURL(images ImageStore, key string) string {
	if images == nil {
		return key
	}
	return images.URL(key)
}

func toUserDTO(user *model.User, images ImageStore) *dto.UserDTO {
	if user == nil {
		return nil
	}
	res := &dto.UserDTO{}
	_ = copier.Copy(res, user)
	if user.ProfileImage == "" {
		res.ProfileImage = imageURL(images, consts.DefaultAvatarURL)
	} else {
		res.ProfileImage = imageURL(images, user.ProfileImage)
	}
	return res
}

func toUserDTOs(users []*model.User, images ImageStore) []*dto.UserDTO {
	res := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		res = append(res, toUserDTO(u, images))
	}
	return res
}

func toUserBriefDTO(user *model.User, images ImageStore) *dto.UserBriefDTO {
	if user == nil {
		return nil
	}
	full := toUserDTO(user, images)
	return &dto.UserBriefDTO{
		ID:           full.ID,
		Username:     full.Username,
		FullName:     full.FullName,
		ProfileImage: full.ProfileImage,
		Role:         full.Role,
	}
}

func toRecipeDTO(recipe *model.Recipe, author *model.User, images ImageStore) *dto.RecipeDTO {
	res := &dto.RecipeDTO{}
	_ = copier.Copy(res, recipe)
	res.Image = imageURL(images, recipe.Image)
	res.Author = toUserBriefDTO(author, images)
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res
}

func toCommentDTO(comment *model.Comment, author *model.User, images ImageStore) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:        comment.ID,
		RecipeID:  comment.RecipeID,
		User:      toUserBriefDTO(author, images),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func toNotificationDTO(n *mongorepo.Notification, actor *model.User, images ImageStore) *dto.NotificationDTO {
	res := &dto.NotificationDTO{
		ID:         n.ID.Hex(),
		ActorID:    n.ActorID,
		Type:       n.Type,
		TargetType: n.TargetType,
		TargetID:   n.TargetID,
		Message:    n.Message,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
	if actor != nil {
		brief := toUserBriefDTO(actor, images)
		res.ActorName = brief.Username
		res.ActorImage = brief.ProfileImage
	}
	return res
}

func toIngredients(items []dto.IngredientDTO) []model.Ingredient {
	res := make([]model.Ingredient, 0, len(items))
	for _, i := range items {
		res = append(res, model.Ingredient{Name: i.Name, Amount: i.Amount, Unit: i.Unit})
	}
	return res
}

func toSteps(items []dto.StepDTO) []model.Step {
	res := make([]model.Step, 0, len(items))
	for _, s := range items {
		res = append(res, model.Step{StepNumber: s.StepNumber, Instruction: s.Instruction, DurationMinutes: s.DurationMinutes})
	}
	return res
}

func usersByID(users []*model.User) map[uint64]*model.User {
	m := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}
