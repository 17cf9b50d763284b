package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/security"
	"CookingSecret/internal/pkg/util"
	"CookingSecret/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"
)

const (
	tokenTypeBearer    = "bearer"
	profileImagePrefix = "avatars"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Actor, error)
	GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserByUsername(ctx context.Context, username string) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, actor Actor, id uint64, req *dto.UpdateUserDTO) (*dto.UserDTO, error)
	ListUsers(ctx context.Context, actor Actor, skip, limit int) ([]*dto.UserDTO, error)
	UpdateRole(ctx context.Context, actor Actor, id uint64, role string) (*dto.UserDTO, error)
	ToggleActive(ctx context.Context, actor Actor, id uint64) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	tokens   TokenStore
	policy   AccessPolicy
	images   ImageStore
}

func NewUserService(userRepo repository.UserRepo, tokens TokenStore, policy AccessPolicy, images ImageStore) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		policy:   policy,
		images:   images,
	}
}

// Register 邮箱与用户名唯一，系统中的第一个用户成为管理员
func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	exist, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExist
	}
	exist, err = s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUsernameExist
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) || errors.Is(err, security.ErrEmptyPassword) {
			return nil, ErrParamInvalid
		}
		return nil, err
	}
	user := &model.User{
		Email:    email,
		Username: username,
		FullName: req.FullName,
		Password: passwordHash,
		Role:     model.RoleUser,
		IsActive: true,
	}

	// 并发注册时以唯一索引为准
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			if dup.Index == repository.IdxUsername {
				return nil, ErrUsernameExist
			}
			return nil, ErrEmailExist
		}
		return nil, err
	}
	return toUserDTO(user, s.images), nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		security.CompareDummy(req.Password)
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return nil, ErrPasswordIncorrect
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		User:        toUserDTO(user, s.images),
	}, nil
}

// Logout 将签名加入黑名单直到 Token 自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return ErrUnauthorized
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrUnauthorized
	}
	ttl := security.TokenTTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.tokens.Revoke(ctx, signature, ttl)
}

// Authenticate 解析 Token 并以存储中的当前角色为准，停用用户的 Token 一律拒绝
func (s *UserServiceImpl) Authenticate(ctx context.Context, token string) (*Actor, error) {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	revoked, err := s.tokens.IsRevoked(ctx, signature)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetUserById(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return &Actor{ID: user.ID, Role: user.Role}, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user, s.images), nil
}

func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, s.images), nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, actor Actor, id uint64, req *dto.UpdateUserDTO) (*dto.UserDTO, error) {
	if !s.policy.CanUpdateProfile(actor, id) {
		return nil, ErrForbidden
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	oldImage := user.ProfileImage
	if req.ProfileImage != nil && *req.ProfileImage != imageURL(s.images, oldImage) {
		key := *req.ProfileImage
		if key != "" && s.images != nil {
			key, err = s.images.Save(ctx, profileImagePrefix, key)
			if err != nil {
				if errors.Is(err, util.ErrInvalidImage) {
					return nil, ErrImageInvalid
				}
				return nil, err
			}
		}
		fields["profile_image"] = key
	}
	if len(fields) == 0 {
		return toUserDTO(user, s.images), nil
	}

	if err = s.userRepo.UpdateProfile(ctx, id, fields); err != nil {
		return nil, err
	}
	if _, ok := fields["profile_image"]; ok && oldImage != "" && s.images != nil {
		if err = s.images.Delete(ctx, oldImage); err != nil {
			log.WarnContext(ctx, "delete old profile image failed", "key", oldImage, "err", err)
		}
	}
	return s.GetUser(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, actor Actor, skip, limit int) ([]*dto.UserDTO, error) {
	if !s.policy.CanListUsers(actor) {
		return nil, ErrForbidden
	}
	skip, limit = clampPage(skip, limit)
	users, err := s.userRepo.ListUsers(ctx, limit, skip)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users, s.images), nil
}

func (s *UserServiceImpl) UpdateRole(ctx context.Context, actor Actor, id uint64, role string) (*dto.UserDTO, error) {
	if !s.policy.CanChangeRole(actor) {
		return nil, ErrForbidden
	}
	if !model.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// ToggleActive 不能停用自己
func (s *UserServiceImpl) ToggleActive(ctx context.Context, actor Actor, id uint64) (*dto.UserDTO, error) {
	if actor.ID == id && actor.IsStaff() {
		return nil, ErrSelfDeactivate
	}
	if !s.policy.CanToggleActive(actor, id) {
		return nil, ErrForbidden
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.userRepo.UpdateActive(ctx, id, !user.IsActive); err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	return toUserDTO(user, s.images), nil
}

func (s *UserServiceImpl) getUser(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
