package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	Unavailable         = 503
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrForbidden           = errors.New("权限不足")
	ErrUnauthorized        = errors.New("未登录或登录已失效")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserInactive        = errors.New("用户已被停用")
	ErrEmailExist          = errors.New("邮箱已注册")
	ErrUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect   = errors.New("邮箱或密码错误")
	ErrInvalidRole         = errors.New("无效的角色")
	ErrSelfDeactivate      = errors.New("不能停用自己")
	ErrUserFollowLimit     = errors.New("用户关注数量超过限制")
	ErrUserFollowSelf      = errors.New("用户不能关注自己")
	ErrRecipeNotFound      = errors.New("菜谱不存在")
	ErrRecipeStepsInvalid  = errors.New("步骤序号必须从1开始连续递增")
	ErrCommentNotFound     = errors.New("评论不存在")
	ErrRecipeNotPaid       = errors.New("菜谱免费，无需购买")
	ErrImageInvalid        = errors.New("图片格式错误")
	ErrActionBusy          = errors.New("操作过于频繁，请稍后重试")
	ErrChatUnavailable     = errors.New("智能助手暂不可用")
	ErrChatSessionNotFound = errors.New("会话不存在")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrForbidden:           Forbidden,
	ErrUnauthorized:        Unauthorized,
	ErrUserNotFound:        NotFound,
	ErrUserInactive:        Forbidden,
	ErrEmailExist:          Conflict,
	ErrUsernameExist:       Conflict,
	ErrPasswordIncorrect:   Unauthorized,
	ErrInvalidRole:         BadRequest,
	ErrSelfDeactivate:      Forbidden,
	ErrUserFollowLimit:     BadRequest,
	ErrUserFollowSelf:      BadRequest,
	ErrRecipeNotFound:      NotFound,
	ErrRecipeStepsInvalid:  BadRequest,
	ErrCommentNotFound:     NotFound,
	ErrRecipeNotPaid:       BadRequest,
	ErrImageInvalid:        BadRequest,
	ErrActionBusy:          Conflict,
	ErrChatUnavailable:     Unavailable,
	ErrChatSessionNotFound: NotFound,
	UnExpectedError:        InternalServerError,
}
