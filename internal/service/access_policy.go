package service

import (
	"CookingSecret/internal/model"
)

// Actor 当前请求的操作者，角色取自数据库而非 Token
type Actor struct {
	ID   uint64
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func (a Actor) IsStaff() bool {
	return model.IsStaff(a.Role)
}

// AccessPolicy 集中所有基于角色与归属的授权判断
type AccessPolicy interface {
	CanChangeRole(actor Actor) bool
	CanViewStats(actor Actor) bool
	CanRecount(actor Actor) bool
	CanListUsers(actor Actor) bool
	CanToggleActive(actor Actor, targetID uint64) bool
	CanUpdateProfile(actor Actor, targetID uint64) bool
	CanModifyRecipe(actor Actor, recipe *model.Recipe) bool
	CanDeleteComment(actor Actor, comment *model.Comment) bool
	CanViewSaved(actor Actor, ownerID uint64) bool
	CanViewPurchases(actor Actor, ownerID uint64) bool
	CanAccessPaidRecipe(actor Actor, recipe *model.Recipe) bool
	CanSendSystemNotice(actor Actor) bool
}

type AccessPolicyImpl struct{}

func NewAccessPolicy() AccessPolicy {
	return &AccessPolicyImpl{}
}

func (p *AccessPolicyImpl) CanChangeRole(actor Actor) bool {
	return actor.IsAdmin()
}

func (p *AccessPolicyImpl) CanViewStats(actor Actor) bool {
	return actor.IsStaff()
}

func (p *AccessPolicyImpl) CanRecount(actor Actor) bool {
	return actor.IsAdmin()
}

func (p *AccessPolicyImpl) CanListUsers(actor Actor) bool {
	return actor.IsStaff()
}

// CanToggleActive 不允许停用自己
func (p *AccessPolicyImpl) CanToggleActive(actor Actor, targetID uint64) bool {
	return actor.IsStaff() && actor.ID != targetID
}

func (p *AccessPolicyImpl) CanUpdateProfile(actor Actor, targetID uint64) bool {
	return actor.ID == targetID
}

func (p *AccessPolicyImpl) CanModifyRecipe(actor Actor, recipe *model.Recipe) bool {
	return recipe.AuthorID == actor.ID || actor.IsStaff()
}

func (p *AccessPolicyImpl) CanDeleteComment(actor Actor, comment *model.Comment) bool {
	return comment.UserID == actor.ID || actor.IsStaff()
}

func (p *AccessPolicyImpl) CanViewSaved(actor Actor, ownerID uint64) bool {
	return actor.ID == ownerID
}

func (p *AccessPolicyImpl) CanViewPurchases(actor Actor, ownerID uint64) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}

// CanAccessPaidRecipe 作者与管理人员无需购买
func (p *AccessPolicyImpl) CanAccessPaidRecipe(actor Actor, recipe *model.Recipe) bool {
	return !recipe.IsPaid || recipe.AuthorID == actor.ID || actor.IsStaff()
}

func (p *AccessPolicyImpl) CanSendSystemNotice(actor Actor) bool {
	return actor.IsStaff()
}
