package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CounterField 描述一个反规范化计数字段以及它的事实来源表
type CounterField struct {
	Name        string
	Table       string
	Column      string
	SourceTable string
	SourceKey   string // 来源表中指向计数所属实体的列
	SourceCond  string
}

var (
	RecipeLikes = CounterField{
		Name: "recipe_likes", Table: "recipes", Column: "likes_count",
		SourceTable: "likes", SourceKey: "recipe_id",
	}
	RecipeSaves = CounterField{
		Name: "recipe_saves", Table: "recipes", Column: "saves_count",
		SourceTable: "saves", SourceKey: "recipe_id",
	}
	RecipeComments = CounterField{
		Name: "recipe_comments", Table: "recipes", Column: "comments_count",
		SourceTable: "comments", SourceKey: "recipe_id", SourceCond: "is_deleted = 0",
	}
	UserFollowers = CounterField{
		Name: "user_followers", Table: "users", Column: "followers_count",
		SourceTable: "user_follows", SourceKey: "following_id",
	}
	UserFollowing = CounterField{
		Name: "user_following", Table: "users", Column: "following_count",
		SourceTable: "user_follows", SourceKey: "follower_id",
	}
	UserRecipes = CounterField{
		Name: "user_recipes", Table: "users", Column: "recipes_count",
		SourceTable: "recipes", SourceKey: "author_id", SourceCond: "is_deleted = 0",
	}
)

// CounterFields 全部计数字段
var CounterFields = []CounterField{RecipeLikes, RecipeSaves, RecipeComments, UserFollowers, UserFollowing, UserRecipes}

func CounterFieldByName(name string) (CounterField, bool) {
	for _, f := range CounterFields {
		if f.Name == name {
			return f, true
		}
	}
	return CounterField{}, false
}

// CounterRef 某个实体上的某个计数
type CounterRef struct {
	Field CounterField
	ID    uint64
}

func (r CounterRef) String() string {
	return r.Field.Name + ":" + strconv.FormatUint(r.ID, 10)
}

// ParseCounterRef 解析脏集合成员 "recipe_likes:12"
func ParseCounterRef(s string) (CounterRef, error) {
	name, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return CounterRef{}, fmt.Errorf("invalid counter ref %q", s)
	}
	field, ok := CounterFieldByName(name)
	if !ok {
		return CounterRef{}, fmt.Errorf("unknown counter field %q", name)
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return CounterRef{}, fmt.Errorf("invalid counter id %q: %w", idStr, err)
	}
	return CounterRef{Field: field, ID: id}, nil
}
