package es

import "time"

// RecipeES 写入 ES 的菜谱文档，只用于检索，结果回表 MySQL
type RecipeES struct {
	ID          uint64    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Ingredients []string  `json:"ingredients"`
	Difficulty  string    `json:"difficulty"`
	IsApproved  bool      `json:"is_approved"`
	LikesCount  int64     `json:"likes_count"`
	CreatedAt   time.Time `json:"created_at"`
}
