package dto

type StatsDTO struct {
	UsersCount    int64            `json:"users_count"`
	RecipesCount  int64            `json:"recipes_count"`
	CommentsCount int64            `json:"comments_count"`
	RoleCounts    map[string]int64 `json:"role_counts"`
}

// RecountDTO 手动触发计数修复，All 为 true 时全量扫描
type RecountDTO struct {
	Field string `json:"field"`
	ID    uint64 `json:"id"`
	All   bool   `json:"all"`
}

type RecountResultDTO struct {
	Recounted int `json:"recounted"`
}
