package service

import "CookingSecret/internal/pkg/util"

var (
	defaultPageSize = 20
	maxPageSize     = 50
)

// SetPaging 由配置覆盖默认分页大小与上限
func SetPaging(def, max int) {
	if def > 0 {
		defaultPageSize = def
	}
	if max > 0 {
		maxPageSize = max
	}
}

func clampPage(skip, limit int) (int, int) {
	return util.ClampPage(skip, limit, defaultPageSize, maxPageSize)
}
