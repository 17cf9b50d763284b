package util

import (
	"strings"
)

// NormalizeTags 去除空白、去重，保留原有顺序
func NormalizeTags(raw []string) []string {
	tagSet := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))

	for _, t := range raw {
		tagName := strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if tagName == "" {
			continue
		}
		key := strings.ToLower(tagName)
		if _, exists := tagSet[key]; exists {
			continue
		}
		tagSet[key] = struct{}{}
		tags = append(tags, tagName)
	}

	return tags
}

// ClampPage 规范化 skip/limit：skip 不小于 0，limit 缺省为 def、上限为 max
func ClampPage(skip, limit, def, max int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return skip, limit
}

// UniqueUint64 去重
func UniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	res := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}
