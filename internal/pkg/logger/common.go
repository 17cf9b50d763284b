package logger

import "time"

const (
	bodyLogLimit       = 1000
	sqlSlowThreshold   = 200 * time.Millisecond
	cacheSlowThreshold = 100 * time.Millisecond
	docSlowThreshold   = 200 * time.Millisecond
	esSlowThreshold    = 500 * time.Millisecond
)

// truncate 日志字段过长时截断
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...[truncated]"
}
