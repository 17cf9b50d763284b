package consts

const (
	TokenBlacklistKey     = "token:blacklist:"
	UserFollowingKey      = "user:following:"
	CounterDirtyKey       = "counter:dirty"
	NotificationUnreadKey = "notification:unread:"
)

const (
	ToggleLock = "lock:toggle:"
)
