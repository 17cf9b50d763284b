package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

const (
	ExploreOrderPopular = "popular"
	ExploreOrderRecent  = "recent"
)

const (
	NotificationModeKafka  = "kafka"
	NotificationModeDirect = "direct"
)

const (
	LockModeRedis = "redis"
	LockModeLocal = "local"
)

// Categories 固定的菜谱分类
var Categories = []string{
	"Breakfast", "Lunch", "Dinner", "Dessert", "Appetizer",
	"Salad", "Soup", "Snack", "Beverage", "Side Dish",
	"Vegan", "Vegetarian", "Seafood", "Meat", "Pasta",
	"Asian", "Italian", "Mexican", "Indian", "Mediterranean",
}
