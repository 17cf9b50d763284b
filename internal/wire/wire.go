package wire

import (
	"CookingSecret/internal/api"
	"CookingSecret/internal/api/config"
	"CookingSecret/internal/api/handler"
	"CookingSecret/internal/job"
	"CookingSecret/internal/pkg/consts"
	"CookingSecret/internal/pkg/cron"
	"CookingSecret/internal/pkg/es"
	"CookingSecret/internal/pkg/kafka"
	"CookingSecret/internal/pkg/llm"
	"CookingSecret/internal/pkg/minio"
	mongorepo "CookingSecret/internal/pkg/mongo"
	"CookingSecret/internal/pkg/redis"
	"CookingSecret/internal/repository"
	"CookingSecret/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const followCacheTTL = 24 * time.Hour

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.NotificationProducer
}

// Close 释放生产者与 Redis 客户端
func (a *ApplicationContainer) Close() {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			log.Error("close notification producer failed", "err", err)
		}
	}
	if err := redis.Close(); err != nil {
		log.Error("close redis client failed", "err", err)
	}
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	// 存储层
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	recipeActionRepo := repository.NewRecipeActionRepo(db)
	counterRepo := repository.NewCounterRepo(db)
	outboxRepo := repository.NewOutboxRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	notificationRepo := mongorepo.NewNotificationRepo(mongoDB)
	chatMessageRepo := mongorepo.NewChatMessageRepo(mongoDB)

	// 基础设施
	images := minio.NewImageStore(minio.Client, minio.MainBucket, cfg.MinIO.ExternalEndpoint, cfg.MinIO.MaxImageSide, cfg.MinIO.FetchTimeout)
	unreadPublisher := redis.NewUnreadPublisher()

	var locker service.Locker
	if cfg.Lock.Mode == consts.LockModeLocal {
		locker = service.NewKeyedMutex()
	} else {
		locker = redis.NewLocker(time.Duration(cfg.Lock.TTL)*time.Second, cfg.Lock.RetryTimes)
	}

	var index service.RecipeIndex
	if cfg.Elastic.Enable && es.Client != nil {
		index = es.NewRecipeIndexer(es.NewRecipeRepo(es.Client))
	}

	var chatModel service.ChatModel
	if bot, err := llm.InitLLM(); err != nil {
		log.Warn("chat model unavailable, chat endpoints will answer 503", "err", err)
	} else {
		chatModel = bot
	}

	var dispatcher service.NotificationDispatcher
	var producer *kafka.NotificationProducer
	if cfg.Notification.Mode == consts.NotificationModeKafka {
		p, err := kafka.NewNotificationProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		producer = p
		dispatcher = p
	}

	// 业务层
	policy := service.NewAccessPolicy()
	counterService := service.NewCounterService(counterRepo, redis.NewDirtySet(consts.CounterDirtyKey))
	notificationService := service.NewNotificationService(
		notificationRepo, outboxRepo, userRepo, dispatcher, unreadPublisher, policy, images,
		cfg.Notification.OutboxBatch, cfg.Notification.OutboxMaxTry,
	)
	assembler := service.NewRecipeAssembler(userRepo, recipeActionRepo, images)
	userService := service.NewUserService(userRepo, redis.NewTokenBlacklist(), policy, images)
	userFollowService := service.NewUserFollowService(
		userRepo, userFollowRepo, counterService, notificationService, locker, redis.NewFollowCache(followCacheTTL), images,
	)
	recipeService := service.NewRecipeService(recipeRepo, recipeActionRepo, counterService, policy, assembler, images, index)
	recipeActionService := service.NewRecipeActionService(
		recipeRepo, recipeActionRepo, userRepo, counterService, notificationService, policy, locker, images,
	)
	feedService := service.NewFeedService(recipeRepo, userFollowService, assembler, cfg.Feed.ExploreOrder)
	purchaseService := service.NewPurchaseService(purchaseRepo, recipeRepo, policy, assembler)
	chatService := service.NewChatService(chatMessageRepo, chatModel, cfg.LLM.HistorySize)
	adminService := service.NewAdminService(userRepo, recipeRepo, recipeActionRepo, counterService, policy)

	handlers := &api.HandlersGroup{
		Auth:                userService,
		AuthHandler:         handler.NewAuthHandler(userService),
		UserHandler:         handler.NewUserHandler(userService),
		UserFollowHandler:   handler.NewUserFollowHandler(userFollowService),
		RecipeHandler:       handler.NewRecipeHandler(recipeService),
		RecipeActionHandler: handler.NewRecipeActionHandler(recipeActionService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		WsHandler:           handler.NewWsHandler(userService, notificationService, unreadPublisher),
		PurchaseHandler:     handler.NewPurchaseHandler(purchaseService),
		ChatHandler:         handler.NewChatHandler(chatService),
		AdminHandler:        handler.NewAdminHandler(adminService),
	}
	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		cfg.Jobs,
		job.NewCounterRepairJob(counterService),
		job.NewCounterSweepJob(counterService),
		job.NewOutboxRelayJob(notificationService),
	)

	app := &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Producer: producer,
	}

	// kafka 模式下由消费者落库通知
	if producer != nil {
		kafkaMgr, err := kafka.NewConsumerManager(cfg.Kafka, notificationService)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}
