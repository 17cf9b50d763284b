package config

// Config 配置主体
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	DB           DBConfig           `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Mongo        MongoConfig        `mapstructure:"mongo"`
	LLM          LLMConfig          `mapstructure:"llm"`
	MinIO        MinIOConfig        `mapstructure:"minio"`
	Elastic      ElasticConfig      `mapstructure:"elastic"`
	Logstash     LogstashConfig     `mapstructure:"logstash"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Feed         FeedConfig         `mapstructure:"feed"`
	Notification NotificationConfig `mapstructure:"notification"`
	Lock         LockConfig         `mapstructure:"lock"`
	Jobs         JobsConfig         `mapstructure:"jobs"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RedisConfig 超时单位为秒，0 表示使用默认值
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdle      int    `mapstructure:"min_idle"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type LLMConfig struct {
	URL         string  `mapstructure:"url"`
	TextModel   string  `mapstructure:"text_model"`
	ApiKey      string  `mapstructure:"api_key"`
	ChatPrompt  string  `mapstructure:"chat_prompt"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"`
	HistorySize int     `mapstructure:"history_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	MaxImageSide     int    `mapstructure:"max_image_side"`
	FetchTimeout     int    `mapstructure:"fetch_timeout"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	RecipeIndex string `mapstructure:"recipe_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	ExpireHour int    `mapstructure:"expire_hour"`
}

type KafkaConfig struct {
	Brokers              []string         `mapstructure:"brokers"`
	Sasl                 SaslConfig       `mapstructure:"sasl"`
	Consumer             ConsumerConfig   `mapstructure:"consumer"`
	NotificationConsumer TopicGroupConfig `mapstructure:"notification_consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type TopicGroupConfig struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// FeedConfig 信息流分页与排序
type FeedConfig struct {
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
	ExploreOrder    string `mapstructure:"explore_order"`
}

// NotificationConfig 通知投递方式: kafka 或 direct
type NotificationConfig struct {
	Mode         string `mapstructure:"mode"`
	OutboxBatch  int    `mapstructure:"outbox_batch"`
	OutboxMaxTry int    `mapstructure:"outbox_max_try"`
	PushUnreadWS bool   `mapstructure:"push_unread_ws"`
}

// LockConfig 切换类操作的互斥锁: redis 或 local
type LockConfig struct {
	Mode       string `mapstructure:"mode"`
	TTL        int    `mapstructure:"ttl"`
	RetryTimes int    `mapstructure:"retry_times"`
}

// JobsConfig 定时任务 cron 表达式 (含秒)
type JobsConfig struct {
	CounterRepair string `mapstructure:"counter_repair"`
	CounterSweep  string `mapstructure:"counter_sweep"`
	OutboxRelay   string `mapstructure:"outbox_relay"`
}
