package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// 环境变量覆盖，例如 DATABASE_DSN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", 5)
	viper.SetDefault("jwt.issuer", "CookingSecret")
	viper.SetDefault("jwt.expire_hour", 24*7)
	viper.SetDefault("feed.default_page_size", 20)
	viper.SetDefault("feed.max_page_size", 50)
	viper.SetDefault("feed.explore_order", "popular")
	viper.SetDefault("notification.mode", "direct")
	viper.SetDefault("notification.outbox_batch", 100)
	viper.SetDefault("notification.outbox_max_try", 5)
	viper.SetDefault("lock.mode", "redis")
	viper.SetDefault("lock.ttl", 5)
	viper.SetDefault("lock.retry_times", 25)
	viper.SetDefault("jobs.counter_repair", "0 */1 * * * *")
	viper.SetDefault("jobs.counter_sweep", "0 30 3 * * *")
	viper.SetDefault("jobs.outbox_relay", "*/30 * * * * *")
	viper.SetDefault("llm.history_size", 10)
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("minio.max_image_side", 1280)
	viper.SetDefault("minio.fetch_timeout", 10)
}
