package es

import (
	"CookingSecret/internal/api/config"
	"CookingSecret/internal/pkg/logger"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/indices/create"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

var Client *elasticsearch.TypedClient

var RecipeIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 初始化 Elasticsearch 客户端并确保菜谱索引存在
func InitClient() error {
	elasticCfg := config.Cfg.Elastic
	RecipeIndex = elasticCfg.Indices.RecipeIndex

	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	})
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := client.Info().Do(ctx)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}
	if err = ensureRecipeIndex(ctx, client); err != nil {
		log.Error("Cannot create recipe index", "index", RecipeIndex, "err", err)
		return err
	}

	Client = client
	log.Info("Connected to Elasticsearch", "version", info.Version.Int, "index", RecipeIndex)
	return nil
}

func ensureRecipeIndex(ctx context.Context, client *elasticsearch.TypedClient) error {
	exists, err := client.Indices.Exists(RecipeIndex).Do(ctx)
	if err != nil || exists {
		return err
	}

	_, err = client.Indices.Create(RecipeIndex).Request(&create.Request{
		Mappings: &types.TypeMapping{
			Properties: map[string]types.Property{
				"id":          types.NewLongNumberProperty(),
				"author_id":   types.NewLongNumberProperty(),
				"title":       types.NewTextProperty(),
				"description": types.NewTextProperty(),
				"category":    types.NewTextProperty(),
				"tags":        types.NewTextProperty(),
				"ingredients": types.NewTextProperty(),
				"difficulty":  types.NewKeywordProperty(),
				"is_approved": types.NewBooleanProperty(),
				"likes_count": types.NewLongNumberProperty(),
				"created_at":  types.NewDateProperty(),
			},
		},
	}).Do(ctx)
	return err
}
