package es

import (
	"CookingSecret/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type RecipeRepo interface {
	IndexRecipe(ctx context.Context, recipe *RecipeES, version int64) error
	DeleteRecipe(ctx context.Context, id uint64) error
	SearchRecipes(ctx context.Context, query string, from, size int) ([]uint64, error)
}

type RecipeRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewRecipeRepo(client *elasticsearch.TypedClient) RecipeRepo {
	return &RecipeRepoImpl{client: client}
}

// IndexRecipe 外部版本号写入，旧版本的写入被忽略
func (s *RecipeRepoImpl) IndexRecipe(ctx context.Context, recipe *RecipeES, version int64) error {
	docID := strconv.FormatUint(recipe.ID, 10)

	_, err := s.client.Index(RecipeIndex).
		Id(docID).
		Document(recipe).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *RecipeRepoImpl) DeleteRecipe(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(RecipeIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

// SearchRecipes 在标题、描述、标签、分类、食材上检索，返回按相关度排序的菜谱 ID
func (s *RecipeRepoImpl) SearchRecipes(ctx context.Context, query string, from, size int) ([]uint64, error) {
	if from >= MaxSearchDepth {
		return []uint64{}, nil
	}

	resp, err := s.client.Search().
		Index(RecipeIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{{
					MultiMatch: &types.MultiMatchQuery{
						Query:  query,
						Fields: []string{"title^3", "tags^2", "category^2", "description", "ingredients"},
					},
				}},
				Filter: []types.Query{{
					Term: map[string]types.TermQuery{"is_approved": {Value: true}},
				}},
			},
		}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{"_score": {Order: &sortorder.Desc}}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"likes_count": {Order: &sortorder.Desc}}},
		).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc RecipeES
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return util.UniqueUint64(ids), nil
}
