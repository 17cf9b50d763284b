package es

import (
	"CookingSecret/internal/model"
	"context"
)

// RecipeIndexer 把 MySQL 中的菜谱同步到检索索引
type RecipeIndexer struct {
	repo RecipeRepo
}

func NewRecipeIndexer(repo RecipeRepo) *RecipeIndexer {
	return &RecipeIndexer{repo: repo}
}

// IndexRecipe 以 updated_at 作为外部版本号，乱序的旧写入不会覆盖新文档
func (s *RecipeIndexer) IndexRecipe(ctx context.Context, recipe *model.Recipe) error {
	ingredients := make([]string, 0, len(recipe.Ingredients))
	for _, i := range recipe.Ingredients {
		ingredients = append(ingredients, i.Name)
	}
	doc := &RecipeES{
		ID:          recipe.ID,
		AuthorID:    recipe.AuthorID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Category:    recipe.Category,
		Tags:        recipe.Tags,
		Ingredients: ingredients,
		Difficulty:  recipe.Difficulty,
		IsApproved:  recipe.IsApproved,
		LikesCount:  recipe.LikesCount,
		CreatedAt:   recipe.CreatedAt,
	}
	return s.repo.IndexRecipe(ctx, doc, recipe.UpdatedAt.UnixMilli())
}

func (s *RecipeIndexer) DeleteRecipe(ctx context.Context, id uint64) error {
	return s.repo.DeleteRecipe(ctx, id)
}

func (s *RecipeIndexer) SearchRecipes(ctx context.Context, query string, from, size int) ([]uint64, error) {
	return s.repo.SearchRecipes(ctx, query, from, size)
}
