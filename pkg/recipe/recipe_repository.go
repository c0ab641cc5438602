package recipe

import (
	"context"
	"fmt"

	"recipe-organizer/entities"
	"recipe-organizer/pkg/query"

	"gorm.io/gorm"
)

var mutableColumns = []string{
	"title",
	"category",
	"cuisine",
	"ingredients",
	"instructions",
	"prep_time",
	"cook_time",
	"servings",
	"difficulty",
	"image_url",
	"updated_at",
}

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		FindRecipes(ctx context.Context, q query.Query) ([]*entities.Recipe, int64, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id string) error
		CountByOwner(ctx context.Context, ownerID string) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindRecipes(ctx context.Context, q query.Query) ([]*entities.Recipe, int64, error) {
	clauses, err := translateFilter(q.Filter)
	if err != nil {
		return nil, 0, err
	}
	order, err := translateSort(q.Sort)
	if err != nil {
		return nil, 0, err
	}
	columns, err := translateSelect(q.Select)
	if err != nil {
		return nil, 0, err
	}

	filtered := func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = db.Where(c.SQL, c.Args...)
		}
		return db
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(filtered).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []*entities.Recipe
	if count == 0 || int64(q.Skip) >= count {
		return recipes, count, nil
	}

	tx := r.db.WithContext(ctx).Scopes(filtered)
	if columns != nil {
		tx = tx.Select(columns)
	}
	if err := tx.
		Offset(q.Skip).
		Limit(q.Limit).
		Order(order).
		Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("find recipes: %w", err)
	}

	return recipes, count, nil
}

// UpdateRecipe writes the mutable columns only; id, owner and created_at are
// never touched.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	res := r.db.WithContext(ctx).
		Model(recipe).
		Select(mutableColumns).
		Updates(recipe)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
