package domain

import (
	"io"
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var (
	RecipeCategories = []string{"breakfast", "lunch", "dinner", "snack", "dessert", "appetizer", "soup", "salad", "main", "side", "drink"}
	RecipeCuisines   = []string{"italian", "mexican", "chinese", "indian", "french", "japanese", "mediterranean", "american", "thai", "turkish", "other"}
	RecipeDifficulty = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

	AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "Recipe deleted successfully"
	MessageSuccessSearchRecipes   = "success search recipes"
	MessageSuccessUploadImage     = "recipe image uploaded successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "Server error while deleting recipe"
	MessageFailedSearchRecipes   = "failed to search recipes"
	MessageFailedUploadImage     = "failed to upload recipe image"

	ErrRecipeNotFound     = NewNotFoundError("RECIPE_NOT_FOUND", "Recipe not found")
	ErrEmptySearch        = NewValidationError("EMPTY_SEARCH", "Please provide a search query or at least one filter")
	ErrInvalidImage       = NewValidationError("INVALID_IMAGE", "Image must be a jpeg, png or gif file")
	ErrImageTooLarge      = NewValidationError("IMAGE_TOO_LARGE", "Image exceeds the maximum upload size")
	ErrRecipeImageMissing = NewValidationError("MISSING_FIELDS", "Please attach an image file")
)

type (
	CreateRecipeRequest struct {
		Title        string   `json:"title" validate:"required,max=100"`
		Category     string   `json:"category" validate:"required,recipe_category"`
		Cuisine      string   `json:"cuisine" validate:"required,recipe_cuisine"`
		Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
		Instructions string   `json:"instructions" validate:"required"`
		PrepTime     *int     `json:"prepTime" validate:"required,min=0"`
		CookTime     *int     `json:"cookTime" validate:"required,min=0"`
		Servings     *int     `json:"servings" validate:"required,min=1"`
		Difficulty   string   `json:"difficulty" validate:"omitempty,recipe_difficulty"`
		ImageURL     string   `json:"imageUrl" validate:"omitempty,max=2048"`
	}

	// UpdateRecipeRequest only carries mutable fields; id and ownerId sent by
	// a client are dropped by the body parser.
	UpdateRecipeRequest struct {
		Title        *string  `json:"title" validate:"omitempty,max=100"`
		Category     *string  `json:"category" validate:"omitempty,recipe_category"`
		Cuisine      *string  `json:"cuisine" validate:"omitempty,recipe_cuisine"`
		Ingredients  []string `json:"ingredients" validate:"omitempty,min=1"`
		Instructions *string  `json:"instructions"`
		PrepTime     *int     `json:"prepTime" validate:"omitempty,min=0"`
		CookTime     *int     `json:"cookTime" validate:"omitempty,min=0"`
		Servings     *int     `json:"servings" validate:"omitempty,min=1"`
		Difficulty   *string  `json:"difficulty" validate:"omitempty,recipe_difficulty"`
		ImageURL     *string  `json:"imageUrl" validate:"omitempty,max=2048"`
	}

	RecipeResponse struct {
		ID           string    `json:"id"`
		Title        string    `json:"title"`
		Category     string    `json:"category"`
		Cuisine      string    `json:"cuisine"`
		Ingredients  []string  `json:"ingredients"`
		Instructions string    `json:"instructions"`
		PrepTime     int       `json:"prepTime"`
		CookTime     int       `json:"cookTime"`
		TotalTime    int       `json:"totalTime"`
		Servings     int       `json:"servings"`
		Difficulty   string    `json:"difficulty"`
		ImageURL     string    `json:"imageUrl,omitempty"`
		OwnerID      string    `json:"ownerId"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	RecipeSummary struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Category   string    `json:"category"`
		Cuisine    string    `json:"cuisine"`
		PrepTime   int       `json:"prepTime"`
		CookTime   int       `json:"cookTime"`
		TotalTime  int       `json:"totalTime"`
		Servings   int       `json:"servings"`
		Difficulty string    `json:"difficulty"`
		ImageURL   string    `json:"imageUrl,omitempty"`
		OwnerID    string    `json:"ownerId"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	// ImageUpload is an uploaded file as handed over by the transport. Body
	// must be seekable so it can be sniffed and then streamed with a known
	// length.
	ImageUpload struct {
		FileName string
		Size     int64
		Body     io.ReadSeeker
	}

	PageRef struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}

	Pagination struct {
		Next *PageRef `json:"next,omitempty"`
		Prev *PageRef `json:"prev,omitempty"`
	}

	// RecipeListResponse items are RecipeResponse values, or projected maps
	// when the caller restricted the returned fields.
	RecipeListResponse struct {
		Items      []any
		Count      int
		Total      int64
		Pagination Pagination
	}

	RecipeSearchResponse struct {
		Items      []RecipeSummary
		Count      int
		Total      int64
		Pagination Pagination
	}
)

// Project keeps only the named JSON fields of the recipe.
func (r RecipeResponse) Project(fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f {
		case "id":
			out[f] = r.ID
		case "title":
			out[f] = r.Title
		case "category":
			out[f] = r.Category
		case "cuisine":
			out[f] = r.Cuisine
		case "ingredients":
			out[f] = r.Ingredients
		case "instructions":
			out[f] = r.Instructions
		case "prepTime":
			out[f] = r.PrepTime
		case "cookTime":
			out[f] = r.CookTime
		case "totalTime":
			out[f] = r.TotalTime
		case "servings":
			out[f] = r.Servings
		case "difficulty":
			out[f] = r.Difficulty
		case "imageUrl":
			out[f] = r.ImageURL
		case "ownerId":
			out[f] = r.OwnerID
		case "createdAt":
			out[f] = r.CreatedAt
		}
	}
	return out
}
