package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"recipe-organizer/domain"
	"recipe-organizer/entities"
	"recipe-organizer/internal/utils"
	"recipe-organizer/internal/utils/storage"
	"recipe-organizer/pkg/auth"
	"recipe-organizer/pkg/query"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type (
	RecipeService interface {
		List(ctx context.Context, params map[string]string) (*domain.RecipeListResponse, error)
		Get(ctx context.Context, id string) (*domain.RecipeResponse, error)
		Create(ctx context.Context, identity *entities.User, req domain.CreateRecipeRequest) (*domain.RecipeResponse, error)
		Update(ctx context.Context, identity *entities.User, id string, req domain.UpdateRecipeRequest) (*domain.RecipeResponse, error)
		Delete(ctx context.Context, identity *entities.User, id string) error
		Search(ctx context.Context, params map[string]string) (*domain.RecipeSearchResponse, error)
		UploadImage(ctx context.Context, identity *entities.User, id string, img domain.ImageUpload) (*domain.RecipeResponse, error)
		CountByOwner(ctx context.Context, ownerID string) (int64, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		s3               storage.AwsS3
		validator        *validator.Validate
		logger           *zap.Logger
		maxImageSize     int64
	}
)

// NewRecipeService wires the recipe use cases. s3 may be nil, in which case
// image uploads answer STORAGE_UNAVAILABLE.
func NewRecipeService(
	recipeRepository RecipeRepository,
	s3 storage.AwsS3,
	validator *validator.Validate,
	logger *zap.Logger,
	maxImageSize int64,
) RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recipeService{
		recipeRepository: recipeRepository,
		s3:               s3,
		validator:        validator,
		logger:           logger,
		maxImageSize:     maxImageSize,
	}
}

func (s *recipeService) List(ctx context.Context, params map[string]string) (*domain.RecipeListResponse, error) {
	q, err := query.Recipes.CompileList(params)
	if err != nil {
		return nil, err
	}

	recipes, total, err := s.recipeRepository.FindRecipes(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(recipes))
	for _, r := range recipes {
		res := toRecipeResponse(r)
		if q.Select != nil {
			items = append(items, res.Project(q.Select))
			continue
		}
		items = append(items, res)
	}

	return &domain.RecipeListResponse{
		Items:      items,
		Count:      len(items),
		Total:      total,
		Pagination: q.Paginate(total),
	}, nil
}

func (s *recipeService) Search(ctx context.Context, params map[string]string) (*domain.RecipeSearchResponse, error) {
	q, err := query.Recipes.CompileSearch(params)
	if err != nil {
		return nil, err
	}

	recipes, total, err := s.recipeRepository.FindRecipes(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]domain.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		items = append(items, toRecipeSummary(r))
	}

	return &domain.RecipeSearchResponse{
		Items:      items,
		Count:      len(items),
		Total:      total,
		Pagination: q.Paginate(total),
	}, nil
}

func (s *recipeService) Get(ctx context.Context, id string) (*domain.RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toRecipeResponse(recipe)
	return &res, nil
}

func (s *recipeService) Create(ctx context.Context, identity *entities.User, req domain.CreateRecipeRequest) (*domain.RecipeResponse, error) {
	if identity == nil {
		return nil, domain.ErrAuthRequired
	}

	normalizeCreate(&req)
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	recipe := &entities.Recipe{
		ID:           uuid.New(),
		OwnerID:      identity.ID,
		Title:        req.Title,
		Category:     req.Category,
		Cuisine:      req.Cuisine,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     *req.PrepTime,
		CookTime:     *req.CookTime,
		Servings:     *req.Servings,
		Difficulty:   req.Difficulty,
		ImageURL:     req.ImageURL,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	res := toRecipeResponse(recipe)
	return &res, nil
}

func (s *recipeService) Update(ctx context.Context, identity *entities.User, id string, req domain.UpdateRecipeRequest) (*domain.RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.AuthorizeOwnerOrAdmin(identity, recipe.OwnerID); err != nil {
		return nil, err
	}

	merged := mergeUpdate(*recipe, req)
	if err := utils.ValidateStruct(s.validator, createRequestOf(&merged)); err != nil {
		return nil, err
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, &merged); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("update recipe %s: %w", id, err)
	}

	res := toRecipeResponse(&merged)
	return &res, nil
}

func (s *recipeService) Delete(ctx context.Context, identity *entities.User, id string) error {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.AuthorizeOwnerOrAdmin(identity, recipe.OwnerID); err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}

	s.removeImage(ctx, recipe.ImageURL)
	return nil
}

func (s *recipeService) UploadImage(ctx context.Context, identity *entities.User, id string, img domain.ImageUpload) (*domain.RecipeResponse, error) {
	if s.s3 == nil {
		return nil, domain.ErrStorageOffline
	}
	if img.Body == nil {
		return nil, domain.ErrRecipeImageMissing
	}

	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.AuthorizeOwnerOrAdmin(identity, recipe.OwnerID); err != nil {
		return nil, err
	}

	if s.maxImageSize > 0 && img.Size > s.maxImageSize {
		return nil, domain.ErrImageTooLarge
	}

	contentType, size, err := sniffImage(img.Body)
	if err != nil {
		return nil, err
	}
	if s.maxImageSize > 0 && size > s.maxImageSize {
		return nil, domain.ErrImageTooLarge
	}

	objectKey := fmt.Sprintf("recipes/%s/%s%s", recipe.ID, uuid.NewString(), imageExtensions[contentType])
	if _, err := s.s3.UploadFile(ctx, objectKey, img.Body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload recipe image: %w", err)
	}

	previous := recipe.ImageURL
	recipe.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	recipe.UpdatedAt = time.Now()

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		s.removeImage(ctx, recipe.ImageURL)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("save recipe image: %w", err)
	}

	s.removeImage(ctx, previous)

	res := toRecipeResponse(recipe)
	return &res, nil
}

func (s *recipeService) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return s.recipeRepository.CountByOwner(ctx, ownerID)
}

func (s *recipeService) load(ctx context.Context, id string) (*entities.Recipe, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return recipe, nil
}

// removeImage deletes an uploaded object. Failures are only logged; the
// recipe row is the source of truth.
func (s *recipeService) removeImage(ctx context.Context, link string) {
	if s.s3 == nil || link == "" {
		return
	}
	key := s.s3.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		s.logger.Warn("failed to delete recipe image", zap.String("key", key), zap.Error(err))
	}
}

// sniffImage detects the content type from the leading bytes, measures the
// body and leaves it rewound to the start.
func sniffImage(r io.ReadSeeker) (string, int64, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", 0, fmt.Errorf("read image: %w", err)
	}
	if n == 0 {
		return "", 0, domain.ErrRecipeImageMissing
	}

	contentType := http.DetectContentType(head[:n])
	if !slices.Contains(domain.AllowedImageTypes, contentType) {
		return "", 0, domain.ErrInvalidImage
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return "", 0, fmt.Errorf("measure image: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("rewind image: %w", err)
	}
	return contentType, size, nil
}

func normalizeCreate(req *domain.CreateRecipeRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Instructions = strings.TrimSpace(req.Instructions)
	req.Ingredients = normalizeIngredients(req.Ingredients)
	if req.Difficulty == "" {
		req.Difficulty = domain.DifficultyMedium
	}
}

func normalizeIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ing := range in {
		if ing = strings.TrimSpace(ing); ing != "" {
			out = append(out, ing)
		}
	}
	return out
}

// mergeUpdate applies the fields present in req. The request type has no id
// or owner field, so those can never change here.
func mergeUpdate(r entities.Recipe, req domain.UpdateRecipeRequest) entities.Recipe {
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		r.Category = *req.Category
	}
	if req.Cuisine != nil {
		r.Cuisine = *req.Cuisine
	}
	if req.Ingredients != nil {
		r.Ingredients = normalizeIngredients(req.Ingredients)
	}
	if req.Instructions != nil {
		r.Instructions = strings.TrimSpace(*req.Instructions)
	}
	if req.PrepTime != nil {
		r.PrepTime = *req.PrepTime
	}
	if req.CookTime != nil {
		r.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		r.Servings = *req.Servings
	}
	if req.Difficulty != nil {
		r.Difficulty = *req.Difficulty
	}
	if req.ImageURL != nil {
		r.ImageURL = *req.ImageURL
	}
	r.UpdatedAt = time.Now()
	return r
}

func createRequestOf(r *entities.Recipe) domain.CreateRecipeRequest {
	prep, cook, servings := r.PrepTime, r.CookTime, r.Servings
	return domain.CreateRecipeRequest{
		Title:        r.Title,
		Category:     r.Category,
		Cuisine:      r.Cuisine,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		PrepTime:     &prep,
		CookTime:     &cook,
		Servings:     &servings,
		Difficulty:   r.Difficulty,
		ImageURL:     r.ImageURL,
	}
}

func toRecipeResponse(r *entities.Recipe) domain.RecipeResponse {
	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return domain.RecipeResponse{
		ID:           r.ID.String(),
		Title:        r.Title,
		Category:     r.Category,
		Cuisine:      r.Cuisine,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		TotalTime:    r.TotalTime(),
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		ImageURL:     r.ImageURL,
		OwnerID:      r.OwnerID.String(),
		CreatedAt:    r.CreatedAt,
	}
}

func toRecipeSummary(r *entities.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:         r.ID.String(),
		Title:      r.Title,
		Category:   r.Category,
		Cuisine:    r.Cuisine,
		PrepTime:   r.PrepTime,
		CookTime:   r.CookTime,
		TotalTime:  r.TotalTime(),
		Servings:   r.Servings,
		Difficulty: r.Difficulty,
		ImageURL:   r.ImageURL,
		OwnerID:    r.OwnerID.String(),
		CreatedAt:  r.CreatedAt,
	}
}
