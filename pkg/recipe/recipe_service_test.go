package recipe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"recipe-organizer/domain"
	"recipe-organizer/entities"
	"recipe-organizer/internal/utils"
	"recipe-organizer/pkg/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRecipeRepository struct {
	mu        sync.Mutex
	recipes   map[uuid.UUID]entities.Recipe
	lastQuery query.Query
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{recipes: map[uuid.UUID]entities.Recipe{}}
}

func (f *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().Add(time.Duration(len(f.recipes)) * time.Second)
	}
	f.recipes[recipe.ID] = *recipe
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recipes[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

// FindRecipes ignores filters; it orders by creation time like the default
// sort and applies the page window.
func (f *fakeRecipeRepository) FindRecipes(_ context.Context, q query.Query) ([]*entities.Recipe, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q

	all := make([]*entities.Recipe, 0, len(f.recipes))
	for _, r := range f.recipes {
		all = append(all, &r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if q.Skip >= len(all) {
		return nil, total, nil
	}
	end := min(q.Skip+q.Limit, len(all))
	return all[q.Skip:end], total, nil
}

func (f *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.recipes[recipe.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	recipe.OwnerID = existing.OwnerID
	recipe.CreatedAt = existing.CreatedAt
	f.recipes[recipe.ID] = *recipe
	return nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuid.MustParse(id)
	if _, ok := f.recipes[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.recipes, key)
	return nil
}

func (f *fakeRecipeRepository) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.recipes {
		if r.OwnerID.String() == ownerID {
			n++
		}
	}
	return n, nil
}

type fakeS3 struct {
	objects map[string][]byte
	sizes   map[string]int64
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, sizes: map[string]int64{}}
}

// UploadFile reads exactly size bytes from the current offset, the way a
// length-delimited PUT would.
func (f *fakeS3) UploadFile(_ context.Context, objectKey string, body io.ReadSeeker, size int64, _ string) (string, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(body, b); err != nil {
		return "", err
	}
	f.objects[objectKey] = b
	f.sizes[objectKey] = size
	return objectKey, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	if _, ok := f.objects[objectKey]; !ok {
		return errors.New("no such key")
	}
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example.com/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	key, _ := strings.CutPrefix(link, "https://bucket.example.com/")
	if key == link {
		return ""
	}
	return key
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func validRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Title:        "Pasta al Pomodoro",
		Category:     "dinner",
		Cuisine:      "italian",
		Ingredients:  []string{"spaghetti", "tomatoes", "basil"},
		Instructions: "Boil pasta. Make sauce. Combine.",
		PrepTime:     intPtr(10),
		CookTime:     intPtr(20),
		Servings:     intPtr(2),
		Difficulty:   "easy",
	}
}

func newUser(role string) *entities.User {
	return &entities.User{ID: uuid.New(), Role: role, Active: true}
}

func newService(repo RecipeRepository, s3 *fakeS3) RecipeService {
	if s3 == nil {
		return NewRecipeService(repo, nil, utils.NewValidator(), nil, 1024)
	}
	return NewRecipeService(repo, s3, utils.NewValidator(), nil, 1024)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	owner := newUser(domain.RoleUser)
	req := validRequest()

	created, err := svc.Create(context.Background(), owner, req)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, owner.ID.String(), got.OwnerID)
	assert.Equal(t, req.Title, got.Title)
	assert.Equal(t, req.Category, got.Category)
	assert.Equal(t, req.Cuisine, got.Cuisine)
	assert.Equal(t, req.Ingredients, got.Ingredients)
	assert.Equal(t, req.Instructions, got.Instructions)
	assert.Equal(t, *req.PrepTime, got.PrepTime)
	assert.Equal(t, *req.CookTime, got.CookTime)
	assert.Equal(t, 30, got.TotalTime)
	assert.Equal(t, *req.Servings, got.Servings)
	assert.Equal(t, req.Difficulty, got.Difficulty)
}

func TestCreateNormalizes(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	req := validRequest()
	req.Difficulty = ""
	req.Ingredients = []string{"  eggs ", "", "   ", "milk"}

	created, err := svc.Create(context.Background(), newUser(domain.RoleUser), req)
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyMedium, created.Difficulty)
	assert.Equal(t, []string{"eggs", "milk"}, created.Ingredients)
}

func TestCreateRejectsInvalid(t *testing.T) {
	repo := newFakeRecipeRepository()
	svc := newService(repo, nil)

	tests := map[string]func(r *domain.CreateRecipeRequest){
		"missing title":       func(r *domain.CreateRecipeRequest) { r.Title = "  " },
		"long title":          func(r *domain.CreateRecipeRequest) { r.Title = strings.Repeat("a", 101) },
		"unknown category":    func(r *domain.CreateRecipeRequest) { r.Category = "brunch" },
		"unknown cuisine":     func(r *domain.CreateRecipeRequest) { r.Cuisine = "martian" },
		"bad difficulty":      func(r *domain.CreateRecipeRequest) { r.Difficulty = "extreme" },
		"blank ingredients":   func(r *domain.CreateRecipeRequest) { r.Ingredients = []string{" ", ""} },
		"missing prep time":   func(r *domain.CreateRecipeRequest) { r.PrepTime = nil },
		"negative cook time":  func(r *domain.CreateRecipeRequest) { r.CookTime = intPtr(-1) },
		"zero servings":       func(r *domain.CreateRecipeRequest) { r.Servings = intPtr(0) },
		"missing instruction": func(r *domain.CreateRecipeRequest) { r.Instructions = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(context.Background(), newUser(domain.RoleUser), req)
			require.ErrorIs(t, err, domain.ErrValidation)

			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.NotEmpty(t, appErr.Errors)
		})
	}
	assert.Empty(t, repo.recipes)
}

func TestGetErrors(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)

	_, err := svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestUpdateOwnershipScenario(t *testing.T) {
	repo := newFakeRecipeRepository()
	svc := newService(repo, nil)
	ctx := context.Background()

	a := newUser(domain.RoleUser)
	b := newUser(domain.RoleUser)
	admin := newUser(domain.RoleAdmin)

	r, err := svc.Create(ctx, a, validRequest())
	require.NoError(t, err)
	before, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, b, r.ID, domain.UpdateRecipeRequest{Title: strPtr("Stolen")})
	assert.ErrorIs(t, err, domain.ErrNotResourceOwner)
	after, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	updated, err := svc.Update(ctx, a, r.ID, domain.UpdateRecipeRequest{Title: strPtr("Pasta Night"), Servings: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Pasta Night", updated.Title)
	assert.Equal(t, 4, updated.Servings)
	assert.Equal(t, before.Cuisine, updated.Cuisine)
	assert.Equal(t, a.ID.String(), updated.OwnerID)

	updated, err = svc.Update(ctx, admin, r.ID, domain.UpdateRecipeRequest{Difficulty: strPtr("hard")})
	require.NoError(t, err)
	assert.Equal(t, "hard", updated.Difficulty)
	assert.Equal(t, "Pasta Night", updated.Title)
	assert.Equal(t, a.ID.String(), updated.OwnerID)
}

func TestUpdateRevalidatesMergedRecipe(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	ctx := context.Background()
	owner := newUser(domain.RoleUser)

	r, err := svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, r.ID, domain.UpdateRecipeRequest{Ingredients: []string{"  "}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, owner, r.ID, domain.UpdateRecipeRequest{Category: strPtr("brunch")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Ingredients, got.Ingredients)
	assert.Equal(t, r.Category, got.Category)
}

func TestUpdateMissingRecipe(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	_, err := svc.Update(context.Background(), newUser(domain.RoleAdmin), uuid.NewString(), domain.UpdateRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = svc.Update(context.Background(), newUser(domain.RoleAdmin), "42", domain.UpdateRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestDeleteTwice(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	ctx := context.Background()
	owner := newUser(domain.RoleUser)

	r, err := svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, r.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner, r.ID), domain.ErrRecipeNotFound)
}

func TestDeleteRequiresOwnerOrAdmin(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	ctx := context.Background()
	owner := newUser(domain.RoleUser)

	r, err := svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, newUser(domain.RoleUser), r.ID), domain.ErrNotResourceOwner)
	_, err = svc.Get(ctx, r.ID)
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, newUser(domain.RoleAdmin), r.ID))
}

func TestListPaginationAndProjection(t *testing.T) {
	repo := newFakeRecipeRepository()
	svc := newService(repo, nil)
	ctx := context.Background()
	owner := newUser(domain.RoleUser)

	for i := 0; i < 7; i++ {
		_, err := svc.Create(ctx, owner, validRequest())
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, map[string]string{"page": "2", "limit": "3", "select": "title"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	assert.Equal(t, int64(7), res.Total)
	assert.Equal(t, &domain.PageRef{Page: 3, Limit: 3}, res.Pagination.Next)
	assert.Equal(t, &domain.PageRef{Page: 1, Limit: 3}, res.Pagination.Prev)
	assert.Equal(t, 3, repo.lastQuery.Skip)

	item, ok := res.Items[0].(map[string]any)
	require.True(t, ok)
	assert.Len(t, item, 2)
	assert.Contains(t, item, "id")
	assert.Equal(t, "Pasta al Pomodoro", item["title"])

	_, err = svc.List(ctx, map[string]string{"isAdmin": "true"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestSearch(t *testing.T) {
	repo := newFakeRecipeRepository()
	svc := newService(repo, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, map[string]string{"query": ""})
	assert.ErrorIs(t, err, domain.ErrEmptySearch)

	_, err = svc.Create(ctx, newUser(domain.RoleUser), validRequest())
	require.NoError(t, err)

	res, err := svc.Search(ctx, map[string]string{"query": "pasta", "maxTime": "30"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 30, res.Items[0].TotalTime)
	assert.Contains(t, repo.lastQuery.Filter, query.Expr(query.TextMatch{Terms: "pasta"}))
}

func TestCountByOwner(t *testing.T) {
	svc := newService(newFakeRecipeRepository(), nil)
	ctx := context.Background()
	a, b := newUser(domain.RoleUser), newUser(domain.RoleUser)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, a, validRequest())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, b, validRequest())
	require.NoError(t, err)

	n, err := svc.CountByOwner(ctx, a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	owner := newUser(domain.RoleUser)

	t.Run("storage not configured", func(t *testing.T) {
		svc := newService(newFakeRecipeRepository(), nil)
		_, err := svc.UploadImage(ctx, owner, uuid.NewString(), domain.ImageUpload{Body: bytes.NewReader(pngHeader)})
		assert.ErrorIs(t, err, domain.ErrStorageOffline)
	})

	s3 := newFakeS3()
	svc := newService(newFakeRecipeRepository(), s3)
	r, err := svc.Create(ctx, owner, validRequest())
	require.NoError(t, err)

	t.Run("not the owner", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, newUser(domain.RoleUser), r.ID, domain.ImageUpload{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)})
		assert.ErrorIs(t, err, domain.ErrNotResourceOwner)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, owner, r.ID, domain.ImageUpload{Size: 4096, Body: bytes.NewReader(pngHeader)})
		assert.ErrorIs(t, err, domain.ErrImageTooLarge)
	})

	t.Run("actual size over the limit", func(t *testing.T) {
		body := append(append([]byte(nil), pngHeader...), make([]byte, 2048)...)
		_, err := svc.UploadImage(ctx, owner, r.ID, domain.ImageUpload{Size: 10, Body: bytes.NewReader(body)})
		assert.ErrorIs(t, err, domain.ErrImageTooLarge)
	})

	t.Run("sends the whole file from the start", func(t *testing.T) {
		body := append(append([]byte(nil), pngHeader...), bytes.Repeat([]byte{0x42}, 700)...)
		res, err := svc.UploadImage(ctx, owner, r.ID, domain.ImageUpload{Size: int64(len(body)), Body: bytes.NewReader(body)})
		require.NoError(t, err)
		key := s3.GetObjectKeyFromLink(res.ImageURL)
		assert.Equal(t, body, s3.objects[key])
		assert.Equal(t, int64(len(body)), s3.sizes[key])
	})

	t.Run("not an image", func(t *testing.T) {
		body := []byte("%PDF-1.4 definitely not a picture")
		_, err := svc.UploadImage(ctx, owner, r.ID, domain.ImageUpload{Size: int64(len(body)), Body: bytes.NewReader(body)})
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("replaces previous image", func(t *testing.T) {
		first, err := svc.UploadImage(ctx, owner, r.ID, domain.ImageUpload{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)})
		require.NoError(t, err)
		require.NotEmpty(t, first.ImageURL)
		firstKey := s3.GetObjectKeyFromLink(first.ImageURL)
		assert.Equal(t, pngHeader, s3.objects[firstKey])
		assert.Equal(t, int64(len(pngHeader)), s3.sizes[firstKey])
		assert.True(t, strings.HasSuffix(firstKey, ".png"))

		second, err := svc.UploadImage(ctx, owner, r.ID, domain.ImageUpload{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)})
		require.NoError(t, err)
		assert.NotEqual(t, first.ImageURL, second.ImageURL)
		assert.Contains(t, s3.deleted, firstKey)

		got, err := svc.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ImageURL, got.ImageURL)
	})

	t.Run("delete removes the stored image", func(t *testing.T) {
		got, err := svc.Get(ctx, r.ID)
		require.NoError(t, err)
		key := s3.GetObjectKeyFromLink(got.ImageURL)

		require.NoError(t, svc.Delete(ctx, owner, r.ID))
		assert.Contains(t, s3.deleted, key)
		assert.NotContains(t, s3.objects, key)
	})
}
