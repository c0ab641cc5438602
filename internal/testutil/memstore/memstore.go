// Package memstore holds in-memory user and recipe repositories for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"recipe-organizer/entities"
	"recipe-organizer/pkg/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]entities.User
	recipes map[uuid.UUID]entities.Recipe
	clock   time.Time
}

func New() *Store {
	return &Store{
		users:   map[uuid.UUID]entities.User{},
		recipes: map[uuid.UUID]entities.Recipe{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return parsed, nil
}

// users

func (s *Store) RegisterUser(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.tick()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) CheckEmail(_ context.Context, email string, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Email == email && id.String() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateProfile(_ context.Context, user *entities.User) error {
	return s.updateUser(user.ID.String(), func(u *entities.User) {
		u.Name, u.Email, u.Bio, u.Avatar = user.Name, user.Email, user.Bio, user.Avatar
	})
}

func (s *Store) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	return s.updateUser(id, func(u *entities.User) { u.PasswordHash = passwordHash })
}

func (s *Store) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return s.updateUser(id, func(u *entities.User) { u.LastLoginAt = &at })
}

func (s *Store) SetActive(_ context.Context, id string, active bool) error {
	return s.updateUser(id, func(u *entities.User) { u.Active = active })
}

// SetRole is a test helper; the API never changes roles.
func (s *Store) SetRole(id string, role string) error {
	return s.updateUser(id, func(u *entities.User) { u.Role = role })
}

func (s *Store) updateUser(id string, apply func(u *entities.User)) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[key]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply(&u)
	u.UpdatedAt = s.tick()
	s.users[key] = u
	return nil
}

// recipes

func (s *Store) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	recipe.CreatedAt = s.tick()
	recipe.UpdatedAt = recipe.CreatedAt
	s.recipes[recipe.ID] = cloneRecipe(*recipe)
	return nil
}

func (s *Store) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r = cloneRecipe(r)
	return &r, nil
}

func (s *Store) FindRecipes(_ context.Context, q query.Query) ([]*entities.Recipe, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*entities.Recipe
	for _, r := range s.recipes {
		ok, err := matches(&r, q.Filter)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			c := cloneRecipe(r)
			matched = append(matched, &c)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], q.Sort)
	})

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return []*entities.Recipe{}, total, nil
	}
	end := min(q.Skip+q.Limit, len(matched))
	return matched[q.Skip:end], total, nil
}

func (s *Store) UpdateRecipe(_ context.Context, recipe *entities.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.recipes[recipe.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := cloneRecipe(*recipe)
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.tick()
	s.recipes[recipe.ID] = updated
	return nil
}

func (s *Store) DeleteRecipe(_ context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.recipes, key)
	return nil
}

func (s *Store) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.recipes {
		if r.OwnerID.String() == ownerID {
			n++
		}
	}
	return n, nil
}

func cloneRecipe(r entities.Recipe) entities.Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	return r
}

func fieldValue(r *entities.Recipe, field string) (any, error) {
	switch field {
	case "title":
		return r.Title, nil
	case "category":
		return r.Category, nil
	case "cuisine":
		return r.Cuisine, nil
	case "difficulty":
		return r.Difficulty, nil
	case "prepTime":
		return r.PrepTime, nil
	case "cookTime":
		return r.CookTime, nil
	case "totalTime":
		return r.TotalTime(), nil
	case "servings":
		return r.Servings, nil
	case "ownerId":
		return r.OwnerID.String(), nil
	case "createdAt":
		return r.CreatedAt, nil
	}
	return nil, fmt.Errorf("memstore: unknown field %q", field)
}

// compare returns -1, 0 or 1.
func compare(a, b any) int {
	switch av := a.(type) {
	case int:
		bv := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		return av.Compare(b.(time.Time))
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

func matches(r *entities.Recipe, filter []query.Expr) (bool, error) {
	for _, e := range filter {
		switch e := e.(type) {
		case query.Equals:
			v, err := fieldValue(r, e.Field)
			if err != nil {
				return false, err
			}
			if compare(v, e.Value) != 0 {
				return false, nil
			}
		case query.Range:
			v, err := fieldValue(r, e.Field)
			if err != nil {
				return false, err
			}
			c := compare(v, e.Value)
			ok := map[query.Op]bool{
				query.OpGt:  c > 0,
				query.OpGte: c >= 0,
				query.OpLt:  c < 0,
				query.OpLte: c <= 0,
			}[e.Op]
			if !ok {
				return false, nil
			}
		case query.SetMembership:
			v, err := fieldValue(r, e.Field)
			if err != nil {
				return false, err
			}
			found := false
			for _, candidate := range e.Values {
				if compare(v, candidate) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		case query.TextMatch:
			text := strings.ToLower(strings.Join(append([]string{r.Title, r.Category, r.Cuisine}, r.Ingredients...), " "))
			for _, term := range strings.Fields(strings.ToLower(e.Terms)) {
				if !strings.Contains(text, term) {
					return false, nil
				}
			}
		default:
			return false, fmt.Errorf("memstore: unsupported expression %T", e)
		}
	}
	return true, nil
}

func less(a, b *entities.Recipe, keys []query.SortKey) bool {
	for _, k := range keys {
		av, _ := fieldValue(a, k.Field)
		bv, _ := fieldValue(b, k.Field)
		c := compare(av, bv)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return a.ID.String() < b.ID.String()
}
