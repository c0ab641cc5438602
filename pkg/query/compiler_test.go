package query

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"recipe-organizer/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileListDefaults(t *testing.T) {
	q, err := Recipes.CompileList(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 0, q.Skip)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, []SortKey{{Field: "createdAt", Desc: true}}, q.Sort)
	assert.Empty(t, q.Filter)
	assert.Nil(t, q.Select)
}

func TestCompileListWindow(t *testing.T) {
	tests := []struct {
		page, limit string
		wantPage    int
		wantLimit   int
		wantSkip    int
	}{
		{"2", "5", 2, 5, 5},
		{"3", "", 3, 10, 20},
		{"0", "0", 1, 10, 0},
		{"-4", "-1", 1, 10, 0},
		{"abc", "xyz", 1, 10, 0},
		{"1", "1000", 1, 100, 0},
		{"2", "100", 2, 100, 100},
		{"9223372036854775807", "10", MaxPage, 10, (MaxPage - 1) * 10},
		{"99999999999999999999", "10", 1, 10, 0},
		{"21474837", "100", MaxPage, 100, (MaxPage - 1) * 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%s,limit=%s", tt.page, tt.limit), func(t *testing.T) {
			q, err := Recipes.CompileList(map[string]string{"page": tt.page, "limit": tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantSkip, q.Skip)
		})
	}
}

func TestCompileListFilters(t *testing.T) {
	q, err := Recipes.CompileList(map[string]string{
		"category":      "Dessert",
		"prepTime[lte]": "30",
		"cookTime[gt]":  "5",
		"cuisine[in]":   "italian, french",
		"page":          "1",
	})
	require.NoError(t, err)

	assert.Equal(t, []Expr{
		Equals{Field: "category", Value: "dessert"},
		Range{Field: "cookTime", Op: OpGt, Value: 5},
		SetMembership{Field: "cuisine", Values: []any{"italian", "french"}},
		Range{Field: "prepTime", Op: OpLte, Value: 30},
	}, q.Filter)
}

func TestCompileListCoercesTypes(t *testing.T) {
	q, err := Recipes.CompileList(map[string]string{
		"ownerId":        "5B0F6F3E-8A53-4D4C-9C2B-0F3F7C3A8E11",
		"createdAt[gte]": "2024-01-02",
	})
	require.NoError(t, err)
	require.Len(t, q.Filter, 2)

	assert.Equal(t, Range{Field: "createdAt", Op: OpGte, Value: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}, q.Filter[0])
	assert.Equal(t, Equals{Field: "ownerId", Value: "5b0f6f3e-8a53-4d4c-9c2b-0f3f7c3a8e11"}, q.Filter[1])
}

func TestCompileListRejects(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown field":            {"password": "x"},
		"unknown field with op":    {"role[in]": "admin"},
		"unknown operator":         {"prepTime[ne]": "3"},
		"operator on enum":         {"category[gt]": "lunch"},
		"bad enum":                 {"difficulty": "impossible"},
		"bad int":                  {"servings": "four"},
		"negative int":             {"servings[gte]": "-1"},
		"bad uuid":                 {"ownerId": "1234"},
		"bad time":                 {"createdAt[lt]": "yesterday"},
		"operator injection value": {"title": "{\"$ne\":null}"},
		"dollar value":             {"title": "$where"},
		"bracket value":            {"title": "a[b]"},
		"nul value":                {"title": "a\x00b"},
		"nested key":               {"prepTime[lte][gt]": "1"},
		"dangling bracket":         {"prepTime]": "1"},
		"bare bracket key":         {"[gt]": "1"},
		"unknown sort field":       {"sort": "passwordHash"},
		"unsortable field":         {"sort": "ownerId"},
		"unknown select field":     {"select": "title,passwordHash"},
		"empty set":                {"category[in]": " , "},
		"oversized set":            {"servings[in]": strings.Repeat("1,", MaxSetSize) + "1"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Recipes.CompileList(params)
			assert.ErrorIs(t, err, domain.ErrInvalidQuery)
		})
	}
}

func TestCompileListSortAndSelect(t *testing.T) {
	q, err := Recipes.CompileList(map[string]string{
		"sort":   "-prepTime, title,-prepTime",
		"select": "title,cuisine,title",
	})
	require.NoError(t, err)

	assert.Equal(t, []SortKey{{Field: "prepTime", Desc: true}, {Field: "title"}}, q.Sort)
	assert.Equal(t, []string{"id", "title", "cuisine"}, q.Select)
}

func TestPaginate(t *testing.T) {
	first, err := Recipes.CompileList(map[string]string{"page": "1", "limit": "5"})
	require.NoError(t, err)
	p := first.Paginate(12)
	assert.Equal(t, &domain.PageRef{Page: 2, Limit: 5}, p.Next)
	assert.Nil(t, p.Prev)

	middle, err := Recipes.CompileList(map[string]string{"page": "2", "limit": "5"})
	require.NoError(t, err)
	p = middle.Paginate(12)
	assert.Equal(t, &domain.PageRef{Page: 3, Limit: 5}, p.Next)
	assert.Equal(t, &domain.PageRef{Page: 1, Limit: 5}, p.Prev)

	last, err := Recipes.CompileList(map[string]string{"page": "3", "limit": "5"})
	require.NoError(t, err)
	p = last.Paginate(12)
	assert.Nil(t, p.Next)
	assert.Equal(t, &domain.PageRef{Page: 2, Limit: 5}, p.Prev)

	exact, err := Recipes.CompileList(map[string]string{"page": "2", "limit": "6"})
	require.NoError(t, err)
	assert.Nil(t, exact.Paginate(12).Next)

	assert.Equal(t, domain.Pagination{}, first.Paginate(0))

	far, err := Recipes.CompileList(map[string]string{"page": "9223372036854775807", "limit": "10"})
	require.NoError(t, err)
	p = far.Paginate(50)
	assert.Nil(t, p.Next)
	assert.Equal(t, &domain.PageRef{Page: MaxPage - 1, Limit: 10}, p.Prev)
	assert.Positive(t, far.Skip)
}
