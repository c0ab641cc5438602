package recipe

import (
	"fmt"
	"slices"
	"strings"

	"recipe-organizer/pkg/query"
)

// Logical field name to SQL expression on the recipes table.
var recipeColumns = map[string]string{
	"id":           "id",
	"title":        "title",
	"category":     "category",
	"cuisine":      "cuisine",
	"ingredients":  "ingredients",
	"instructions": "instructions",
	"prepTime":     "prep_time",
	"cookTime":     "cook_time",
	"totalTime":    "(prep_time + cook_time)",
	"servings":     "servings",
	"difficulty":   "difficulty",
	"imageUrl":     "image_url",
	"ownerId":      "owner_id",
	"createdAt":    "created_at",
}

// searchVector must match the expression indexed by the migration.
const searchVector = "recipe_search_vector(title, ingredients, category, cuisine)"

var rangeOps = map[query.Op]string{
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

type sqlClause struct {
	SQL  string
	Args []any
}

func column(field string) (string, error) {
	col, ok := recipeColumns[field]
	if !ok {
		return "", fmt.Errorf("no column for field %q", field)
	}
	return col, nil
}

// translateFilter renders each expression as a parameterized WHERE clause.
func translateFilter(exprs []query.Expr) ([]sqlClause, error) {
	clauses := make([]sqlClause, 0, len(exprs))
	for _, e := range exprs {
		switch e := e.(type) {
		case query.Equals:
			col, err := column(e.Field)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, sqlClause{SQL: col + " = ?", Args: []any{e.Value}})
		case query.Range:
			col, err := column(e.Field)
			if err != nil {
				return nil, err
			}
			op, ok := rangeOps[e.Op]
			if !ok {
				return nil, fmt.Errorf("unsupported range operator %q", e.Op)
			}
			clauses = append(clauses, sqlClause{SQL: fmt.Sprintf("%s %s ?", col, op), Args: []any{e.Value}})
		case query.SetMembership:
			col, err := column(e.Field)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, sqlClause{SQL: col + " IN ?", Args: []any{e.Values}})
		case query.TextMatch:
			clauses = append(clauses, sqlClause{
				SQL:  searchVector + " @@ plainto_tsquery('simple', ?)",
				Args: []any{e.Terms},
			})
		default:
			return nil, fmt.Errorf("unsupported expression %T", e)
		}
	}
	return clauses, nil
}

// translateSort renders an ORDER BY list. id is appended so pages are stable
// when the sort keys tie.
func translateSort(keys []query.SortKey) (string, error) {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		col, err := column(k.Field)
		if err != nil {
			return "", err
		}
		if k.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	parts = append(parts, "id")
	return strings.Join(parts, ", "), nil
}

// translateSelect lists the table columns needed to render the selected
// fields. Nil means all columns.
func translateSelect(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	cols := []string{"id"}
	add := func(c string) {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	for _, f := range fields {
		switch f {
		case "totalTime":
			add("prep_time")
			add("cook_time")
		default:
			col, err := column(f)
			if err != nil {
				return nil, err
			}
			add(col)
		}
	}
	return cols, nil
}
