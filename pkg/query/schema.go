package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"recipe-organizer/domain"

	"github.com/google/uuid"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeEnum
	TypeInt
	TypeUUID
	TypeTime
)

const maxStringValue = 200

type Field struct {
	Type       FieldType
	Enum       []string
	Filterable bool
	Sortable   bool
}

// Schema is the allow-list of logical field names a client may reference.
// Fields missing from the map can only be selected if listed in Selectable.
type Schema struct {
	Fields      map[string]Field
	Selectable  []string
	DefaultSort []SortKey
}

var Recipes = Schema{
	Fields: map[string]Field{
		"title":      {Type: TypeString, Filterable: true, Sortable: true},
		"category":   {Type: TypeEnum, Enum: domain.RecipeCategories, Filterable: true, Sortable: true},
		"cuisine":    {Type: TypeEnum, Enum: domain.RecipeCuisines, Filterable: true, Sortable: true},
		"difficulty": {Type: TypeEnum, Enum: domain.RecipeDifficulty, Filterable: true, Sortable: true},
		"prepTime":   {Type: TypeInt, Filterable: true, Sortable: true},
		"cookTime":   {Type: TypeInt, Filterable: true, Sortable: true},
		"totalTime":  {Type: TypeInt, Filterable: true, Sortable: true},
		"servings":   {Type: TypeInt, Filterable: true, Sortable: true},
		"ownerId":    {Type: TypeUUID, Filterable: true},
		"createdAt":  {Type: TypeTime, Filterable: true, Sortable: true},
	},
	Selectable: []string{
		"id", "title", "category", "cuisine", "ingredients", "instructions",
		"prepTime", "cookTime", "totalTime", "servings", "difficulty",
		"imageUrl", "ownerId", "createdAt",
	},
	DefaultSort: []SortKey{{Field: "createdAt", Desc: true}},
}

func (f Field) allows(op string) bool {
	switch op {
	case "", "in":
		return true
	case string(OpGt), string(OpGte), string(OpLt), string(OpLte):
		return f.Type == TypeInt || f.Type == TypeTime
	}
	return false
}

func (f Field) coerce(name, raw string) (any, error) {
	if err := checkLiteral(name, raw); err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)

	switch f.Type {
	case TypeString:
		if raw == "" || len(raw) > maxStringValue {
			return nil, invalid("%s must be between 1 and %d characters", name, maxStringValue)
		}
		return raw, nil
	case TypeEnum:
		v := strings.ToLower(raw)
		if !slices.Contains(f.Enum, v) {
			return nil, invalid("%s must be one of: %s", name, strings.Join(f.Enum, ", "))
		}
		return v, nil
	case TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, invalid("%s must be a non-negative integer", name)
		}
		return n, nil
	case TypeUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalid("%s must be a valid id", name)
		}
		return id.String(), nil
	case TypeTime:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, invalid("%s must be an RFC3339 timestamp or a YYYY-MM-DD date", name)
	}
	return nil, invalid("%s cannot be filtered", name)
}

// checkLiteral rejects values that look like query structure rather than data.
func checkLiteral(name, raw string) error {
	if strings.ContainsAny(raw, "${}[]\x00") {
		return invalid("%s contains characters that are not allowed", name)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidQuery.WithMessage("Invalid query parameter: %s", fmt.Sprintf(format, args...))
}
