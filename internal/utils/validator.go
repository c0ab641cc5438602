package utils

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"recipe-organizer/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator with the recipe enum tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("recipe_category", oneOfValidator(domain.RecipeCategories))
	_ = v.RegisterValidation("recipe_cuisine", oneOfValidator(domain.RecipeCuisines))
	_ = v.RegisterValidation("recipe_difficulty", oneOfValidator(domain.RecipeDifficulty))
	return v
}

func oneOfValidator(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// ValidationMessages turns validator output into one readable line per field.
func ValidationMessages(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "recipe_category":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.RecipeCategories, ", "))
	case "recipe_cuisine":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.RecipeCuisines, ", "))
	case "recipe_difficulty":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.RecipeDifficulty, ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	switch s {
	case "ImageURL":
		return "imageUrl"
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ValidateStruct runs the validator and maps failures to a VALIDATION_ERROR.
func ValidateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return domain.ErrValidation.WithErrors(ValidationMessages(err))
	}
	return nil
}
