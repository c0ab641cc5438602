package migration

import (
	"fmt"

	"recipe-organizer/entities"

	"gorm.io/gorm"
)

// searchVectorFunction wraps the text search expression in an IMMUTABLE
// function so it can back an expression index.
const searchVectorFunction = `
CREATE OR REPLACE FUNCTION recipe_search_vector(title text, ingredients text[], category text, cuisine text)
RETURNS tsvector
LANGUAGE sql IMMUTABLE AS $$
	SELECT to_tsvector('simple',
		coalesce(title, '') || ' ' ||
		coalesce(array_to_string(ingredients, ' '), '') || ' ' ||
		coalesce(category, '') || ' ' ||
		coalesce(cuisine, ''))
$$;`

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		return fmt.Errorf("migrate recipes: %w", err)
	}

	if err := db.Exec(searchVectorFunction).Error; err != nil {
		return fmt.Errorf("create search function: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_recipes_search
		ON recipes USING GIN (recipe_search_vector(title, ingredients, category, cuisine));`).Error; err != nil {
		return fmt.Errorf("create search index: %w", err)
	}

	return nil
}
