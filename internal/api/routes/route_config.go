package routes

import (
	"recipe-organizer/domain"
	"recipe-organizer/internal/api/handlers"
	"recipe-organizer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Recipes()
}

func (c *Config) User() {
	user := c.App.Group("/api/users", c.Middleware.RateLimiter())
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/logout", c.UserHandler.Logout)
		user.Get("/me", c.Middleware.AuthMiddleware(), c.UserHandler.Me)
		user.Put("/profile", c.Middleware.AuthMiddleware(), c.UserHandler.UpdateProfile)
		user.Put("/password", c.Middleware.AuthMiddleware(), c.UserHandler.ChangePassword)
	}

	// admin routes
	adminOnly := []fiber.Handler{c.Middleware.AuthMiddleware(), c.Middleware.RequireRoles(domain.RoleAdmin)}
	{
		user.Patch("/:id/activate", append(adminOnly, c.UserHandler.ActivateUser)...)
		user.Patch("/:id/deactivate", append(adminOnly, c.UserHandler.DeactivateUser)...)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/recipes")
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/search", c.RecipeHandler.SearchRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)

	recipes.Post("", c.Middleware.AuthMiddleware(), c.RecipeHandler.CreateRecipe)
	recipes.Put("/:id", c.Middleware.AuthMiddleware(), c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.Middleware.AuthMiddleware(), c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/image", c.Middleware.AuthMiddleware(), c.RecipeHandler.UploadRecipeImage)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "pong"})
	})
}
