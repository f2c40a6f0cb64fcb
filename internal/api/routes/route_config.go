package routes

import (
	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	RecipeHandler       handlers.RecipeHandler
	TagHandler          handlers.TagHandler
	IngredientHandler   handlers.IngredientHandler
	SubscriptionHandler handlers.SubscriptionHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Tags()
	c.Ingredients()
	c.Recipes()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	auth.Post("/login", c.UserHandler.Login)
	auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
}

func (c *Config) User() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	// fixed paths go before /:id
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", optional, c.UserHandler.GetUsers)
		user.Get("/me", required, c.UserHandler.Me)
		user.Post("/set_password", required, c.UserHandler.SetPassword)
		user.Get("/subscriptions", required, c.SubscriptionHandler.GetSubscriptions)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", required, c.SubscriptionHandler.Subscribe)
		user.Delete("/:id/subscribe", required, c.SubscriptionHandler.Unsubscribe)
	}
}

func (c *Config) Tags() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminMiddleware()

	tags := c.App.Group("/api/tags")
	tags.Get("", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)
	tags.Post("", required, admin, c.TagHandler.CreateTag)
	tags.Patch("/:id", required, admin, c.TagHandler.UpdateTag)
	tags.Delete("/:id", required, admin, c.TagHandler.DeleteTag)
}

func (c *Config) Ingredients() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	admin := c.Middleware.AdminMiddleware()

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
	ingredients.Post("", required, admin, c.IngredientHandler.CreateIngredient)
	ingredients.Patch("/:id", required, admin, c.IngredientHandler.UpdateIngredient)
	ingredients.Delete("/:id", required, admin, c.IngredientHandler.DeleteIngredient)
}

func (c *Config) Recipes() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("", optional, c.RecipeHandler.GetRecipes)
		recipes.Post("", required, c.RecipeHandler.CreateRecipe)

		recipes.Get("/shopping_cart", required, c.RecipeHandler.GetShoppingList)
		recipes.Get("/shopping_cart/download", required, c.RecipeHandler.DownloadShoppingCart)
		recipes.Get("/download_shopping_cart", required, c.RecipeHandler.DownloadShoppingCart)
		recipes.Post("/shopping_cart/send", required, c.RecipeHandler.SendShoppingCart)

		recipes.Get("/:id", optional, c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", required, c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite", required, c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", required, c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", required, c.RecipeHandler.AddToShoppingCart)
		recipes.Delete("/:id/shopping_cart", required, c.RecipeHandler.RemoveFromShoppingCart)
	}
}
