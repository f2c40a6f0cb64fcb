package domain

import (
	"time"
)

var (
	MessageSuccessGetRecipes        = "success get recipes"
	MessageSuccessGetRecipeDetail   = "success get recipe detail"
	MessageSuccessCreateRecipe      = "recipe created successfully"
	MessageSuccessUpdateRecipe      = "recipe updated successfully"
	MessageSuccessDeleteRecipe      = "recipe deleted successfully"
	MessageSuccessAddFavorite       = "recipe added to favorites"
	MessageSuccessRemoveFavorite    = "recipe removed from favorites"
	MessageSuccessAddShoppingCart   = "recipe added to shopping cart"
	MessageSuccessRemoveShopping    = "recipe removed from shopping cart"
	MessageSuccessSendShoppingList  = "shopping list sent successfully"
	MessageSuccessGetShoppingList   = "success get shopping list"
	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedAddFavorite        = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite     = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShopping   = "failed to download shopping list"
	MessageFailedSendShoppingList   = "failed to send shopping list"

	ErrRecipeNotFound           = NewNotFoundError("recipe not found")
	ErrUnauthorizedRecipeAccess = NewForbiddenError("only the author can change this recipe")
	ErrRecipeAlreadyAdded       = NewConflictError("already added")
	ErrRecipeAlreadyRemoved     = NewConflictError("already removed")
	ErrIngredientsRequired      = NewValidationError("ingredients", "at least one ingredient is required")
	ErrIngredientsNotUnique     = NewValidationError("ingredients", "ingredients must be unique")
	ErrTagsNotUnique            = NewValidationError("tags", "tags must be unique")
	ErrRecipeImageRequired      = NewValidationError("image", "image is required")
	ErrRecipeImageInvalid       = NewValidationError("image", "image must be a base64 encoded data URI")
)

const ShoppingListTitle = "Shopping list"

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount"`
	}

	RecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
		Tags        []string                  `json:"tags" validate:"dive,uuid"`
		Image       string                    `json:"image"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time"`
	}

	RecipeFilter struct {
		AuthorID         string
		Tags             []string
		IsFavorited      bool
		IsInShoppingCart bool
		PageRequest
	}

	RecipeLimits struct {
		CookingTimeMin int
		CookingTimeMax int
		AmountMin      int
		AmountMax      int
	}

	RecipeIngredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               string             `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           UserProfile        `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
		PubDate          time.Time          `json:"pub_date"`
	}

	RecipeMinified struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Results    []Recipe   `json:"results"`
		Pagination Pagination `json:"pagination"`
	}

	ShoppingListLine struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}
)

func DefaultRecipeLimits() RecipeLimits {
	return RecipeLimits{
		CookingTimeMin: 1,
		CookingTimeMax: 3200,
		AmountMin:      0,
		AmountMax:      32000,
	}
}
