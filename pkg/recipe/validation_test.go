package recipe

import (
	"strings"
	"testing"

	"foodgram-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flourID = "0f8e4a4e-1c1b-4d5e-9a55-2d6a0b0c0d01"
	eggID   = "0f8e4a4e-1c1b-4d5e-9a55-2d6a0b0c0d02"
	tagID   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func validRequest() domain.RecipeRequest {
	return domain.RecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flourID, Amount: 200},
			{ID: eggID, Amount: 2},
		},
		Tags:        []string{tagID},
		Image:       "data:image/png;base64,aGVsbG8=",
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func TestValidateRecipeAcceptsValidPayload(t *testing.T) {
	assert.NoError(t, ValidateRecipe(validRequest(), domain.DefaultRecipeLimits()))
}

func TestValidateRecipeRules(t *testing.T) {
	limits := domain.DefaultRecipeLimits()

	cases := []struct {
		name   string
		mutate func(r *domain.RecipeRequest)
		field  string
		msg    string
	}{
		{"no ingredients", func(r *domain.RecipeRequest) { r.Ingredients = nil }, "ingredients", "at least one"},
		{"duplicate ingredient", func(r *domain.RecipeRequest) { r.Ingredients[1].ID = flourID }, "ingredients", "unique"},
		{"duplicate ingredient different case", func(r *domain.RecipeRequest) { r.Ingredients[1].ID = strings.ToUpper(flourID) }, "ingredients", "unique"},
		{"zero amount", func(r *domain.RecipeRequest) { r.Ingredients[0].Amount = 0 }, "ingredients", "amount"},
		{"amount at upper bound", func(r *domain.RecipeRequest) { r.Ingredients[0].Amount = 32000 }, "ingredients", "amount"},
		{"cooking time too small", func(r *domain.RecipeRequest) { r.CookingTime = 0 }, "cooking_time", "cooking time"},
		{"cooking time too big", func(r *domain.RecipeRequest) { r.CookingTime = 3201 }, "cooking_time", "cooking time"},
		{"duplicate tag", func(r *domain.RecipeRequest) { r.Tags = []string{tagID, tagID} }, "tags", "unique"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := ValidateRecipe(req, limits)
			require.ErrorIs(t, err, domain.ErrValidation)

			var derr *domain.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tc.field, derr.Field)
			assert.Contains(t, derr.Message, tc.msg)
		})
	}
}

func TestValidateRecipeBoundaries(t *testing.T) {
	limits := domain.DefaultRecipeLimits()

	req := validRequest()
	req.CookingTime = limits.CookingTimeMin
	req.Ingredients[0].Amount = limits.AmountMin + 1
	assert.NoError(t, ValidateRecipe(req, limits))

	req.CookingTime = limits.CookingTimeMax
	req.Ingredients[0].Amount = limits.AmountMax - 1
	assert.NoError(t, ValidateRecipe(req, limits))
}
