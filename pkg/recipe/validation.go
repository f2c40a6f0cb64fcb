package recipe

import (
	"fmt"

	"foodgram-backend/domain"
	"foodgram-backend/internal/utils"

	"github.com/google/uuid"
)

func LoadRecipeLimits() domain.RecipeLimits {
	def := domain.DefaultRecipeLimits()
	return domain.RecipeLimits{
		CookingTimeMin: utils.GetConfigInt("COOKING_TIME_MIN", def.CookingTimeMin),
		CookingTimeMax: utils.GetConfigInt("COOKING_TIME_MAX", def.CookingTimeMax),
		AmountMin:      utils.GetConfigInt("AMOUNT_MIN", def.AmountMin),
		AmountMax:      utils.GetConfigInt("AMOUNT_MAX", def.AmountMax),
	}
}

// ValidateRecipe checks the business rules of a recipe payload and returns the
// first violation found.
func ValidateRecipe(req domain.RecipeRequest, limits domain.RecipeLimits) error {
	if len(req.Ingredients) == 0 {
		return domain.ErrIngredientsRequired
	}

	seen := make(map[string]struct{}, len(req.Ingredients))
	for _, item := range req.Ingredients {
		key := canonicalID(item.ID)
		if _, ok := seen[key]; ok {
			return domain.ErrIngredientsNotUnique
		}
		seen[key] = struct{}{}

		// both ends are exclusive
		if item.Amount <= limits.AmountMin || item.Amount >= limits.AmountMax {
			return domain.NewValidationError("ingredients", fmt.Sprintf(
				"amount must be greater than %d and less than %d", limits.AmountMin, limits.AmountMax))
		}
	}

	if req.CookingTime < limits.CookingTimeMin || req.CookingTime > limits.CookingTimeMax {
		return domain.NewValidationError("cooking_time", fmt.Sprintf(
			"cooking time must be between %d and %d minutes", limits.CookingTimeMin, limits.CookingTimeMax))
	}

	tags := make(map[string]struct{}, len(req.Tags))
	for _, tag := range req.Tags {
		key := canonicalID(tag)
		if _, ok := tags[key]; ok {
			return domain.ErrTagsNotUnique
		}
		tags[key] = struct{}{}
	}
	return nil
}

func canonicalID(s string) string {
	if id, err := uuid.Parse(s); err == nil {
		return id.String()
	}
	return s
}

func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, domain.NewValidationError(field, fmt.Sprintf("invalid id %q", s))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
