package ingredient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/logging"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const loadBatchSize = 500

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, search string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id string) (domain.Ingredient, error)
		CreateIngredient(ctx context.Context, req domain.IngredientRequest) (domain.Ingredient, error)
		UpdateIngredient(ctx context.Context, id string, req domain.IngredientRequest) (domain.Ingredient, error)
		DeleteIngredient(ctx context.Context, id string) error
		LoadIngredients(ctx context.Context, r io.Reader) (int64, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func toIngredient(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrIngredientNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrIngredientExists
	default:
		return err
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, search string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	res := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, toIngredient(i))
	}
	return res, nil
}

func (s *ingredientService) find(ctx context.Context, id string) (*entities.Ingredient, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrIngredientNotFound
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		return nil, mapError(err)
	}
	return ingredient, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.Ingredient, error) {
	ingredient, err := s.find(ctx, id)
	if err != nil {
		return domain.Ingredient{}, err
	}
	return toIngredient(ingredient), nil
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.IngredientRequest) (domain.Ingredient, error) {
	ingredient := &entities.Ingredient{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}
	if err := s.ingredientRepository.CreateIngredient(ctx, ingredient); err != nil {
		return domain.Ingredient{}, mapError(err)
	}
	return toIngredient(ingredient), nil
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, id string, req domain.IngredientRequest) (domain.Ingredient, error) {
	ingredient, err := s.find(ctx, id)
	if err != nil {
		return domain.Ingredient{}, err
	}
	ingredient.Name = strings.TrimSpace(req.Name)
	ingredient.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := s.ingredientRepository.UpdateIngredient(ctx, ingredient); err != nil {
		return domain.Ingredient{}, mapError(err)
	}
	return toIngredient(ingredient), nil
}

func (s *ingredientService) DeleteIngredient(ctx context.Context, id string) error {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrIngredientNotFound
	}
	return mapError(s.ingredientRepository.DeleteIngredient(ctx, ingredientID))
}

// LoadIngredients reads a JSON array of {name, measurement_unit} objects and
// inserts the entries that are not in the catalog yet.
func (s *ingredientService) LoadIngredients(ctx context.Context, r io.Reader) (int64, error) {
	var rows []domain.IngredientRequest
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return 0, domain.ErrIngredientsFile
	}

	seen := make(map[[2]string]struct{}, len(rows))
	ingredients := make([]*entities.Ingredient, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		unit := strings.TrimSpace(row.MeasurementUnit)
		if name == "" || unit == "" {
			return 0, domain.ErrIngredientsFile
		}
		key := [2]string{name, unit}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ingredients = append(ingredients, &entities.Ingredient{
			ID:              uuid.New(),
			Name:            name,
			MeasurementUnit: unit,
		})
	}

	inserted, err := s.ingredientRepository.BulkCreateIngredients(ctx, ingredients, loadBatchSize)
	if err != nil {
		return 0, err
	}
	logging.Info(ctx, "ingredients loaded", "read", len(rows), "inserted", inserted)
	return inserted, nil
}
