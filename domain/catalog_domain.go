package domain

var (
	MessageSuccessGetTags          = "success get tags"
	MessageSuccessGetTag           = "success get tag"
	MessageSuccessCreateTag        = "tag created successfully"
	MessageSuccessUpdateTag        = "tag updated successfully"
	MessageSuccessDeleteTag        = "tag deleted successfully"
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessGetIngredient    = "success get ingredient"
	MessageSuccessCreateIngredient = "ingredient created successfully"
	MessageSuccessUpdateIngredient = "ingredient updated successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"
	MessageFailedGetTags           = "failed to get tags"
	MessageFailedSaveTag           = "failed to save tag"
	MessageFailedDeleteTag         = "failed to delete tag"
	MessageFailedGetIngredients    = "failed to get ingredients"
	MessageFailedSaveIngredient    = "failed to save ingredient"
	MessageFailedDeleteIngredient  = "failed to delete ingredient"
	MessageSuccessLoadIngredients  = "ingredients loaded successfully"

	ErrTagNotFound        = NewNotFoundError("tag not found")
	ErrTagSlugTaken       = NewConflictError("tag with this slug already exists")
	ErrIngredientNotFound = NewNotFoundError("ingredient not found")
	ErrIngredientExists   = NewConflictError("ingredient with this name and measurement unit already exists")
	ErrIngredientsFile    = NewValidationError("file", "ingredients file must be a JSON array of {name, measurement_unit}")
)

type (
	TagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Color string `json:"color" validate:"required,hexcolor,max=7"`
		Slug  string `json:"slug" validate:"required,max=200,slug"`
	}

	Tag struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	IngredientRequest struct {
		Name            string `json:"name" validate:"required,max=200"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
	}

	Ingredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
