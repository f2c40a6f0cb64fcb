package recipe

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const annotationSelect = `recipes.*,
	EXISTS (SELECT 1 FROM favorites fav WHERE fav.recipe_id = recipes.id AND fav.user_id = ?) AS is_favorited,
	EXISTS (SELECT 1 FROM shopping_cart_entries sc WHERE sc.recipe_id = recipes.id AND sc.user_id = ?) AS is_in_shopping_cart,
	EXISTS (SELECT 1 FROM follows fo WHERE fo.author_id = recipes.author_id AND fo.user_id = ?) AS author_followed`

type (
	RecipeFilter struct {
		AuthorID         uuid.UUID
		TagSlugs         []string
		FavoritedBy      uuid.UUID
		InShoppingCartOf uuid.UUID
		Page             int
		Limit            int
	}

	RecipeRepository interface {
		GetRecipes(ctx context.Context, viewerID uuid.UUID, filter RecipeFilter) ([]*entities.Recipe, int64, error)
		GetRecipeByID(ctx context.Context, viewerID uuid.UUID, id uuid.UUID) (*entities.Recipe, error)
		FindRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error)
		CountTags(ctx context.Context, ids []uuid.UUID) (int64, error)

		AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
		RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error
		RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		GetShoppingCartLines(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (f RecipeFilter) scope(db *gorm.DB) *gorm.DB {
	if f.AuthorID != uuid.Nil {
		db = db.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		db = db.Where(`EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = recipes.id AND t.slug IN ?)`, f.TagSlugs)
	}
	if f.FavoritedBy != uuid.Nil {
		db = db.Where("EXISTS (SELECT 1 FROM favorites ff WHERE ff.recipe_id = recipes.id AND ff.user_id = ?)", f.FavoritedBy)
	}
	if f.InShoppingCartOf != uuid.Nil {
		db = db.Where("EXISTS (SELECT 1 FROM shopping_cart_entries fc WHERE fc.recipe_id = recipes.id AND fc.user_id = ?)", f.InShoppingCartOf)
	}
	return db
}

// annotated loads recipes with the viewer flags computed in the same statement.
// uuid.Nil never matches a row, so anonymous viewers get false everywhere.
func (r *recipeRepository) annotated(ctx context.Context, viewerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select(annotationSelect, viewerID, viewerID, viewerID).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipes(ctx context.Context, viewerID uuid.UUID, filter RecipeFilter) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (filter.Page - 1) * filter.Limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(filter.scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.annotated(ctx, viewerID).
		Scopes(filter.scope).
		Order("recipes.pub_date desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, viewerID uuid.UUID, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.annotated(ctx, viewerID).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		if err := insertIngredients(tx, recipe); err != nil {
			return err
		}
		return insertTags(tx, recipe.ID, tagIDs)
	})
}

// UpdateRecipe overwrites the recipe fields and replaces its whole ingredient
// and tag sets.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
				"image_url":    recipe.ImageURL,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		if err := insertIngredients(tx, recipe); err != nil {
			return err
		}
		return insertTags(tx, recipe.ID, tagIDs)
	})
}

func insertIngredients(tx *gorm.DB, recipe *entities.Recipe) error {
	if len(recipe.Ingredients) == 0 {
		return nil
	}
	for i, ri := range recipe.Ingredients {
		ri.RecipeID = recipe.ID
		ri.Position = i
		if ri.ID == uuid.Nil {
			ri.ID = uuid.New()
		}
	}
	return tx.Omit("Ingredient").Create(&recipe.Ingredients).Error
}

func insertTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, map[string]any{"recipe_id": recipeID, "tag_id": tagID})
	}
	return tx.Table("recipe_tags").Create(&rows).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) CountTags(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Omit("User", "Recipe").Create(&entities.Favorite{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}).Error
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *recipeRepository) AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Omit("User", "Recipe").Create(&entities.ShoppingCartEntry{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}).Error
}

func (r *recipeRepository) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCartEntry{})
	return res.RowsAffected > 0, res.Error
}

// GetShoppingCartLines returns one row per recipe ingredient of every recipe
// in the cart, in cart insertion order and then ingredient position.
func (r *recipeRepository) GetShoppingCartLines(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error) {
	lines := make([]domain.ShoppingListLine, 0)
	err := r.db.WithContext(ctx).
		Table("shopping_cart_entries sc").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("sc.user_id = ?", userID).
		Order("sc.created_at, sc.id, ri.position").
		Scan(&lines).Error
	return lines, err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
