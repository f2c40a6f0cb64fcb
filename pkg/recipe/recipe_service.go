package recipe

import (
	"context"
	"errors"
	"fmt"
	"html"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/logging"
	"foodgram-backend/internal/telemetry"
	"foodgram-backend/internal/utils/document"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	FormatPDF  = "pdf"
	FormatText = "txt"

	imageFolder          = "recipes"
	shoppingListFileName = "shopping_cart"
)

type (
	ShoppingListFile struct {
		FileName    string
		ContentType string
		Data        []byte
	}

	RecipeService interface {
		GetRecipes(ctx context.Context, viewerID string, filter domain.RecipeFilter) (domain.RecipeListResponse, error)
		GetRecipeDetail(ctx context.Context, viewerID string, recipeID string) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, authorID string, req domain.RecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, userID string, recipeID string, req domain.RecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, userID string, recipeID string) error

		AddFavorite(ctx context.Context, userID string, recipeID string) (domain.RecipeMinified, error)
		RemoveFavorite(ctx context.Context, userID string, recipeID string) error
		AddToShoppingCart(ctx context.Context, userID string, recipeID string) (domain.RecipeMinified, error)
		RemoveFromShoppingCart(ctx context.Context, userID string, recipeID string) error

		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		DownloadShoppingList(ctx context.Context, userID string, format string) (ShoppingListFile, error)
		SendShoppingList(ctx context.Context, userID string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		userRepository   user.UserRepository
		s3               storage.AwsS3
		mailer           mailing.Mailer
		limits           domain.RecipeLimits
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	limits domain.RecipeLimits,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		s3:               s3,
		mailer:           mailer,
		limits:           limits,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, viewerID string, filter domain.RecipeFilter) (domain.RecipeListResponse, error) {
	viewer := user.ViewerID(viewerID)

	query := RecipeFilter{
		TagSlugs: filter.Tags,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	if filter.AuthorID != "" {
		authorID, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return domain.RecipeListResponse{}, domain.NewValidationError("author", "invalid author id")
		}
		query.AuthorID = authorID
	}
	// viewer-relative filters mean nothing to an anonymous viewer
	if viewer != uuid.Nil {
		if filter.IsFavorited {
			query.FavoritedBy = viewer
		}
		if filter.IsInShoppingCart {
			query.InShoppingCartOf = viewer
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, viewer, query)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	results := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, toRecipe(r))
	}
	return domain.RecipeListResponse{
		Results:    results,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, count),
	}, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, viewerID string, recipeID string) (domain.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, user.ViewerID(viewerID), id)
	if err != nil {
		if isNotFound(err) {
			return domain.Recipe{}, domain.ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}
	return toRecipe(recipe), nil
}

// prepare validates the payload and resolves it into recipe ingredients and
// tag ids, checking that every referenced catalog row exists.
func (s *recipeService) prepare(ctx context.Context, req domain.RecipeRequest) ([]*entities.RecipeIngredient, []uuid.UUID, error) {
	if err := ValidateRecipe(req, s.limits); err != nil {
		return nil, nil, err
	}

	ingredients := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, nil, domain.NewValidationError("ingredients", fmt.Sprintf("invalid id %q", item.ID))
		}
		ingredientIDs = append(ingredientIDs, id)
		ingredients = append(ingredients, &entities.RecipeIngredient{
			IngredientID: id,
			Amount:       item.Amount,
		})
	}

	tagIDs, err := parseIDs("tags", req.Tags)
	if err != nil {
		return nil, nil, err
	}

	count, err := s.recipeRepository.CountIngredients(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if count != int64(len(ingredientIDs)) {
		return nil, nil, domain.ErrIngredientNotFound
	}

	if len(tagIDs) > 0 {
		count, err = s.recipeRepository.CountTags(ctx, tagIDs)
		if err != nil {
			return nil, nil, err
		}
		if count != int64(len(tagIDs)) {
			return nil, nil, domain.ErrTagNotFound
		}
	}

	return ingredients, tagIDs, nil
}

func (s *recipeService) uploadImage(ctx context.Context, image string) (string, error) {
	payload, err := storage.ParseDataURI(image)
	if err != nil {
		return "", domain.ErrRecipeImageInvalid
	}

	fileName := fmt.Sprintf("%s.%s", uuid.NewString(), payload.Extension())
	objectKey, err := s.s3.UploadFile(ctx, fileName, payload.Data, payload.ContentType, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", domain.ErrRecipeImageInvalid
		}
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) removeImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	if key := s.s3.GetObjectKeyFromLink(imageURL); key != "" {
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			logging.Warn(ctx, "failed to delete recipe image", "key", key, "error", err)
		}
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID string, req domain.RecipeRequest) (domain.Recipe, error) {
	author := user.ViewerID(authorID)
	if author == uuid.Nil {
		return domain.Recipe{}, domain.ErrUserNotAllowed
	}
	if req.Image == "" {
		return domain.Recipe{}, domain.ErrRecipeImageRequired
	}

	ingredients, tagIDs, err := s.prepare(ctx, req)
	if err != nil {
		return domain.Recipe{}, err
	}

	imageURL, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		Ingredients: ingredients,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tagIDs); err != nil {
		s.removeImage(ctx, imageURL)
		if isDuplicate(err) {
			return domain.Recipe{}, domain.ErrIngredientsNotUnique
		}
		return domain.Recipe{}, err
	}

	telemetry.RecipesCreated.Add(ctx, 1)
	logging.Info(ctx, "recipe created", "recipe_id", recipe.ID.String(), "author_id", authorID)
	return s.GetRecipeDetail(ctx, authorID, recipe.ID.String())
}

func (s *recipeService) ownedRecipe(ctx context.Context, userID string, recipeID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.FindRecipe(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != user.ViewerID(userID) {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID string, recipeID string, req domain.RecipeRequest) (domain.Recipe, error) {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}

	ingredients, tagIDs, err := s.prepare(ctx, req)
	if err != nil {
		return domain.Recipe{}, err
	}

	oldImage := recipe.ImageURL
	if req.Image != "" {
		recipe.ImageURL, err = s.uploadImage(ctx, req.Image)
		if err != nil {
			return domain.Recipe{}, err
		}
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Ingredients = ingredients

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tagIDs); err != nil {
		if recipe.ImageURL != oldImage {
			s.removeImage(ctx, recipe.ImageURL)
		}
		if isNotFound(err) {
			return domain.Recipe{}, domain.ErrRecipeNotFound
		}
		if isDuplicate(err) {
			return domain.Recipe{}, domain.ErrIngredientsNotUnique
		}
		return domain.Recipe{}, err
	}
	if recipe.ImageURL != oldImage {
		s.removeImage(ctx, oldImage)
	}

	logging.Info(ctx, "recipe updated", "recipe_id", recipeID)
	return s.GetRecipeDetail(ctx, userID, recipeID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID string, recipeID string) error {
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		if isNotFound(err) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	s.removeImage(ctx, recipe.ImageURL)

	telemetry.RecipesDeleted.Add(ctx, 1)
	logging.Info(ctx, "recipe deleted", "recipe_id", recipeID)
	return nil
}

type relation struct {
	add    func(ctx context.Context, userID, recipeID uuid.UUID) error
	remove func(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

func (s *recipeService) favorites() relation {
	return relation{s.recipeRepository.AddFavorite, s.recipeRepository.RemoveFavorite}
}

func (s *recipeService) shoppingCart() relation {
	return relation{s.recipeRepository.AddToShoppingCart, s.recipeRepository.RemoveFromShoppingCart}
}

func (s *recipeService) findForToggle(ctx context.Context, userID string, recipeID string) (uuid.UUID, *entities.Recipe, error) {
	viewer := user.ViewerID(userID)
	if viewer == uuid.Nil {
		return uuid.Nil, nil, domain.ErrUserNotAllowed
	}
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return uuid.Nil, nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.FindRecipe(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return uuid.Nil, nil, domain.ErrRecipeNotFound
		}
		return uuid.Nil, nil, err
	}
	return viewer, recipe, nil
}

func (s *recipeService) addRelation(ctx context.Context, rel relation, userID string, recipeID string) (domain.RecipeMinified, error) {
	viewer, recipe, err := s.findForToggle(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeMinified{}, err
	}
	if err := rel.add(ctx, viewer, recipe.ID); err != nil {
		if isDuplicate(err) {
			return domain.RecipeMinified{}, domain.ErrRecipeAlreadyAdded
		}
		return domain.RecipeMinified{}, err
	}
	return ToMinified(recipe), nil
}

func (s *recipeService) removeRelation(ctx context.Context, rel relation, userID string, recipeID string) error {
	viewer, recipe, err := s.findForToggle(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	removed, err := rel.remove(ctx, viewer, recipe.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrRecipeAlreadyRemoved
	}
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID string, recipeID string) (domain.RecipeMinified, error) {
	res, err := s.addRelation(ctx, s.favorites(), userID, recipeID)
	if err == nil {
		telemetry.FavoritesAdded.Add(ctx, 1)
	}
	return res, err
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID string, recipeID string) error {
	err := s.removeRelation(ctx, s.favorites(), userID, recipeID)
	if err == nil {
		telemetry.FavoritesRemoved.Add(ctx, 1)
	}
	return err
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, userID string, recipeID string) (domain.RecipeMinified, error) {
	res, err := s.addRelation(ctx, s.shoppingCart(), userID, recipeID)
	if err == nil {
		telemetry.CartEntriesAdded.Add(ctx, 1)
	}
	return res, err
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, userID string, recipeID string) error {
	err := s.removeRelation(ctx, s.shoppingCart(), userID, recipeID)
	if err == nil {
		telemetry.CartEntriesRemoved.Add(ctx, 1)
	}
	return err
}

func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	viewer := user.ViewerID(userID)
	if viewer == uuid.Nil {
		return nil, domain.ErrUserNotAllowed
	}
	lines, err := s.recipeRepository.GetShoppingCartLines(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return Aggregate(lines), nil
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, userID string, format string) (ShoppingListFile, error) {
	items, err := s.GetShoppingList(ctx, userID)
	if err != nil {
		return ShoppingListFile{}, err
	}

	var file ShoppingListFile
	switch format {
	case "", FormatPDF:
		data, err := document.RenderShoppingListPDF(domain.ShoppingListTitle, items)
		if err != nil {
			return ShoppingListFile{}, err
		}
		file = ShoppingListFile{
			FileName:    shoppingListFileName + "." + FormatPDF,
			ContentType: document.PDFContentType,
			Data:        data,
		}
	case FormatText:
		file = ShoppingListFile{
			FileName:    shoppingListFileName + "." + FormatText,
			ContentType: document.TextContentType,
			Data:        document.RenderShoppingListText(domain.ShoppingListTitle, items),
		}
	default:
		return ShoppingListFile{}, domain.NewValidationError("format", "format must be pdf or txt")
	}

	telemetry.ShoppingListRendered.Add(ctx, 1, telemetry.WithAttributes(attribute.String("format", file.ContentType)))
	return file, nil
}

func (s *recipeService) SendShoppingList(ctx context.Context, userID string) error {
	viewer := user.ViewerID(userID)
	owner, err := s.userRepository.GetUserByID(ctx, viewer, viewer)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return err
	}

	file, err := s.DownloadShoppingList(ctx, userID, FormatPDF)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("<p>Hello, %s!</p><p>Your shopping list is attached.</p>", html.EscapeString(owner.FirstName))
	if err := s.mailer.SendMail(ctx, owner.Email, domain.ShoppingListTitle, body, mailing.Attachment{
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Data:        file.Data,
	}); err != nil {
		logging.Error(ctx, "failed to send shopping list", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func ToMinified(r *entities.Recipe) domain.RecipeMinified {
	return domain.RecipeMinified{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

func toRecipe(r *entities.Recipe) domain.Recipe {
	tags := make([]domain.Tag, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, domain.Tag{
			ID:    t.ID.String(),
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	ingredients := make([]domain.RecipeIngredient, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		item := domain.RecipeIngredient{
			ID:     ri.IngredientID.String(),
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	author := user.ToProfile(r.Author)
	author.IsSubscribed = r.AuthorFollowed

	return domain.Recipe{
		ID:               r.ID.String(),
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}
