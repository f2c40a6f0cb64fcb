package subscription

import (
	"context"

	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const previewQuery = `SELECT * FROM (
	SELECT recipes.*, ROW_NUMBER() OVER (PARTITION BY recipes.author_id ORDER BY recipes.pub_date DESC) AS rn
	FROM recipes
	WHERE recipes.author_id IN ?
) ranked
WHERE ranked.rn <= ?
ORDER BY ranked.author_id, ranked.rn`

type (
	SubscriptionRepository interface {
		CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error
		DeleteFollow(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
		GetFollowedAuthors(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.User, int64, error)
		CountRecipes(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
		GetRecipePreviews(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error {
	return r.db.WithContext(ctx).Omit("User", "Author").Create(&entities.Follow{
		ID:       uuid.New(),
		UserID:   userID,
		AuthorID: authorID,
	}).Error
}

func (r *subscriptionRepository) DeleteFollow(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *subscriptionRepository) GetFollowedAuthors(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.User, int64, error) {
	var authors []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Select("users.*, TRUE AS is_subscribed").
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, count, nil
}

func (r *subscriptionRepository) CountRecipes(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// GetRecipePreviews returns up to limit newest recipes per author in a single
// query. A non-positive limit returns every recipe.
func (r *subscriptionRepository) GetRecipePreviews(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error) {
	previews := make(map[uuid.UUID][]*entities.Recipe, len(authorIDs))
	if len(authorIDs) == 0 {
		return previews, nil
	}

	var recipes []*entities.Recipe
	var err error
	if limit > 0 {
		err = r.db.WithContext(ctx).Raw(previewQuery, authorIDs, limit).Scan(&recipes).Error
	} else {
		err = r.db.WithContext(ctx).
			Where("author_id IN ?", authorIDs).
			Order("author_id, pub_date desc").
			Find(&recipes).Error
	}
	if err != nil {
		return nil, err
	}

	for _, recipe := range recipes {
		previews[recipe.AuthorID] = append(previews[recipe.AuthorID], recipe)
	}
	return previews, nil
}
