package subscription

import (
	"context"
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/logging"
	"foodgram-backend/internal/telemetry"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.Subscription, error)
		Unsubscribe(ctx context.Context, userID string, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, filter domain.SubscriptionFilter) (domain.SubscriptionListResponse, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
	}
)

func NewSubscriptionService(subscriptionRepository SubscriptionRepository, userRepository user.UserRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
	}
}

func (s *subscriptionService) resolve(ctx context.Context, userID string, authorID string) (uuid.UUID, *entities.User, error) {
	follower := user.ViewerID(userID)
	if follower == uuid.Nil {
		return uuid.Nil, nil, domain.ErrUserNotAllowed
	}
	id, err := uuid.Parse(authorID)
	if err != nil {
		return uuid.Nil, nil, domain.ErrUserNotFound
	}
	if id == follower {
		return uuid.Nil, nil, domain.ErrCannotFollowSelf
	}

	author, err := s.userRepository.GetUserByID(ctx, follower, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil, domain.ErrUserNotFound
		}
		return uuid.Nil, nil, err
	}
	return follower, author, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.Subscription, error) {
	follower, author, err := s.resolve(ctx, userID, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}

	if err := s.subscriptionRepository.CreateFollow(ctx, follower, author.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Subscription{}, domain.ErrAlreadySubscribed
		}
		return domain.Subscription{}, err
	}
	telemetry.FollowsAdded.Add(ctx, 1)
	logging.Info(ctx, "subscribed", "user_id", userID, "author_id", authorID)

	author.IsSubscribed = true
	subs, err := s.annotate(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.Subscription{}, err
	}
	return subs[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID string, authorID string) error {
	follower, author, err := s.resolve(ctx, userID, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrCannotFollowSelf) {
			return domain.ErrNotSubscribed
		}
		return err
	}

	removed, err := s.subscriptionRepository.DeleteFollow(ctx, follower, author.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotSubscribed
	}
	telemetry.FollowsRemoved.Add(ctx, 1)
	return nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, userID string, filter domain.SubscriptionFilter) (domain.SubscriptionListResponse, error) {
	follower := user.ViewerID(userID)
	if follower == uuid.Nil {
		return domain.SubscriptionListResponse{}, domain.ErrUserNotAllowed
	}

	authors, count, err := s.subscriptionRepository.GetFollowedAuthors(ctx, follower, filter.Page, filter.Limit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	results, err := s.annotate(ctx, authors, filter.RecipesLimit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}
	return domain.SubscriptionListResponse{
		Results:    results,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, count),
	}, nil
}

// annotate attaches recipe counts and previews to a page of authors with one
// query for each.
func (s *subscriptionService) annotate(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.Subscription, error) {
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}

	counts, err := s.subscriptionRepository.CountRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}
	previews, err := s.subscriptionRepository.GetRecipePreviews(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.Subscription, 0, len(authors))
	for _, a := range authors {
		recipes := make([]domain.RecipeMinified, 0, len(previews[a.ID]))
		for _, r := range previews[a.ID] {
			recipes = append(recipes, recipe.ToMinified(r))
		}
		results = append(results, domain.Subscription{
			UserProfile:  user.ToProfile(a),
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}
	return results, nil
}
