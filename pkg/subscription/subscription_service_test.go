package subscription

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type follow struct {
	user   uuid.UUID
	author uuid.UUID
}

type memStore struct {
	user.UserRepository

	mu      sync.Mutex
	users   map[uuid.UUID]*entities.User
	recipes []*entities.Recipe
	follows []follow
}

func newMemStore() *memStore {
	return &memStore{users: map[uuid.UUID]*entities.User{}}
}

func (m *memStore) addUser(name string) *entities.User {
	u := &entities.User{ID: uuid.New(), Username: name, Email: name + "@foodgram.test"}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addRecipes(author *entities.User, n int) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m.recipes = append(m.recipes, &entities.Recipe{
			ID:          uuid.New(),
			AuthorID:    author.ID,
			Name:        author.Username + " recipe",
			CookingTime: 10 + i,
			PubDate:     base.Add(time.Duration(i) * time.Hour),
		})
	}
}

func (m *memStore) GetUserByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*entities.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateFollow(_ context.Context, userID, authorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows {
		if f.user == userID && f.author == authorID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.follows = append(m.follows, follow{userID, authorID})
	return nil
}

func (m *memStore) DeleteFollow(_ context.Context, userID, authorID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.follows {
		if f.user == userID && f.author == authorID {
			m.follows = append(m.follows[:i], m.follows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetFollowedAuthors(_ context.Context, userID uuid.UUID, page, limit int) ([]*entities.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var authors []*entities.User
	for i := len(m.follows) - 1; i >= 0; i-- {
		if m.follows[i].user == userID {
			cp := *m.users[m.follows[i].author]
			cp.IsSubscribed = true
			authors = append(authors, &cp)
		}
	}
	total := int64(len(authors))
	start := min((page-1)*limit, len(authors))
	end := min(start+limit, len(authors))
	return authors[start:end], total, nil
}

func (m *memStore) CountRecipes(_ context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := map[uuid.UUID]int64{}
	for _, r := range m.recipes {
		for _, id := range authorIDs {
			if r.AuthorID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *memStore) GetRecipePreviews(_ context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]*entities.Recipe, error) {
	out := map[uuid.UUID][]*entities.Recipe{}
	sorted := append([]*entities.Recipe(nil), m.recipes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PubDate.After(sorted[j].PubDate) })
	for _, id := range authorIDs {
		for _, r := range sorted {
			if r.AuthorID == id && (limit <= 0 || len(out[id]) < limit) {
				out[id] = append(out[id], r)
			}
		}
	}
	return out, nil
}

func newService(store *memStore) SubscriptionService {
	return NewSubscriptionService(store, store)
}

func TestSubscribe(t *testing.T) {
	store := newMemStore()
	reader := store.addUser("reader")
	chef := store.addUser("chef")
	store.addRecipes(chef, 5)
	svc := newService(store)

	sub, err := svc.Subscribe(context.Background(), reader.ID.String(), chef.ID.String(), 3)
	require.NoError(t, err)

	assert.Equal(t, chef.ID.String(), sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(5), sub.RecipesCount)
	require.Len(t, sub.Recipes, 3)
	assert.Equal(t, 14, sub.Recipes[0].CookingTime, "newest recipe first")
}

func TestSubscribeErrors(t *testing.T) {
	store := newMemStore()
	reader := store.addUser("reader")
	chef := store.addUser("chef")
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, reader.ID.String(), reader.ID.String(), 0)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "cannot follow yourself")

	_, err = svc.Subscribe(ctx, reader.ID.String(), uuid.NewString(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Subscribe(ctx, reader.ID.String(), chef.ID.String(), 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, reader.ID.String(), chef.ID.String(), 0)
	assert.EqualError(t, err, "already subscribed")
}

func TestUnsubscribe(t *testing.T) {
	store := newMemStore()
	reader := store.addUser("reader")
	chef := store.addUser("chef")
	svc := newService(store)
	ctx := context.Background()

	err := svc.Unsubscribe(ctx, reader.ID.String(), chef.ID.String())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "not subscribed")

	_, err = svc.Subscribe(ctx, reader.ID.String(), chef.ID.String(), 0)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, reader.ID.String(), chef.ID.String()))
	assert.Empty(t, store.follows)
}

func TestGetSubscriptions(t *testing.T) {
	store := newMemStore()
	reader := store.addUser("reader")
	first := store.addUser("first")
	second := store.addUser("second")
	store.addRecipes(first, 2)
	svc := newService(store)
	ctx := context.Background()

	for _, a := range []*entities.User{first, second} {
		_, err := svc.Subscribe(ctx, reader.ID.String(), a.ID.String(), 0)
		require.NoError(t, err)
	}

	list, err := svc.GetSubscriptions(ctx, reader.ID.String(), domain.SubscriptionFilter{
		RecipesLimit: 1,
		PageRequest:  domain.PageRequest{Page: 1, Limit: 10},
	})
	require.NoError(t, err)

	require.Len(t, list.Results, 2)
	assert.Equal(t, int64(2), list.Pagination.Total)
	assert.Equal(t, second.ID.String(), list.Results[0].ID)
	assert.Empty(t, list.Results[0].Recipes)
	assert.NotNil(t, list.Results[0].Recipes)
	assert.Equal(t, int64(2), list.Results[1].RecipesCount)
	assert.Len(t, list.Results[1].Recipes, 1)
	for _, s := range list.Results {
		assert.True(t, s.IsSubscribed)
	}
}

func TestConcurrentSubscribeCreatesOneEdge(t *testing.T) {
	store := newMemStore()
	reader := store.addUser("reader")
	chef := store.addUser("chef")
	svc := newService(store)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Subscribe(context.Background(), reader.ID.String(), chef.ID.String(), 0); err == nil {
				ok.Add(1)
			} else {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Len(t, store.follows, 1)
}
