package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pair struct {
	user   uuid.UUID
	recipe uuid.UUID
}

// memRepository mirrors the unique constraints of the real schema.
type memRepository struct {
	mu          sync.Mutex
	clock       time.Time
	recipes     map[uuid.UUID]*entities.Recipe
	recipeTags  map[uuid.UUID][]uuid.UUID
	tags        map[uuid.UUID]*entities.Tag
	ingredients map[uuid.UUID]*entities.Ingredient
	users       map[uuid.UUID]*entities.User
	favorites   map[pair]bool
	cart        []pair
	follows     map[pair]bool
}

func newMemRepository() *memRepository {
	return &memRepository{
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		recipes:     map[uuid.UUID]*entities.Recipe{},
		recipeTags:  map[uuid.UUID][]uuid.UUID{},
		tags:        map[uuid.UUID]*entities.Tag{},
		ingredients: map[uuid.UUID]*entities.Ingredient{},
		users:       map[uuid.UUID]*entities.User{},
		favorites:   map[pair]bool{},
		follows:     map[pair]bool{},
	}
}

func (m *memRepository) addUser(email string) *entities.User {
	u := &entities.User{ID: uuid.New(), Email: email, Username: strings.Split(email, "@")[0], FirstName: "Test"}
	m.users[u.ID] = u
	return u
}

func (m *memRepository) addIngredient(id, name, unit string) {
	uid := uuid.MustParse(id)
	m.ingredients[uid] = &entities.Ingredient{ID: uid, Name: name, MeasurementUnit: unit}
}

func (m *memRepository) addTag(id, slug string) {
	uid := uuid.MustParse(id)
	m.tags[uid] = &entities.Tag{ID: uid, Name: slug, Color: "#ffffff", Slug: slug}
}

func (m *memRepository) inCart(p pair) bool {
	for _, c := range m.cart {
		if c == p {
			return true
		}
	}
	return false
}

func (m *memRepository) view(viewer uuid.UUID, r *entities.Recipe) *entities.Recipe {
	out := *r
	out.Author = m.users[r.AuthorID]
	out.Tags = nil
	for _, id := range m.recipeTags[r.ID] {
		out.Tags = append(out.Tags, m.tags[id])
	}
	out.Ingredients = make([]*entities.RecipeIngredient, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		cp := *ri
		cp.Ingredient = m.ingredients[ri.IngredientID]
		out.Ingredients = append(out.Ingredients, &cp)
	}
	out.IsFavorited = m.favorites[pair{viewer, r.ID}]
	out.IsInShoppingCart = m.inCart(pair{viewer, r.ID})
	out.AuthorFollowed = m.follows[pair{viewer, r.AuthorID}]
	return &out
}

func (m *memRepository) GetRecipes(_ context.Context, viewerID uuid.UUID, f RecipeFilter) ([]*entities.Recipe, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*entities.Recipe
	for _, r := range m.recipes {
		if f.AuthorID != uuid.Nil && r.AuthorID != f.AuthorID {
			continue
		}
		if f.FavoritedBy != uuid.Nil && !m.favorites[pair{f.FavoritedBy, r.ID}] {
			continue
		}
		if f.InShoppingCartOf != uuid.Nil && !m.inCart(pair{f.InShoppingCartOf, r.ID}) {
			continue
		}
		if len(f.TagSlugs) > 0 && !m.hasAnyTag(r.ID, f.TagSlugs) {
			continue
		}
		all = append(all, m.view(viewerID, r))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PubDate.After(all[j].PubDate) })

	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := min(start+f.Limit, len(all))
	return all[start:end], total, nil
}

func (m *memRepository) hasAnyTag(recipeID uuid.UUID, slugs []string) bool {
	for _, id := range m.recipeTags[recipeID] {
		for _, s := range slugs {
			if m.tags[id].Slug == s {
				return true
			}
		}
	}
	return false
}

func (m *memRepository) GetRecipeByID(_ context.Context, viewerID uuid.UUID, id uuid.UUID) (*entities.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.view(viewerID, r), nil
}

func (m *memRepository) FindRecipe(_ context.Context, id uuid.UUID) (*entities.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepository) store(recipe *entities.Recipe, tagIDs []uuid.UUID) {
	ingredients := make([]*entities.RecipeIngredient, 0, len(recipe.Ingredients))
	for i, ri := range recipe.Ingredients {
		cp := *ri
		cp.RecipeID = recipe.ID
		cp.Position = i
		ingredients = append(ingredients, &cp)
	}
	stored := *recipe
	stored.Ingredients = ingredients
	m.recipes[recipe.ID] = &stored
	m.recipeTags[recipe.ID] = append([]uuid.UUID(nil), tagIDs...)
}

func (m *memRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	recipe.PubDate = m.clock
	m.store(recipe, tagIDs)
	return nil
}

func (m *memRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.recipes[recipe.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	recipe.PubDate = old.PubDate
	m.store(recipe, tagIDs)
	return nil
}

func (m *memRepository) DeleteRecipe(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.recipes, id)
	delete(m.recipeTags, id)
	for p := range m.favorites {
		if p.recipe == id {
			delete(m.favorites, p)
		}
	}
	kept := m.cart[:0]
	for _, p := range m.cart {
		if p.recipe != id {
			kept = append(kept, p)
		}
	}
	m.cart = kept
	return nil
}

func (m *memRepository) CountIngredients(_ context.Context, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.ingredients[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *memRepository) CountTags(_ context.Context, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.tags[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *memRepository) AddFavorite(_ context.Context, userID, recipeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair{userID, recipeID}
	if m.favorites[p] {
		return gorm.ErrDuplicatedKey
	}
	m.favorites[p] = true
	return nil
}

func (m *memRepository) RemoveFavorite(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair{userID, recipeID}
	if !m.favorites[p] {
		return false, nil
	}
	delete(m.favorites, p)
	return true, nil
}

func (m *memRepository) AddToShoppingCart(_ context.Context, userID, recipeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair{userID, recipeID}
	if m.inCart(p) {
		return gorm.ErrDuplicatedKey
	}
	m.cart = append(m.cart, p)
	return nil
}

func (m *memRepository) RemoveFromShoppingCart(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := pair{userID, recipeID}
	for i, c := range m.cart {
		if c == p {
			m.cart = append(m.cart[:i], m.cart[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepository) GetShoppingCartLines(_ context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]domain.ShoppingListLine, 0)
	for _, p := range m.cart {
		if p.user != userID {
			continue
		}
		for _, ri := range m.recipes[p.recipe].Ingredients {
			ing := m.ingredients[ri.IngredientID]
			lines = append(lines, domain.ShoppingListLine{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit, Amount: ri.Amount})
		}
	}
	return lines, nil
}

// memUsers serves the user lookups the recipe service needs.
type memUsers struct {
	user.UserRepository
	repo *memRepository
}

func (u memUsers) GetUserByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*entities.User, error) {
	if found, ok := u.repo.users[id]; ok {
		return found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) UploadFile(_ context.Context, fileName string, data []byte, _ string, folder string, _ ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + fileName
	f.objects[key] = data
	return key, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://images.test/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://images.test/")
}
