package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUsers struct {
	rows    map[uuid.UUID]*entities.User
	follows map[[2]uuid.UUID]bool
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[uuid.UUID]*entities.User{}, follows: map[[2]uuid.UUID]bool{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *entities.User) error {
	m.rows[u.ID] = u
	return nil
}

func (m *memUsers) GetUserByID(_ context.Context, viewerID uuid.UUID, id uuid.UUID) (*entities.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	cp.IsSubscribed = m.follows[[2]uuid.UUID{viewerID, id}]
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) GetUsers(ctx context.Context, viewerID uuid.UUID, _, _ int) ([]*entities.User, int64, error) {
	var out []*entities.User
	for id := range m.rows {
		u, _ := m.GetUserByID(ctx, viewerID, id)
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range m.rows {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.rows[id].Password = hash
	return nil
}

func registerRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     "cook@foodgram.test",
		Username:  "cook",
		FirstName: "Ada",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
}

func newTestService(repo *memUsers) UserService {
	return NewUserService(repo, jwt.NewJWTServiceWithSecret("secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemUsers()
	svc := newTestService(repo)
	ctx := context.Background()

	profile, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "cook", profile.Username)
	assert.False(t, profile.IsSubscribed)

	stored := repo.rows[uuid.MustParse(profile.ID)]
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.Equal(t, domain.RoleUser, stored.Role)

	res, err := svc.Login(ctx, domain.LoginRequest{Email: "COOK@foodgram.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AuthToken)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@foodgram.test", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newTestService(newMemUsers())
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	req := registerRequest()
	req.Email = "other@foodgram.test"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestProfileIsSubscribedForViewer(t *testing.T) {
	repo := newMemUsers()
	svc := newTestService(repo)
	ctx := context.Background()

	author, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	req := registerRequest()
	req.Email, req.Username = "fan@foodgram.test", "fan"
	fan, err := svc.Register(ctx, req)
	require.NoError(t, err)
	repo.follows[[2]uuid.UUID{uuid.MustParse(fan.ID), uuid.MustParse(author.ID)}] = true

	seen, err := svc.GetUser(ctx, fan.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsSubscribed)

	anonymous, err := svc.GetUser(ctx, "", author.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	_, err = svc.GetUser(ctx, "", uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetPassword(t *testing.T) {
	svc := newTestService(newMemUsers())
	ctx := context.Background()
	profile, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = svc.SetPassword(ctx, profile.ID, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, svc.SetPassword(ctx, profile.ID, domain.SetPasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "another-pass"}))
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "cook@foodgram.test", Password: "another-pass"})
	assert.NoError(t, err)
}

func TestViewerID(t *testing.T) {
	assert.Equal(t, uuid.Nil, ViewerID(""))
	assert.Equal(t, uuid.Nil, ViewerID("garbage"))
	id := uuid.New()
	assert.Equal(t, id, ViewerID(id.String()))
}
