package user

import (
	"context"
	"errors"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/logging"
	"foodgram-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserProfile, error)
		RegisterAdmin(ctx context.Context, req domain.RegisterRequest) (domain.UserProfile, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUsers(ctx context.Context, viewerID string, page domain.PageRequest) (domain.UserListResponse, error)
		GetUser(ctx context.Context, viewerID string, id string) (domain.UserProfile, error)
		Me(ctx context.Context, userID string) (domain.UserProfile, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// ViewerID maps a possibly empty or malformed id to uuid.Nil, the anonymous viewer.
func ViewerID(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

func ToProfile(u *entities.User) domain.UserProfile {
	if u == nil {
		return domain.UserProfile{}
	}
	return domain.UserProfile{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: u.IsSubscribed,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserProfile, error) {
	return s.create(ctx, req, domain.RoleUser)
}

func (s *userService) RegisterAdmin(ctx context.Context, req domain.RegisterRequest) (domain.UserProfile, error) {
	return s.create(ctx, req, domain.RoleAdmin)
}

func (s *userService) create(ctx context.Context, req domain.RegisterRequest, role string) (domain.UserProfile, error) {
	email := strings.TrimSpace(req.Email)

	taken, err := s.userRepository.IsEmailTaken(ctx, email)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if taken {
		return domain.UserProfile{}, domain.ErrEmailTaken
	}
	taken, err = s.userRepository.IsUsernameTaken(ctx, req.Username)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if taken {
		return domain.UserProfile{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserProfile{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
		Role:      role,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserProfile{}, domain.ErrEmailTaken
		}
		return domain.UserProfile{}, err
	}

	logging.Info(ctx, "user registered", "user_id", user.ID.String(), "role", role)
	return ToProfile(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID string, page domain.PageRequest) (domain.UserListResponse, error) {
	users, count, err := s.userRepository.GetUsers(ctx, ViewerID(viewerID), page.Page, page.Limit)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	results := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		results = append(results, ToProfile(u))
	}
	return domain.UserListResponse{
		Results:    results,
		Pagination: domain.NewPagination(page.Page, page.Limit, count),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, viewerID string, id string) (domain.UserProfile, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}

	user, err := s.userRepository.GetUserByID(ctx, ViewerID(viewerID), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfile{}, domain.ErrUserNotFound
		}
		return domain.UserProfile{}, err
	}
	return ToProfile(user), nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfile, error) {
	return s.GetUser(ctx, userID, userID)
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	id := ViewerID(userID)
	user, err := s.userRepository.GetUserByID(ctx, id, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hash))
}
