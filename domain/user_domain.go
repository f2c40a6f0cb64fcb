package domain

var (
	MessageSuccessRegister    = "user registered successfully"
	MessageSuccessLogin       = "login success"
	MessageSuccessLogout      = "logout success"
	MessageSuccessGetUsers    = "success get users"
	MessageSuccessGetUser     = "success get user"
	MessageSuccessSetPassword = "password changed successfully"
	MessageFailedRegister     = "failed to register user"
	MessageFailedLogin        = "failed to login"
	MessageFailedGetUsers     = "failed to get users"
	MessageFailedGetUser      = "failed to get user"
	MessageFailedSetPassword  = "failed to change password"

	ErrUserNotFound       = NewNotFoundError("user not found")
	ErrEmailTaken         = NewConflictError("user with this email already exists")
	ErrUsernameTaken      = NewConflictError("user with this username already exists")
	ErrInvalidCredentials = NewValidationError("password", "invalid email or password")
	ErrWrongPassword      = NewValidationError("current_password", "current password is incorrect")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
	}

	UserProfile struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	UserListResponse struct {
		Results    []UserProfile `json:"results"`
		Pagination Pagination    `json:"pagination"`
	}
)
