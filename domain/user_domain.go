package domain

import (
	"time"
)

// MaxPasswordBytes is the bcrypt input limit.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessLogout         = "Logged out successfully"
	MessageSuccessGetMe          = "success get user"
	MessageSuccessUpdateProfile  = "profile updated successfully"
	MessageSuccessChangePassword = "Password updated successfully"
	MessageSuccessSetActive      = "user status updated successfully"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedGetMe          = "failed to get user"
	MessageFailedUpdateProfile  = "failed to update profile"
	MessageFailedChangePassword = "failed to change password"
	MessageFailedSetActive      = "failed to update user status"

	ErrMissingFields      = NewValidationError("MISSING_FIELDS", "Please provide name, email and password")
	ErrInvalidEmail       = NewValidationError("INVALID_EMAIL", "Please provide a valid email address")
	ErrWeakPassword       = NewValidationError("WEAK_PASSWORD", "Password must be at least 6 characters long")
	ErrPasswordTooLong    = NewValidationError("PASSWORD_TOO_LONG", "Password must be at most 72 bytes long")
	ErrEmailExists        = NewValidationError("EMAIL_EXISTS", "Email is already registered")
	ErrInvalidCredentials = NewAuthError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrIncorrectPassword  = NewAuthError("INCORRECT_PASSWORD", "Current password is incorrect")
	ErrAccountNotFound    = NewNotFoundError("NOT_FOUND", "User not found")
)

type (
	RegisterRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}

	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	UpdateProfileRequest struct {
		Name   *string `json:"name" validate:"omitempty,min=1,max=50"`
		Email  *string `json:"email" validate:"omitempty,email"`
		Bio    *string `json:"bio" validate:"omitempty,max=500"`
		Avatar *string `json:"avatar" validate:"omitempty,max=2048"`
	}

	ChangePasswordRequest struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}

	UserResponse struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Email       string     `json:"email"`
		Role        string     `json:"role"`
		Avatar      string     `json:"avatar"`
		Bio         string     `json:"bio"`
		Active      bool       `json:"active"`
		CreatedAt   time.Time  `json:"createdAt"`
		LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	}

	MeResponse struct {
		UserResponse
		RecipeCount int64 `json:"recipeCount"`
	}

	AuthResponse struct {
		Token     string       `json:"token"`
		ExpiresAt time.Time    `json:"-"`
		User      UserResponse `json:"user"`
	}
)
