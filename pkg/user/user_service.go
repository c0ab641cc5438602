package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-organizer/domain"
	"recipe-organizer/entities"
	"recipe-organizer/internal/utils"
	"recipe-organizer/internal/utils/mailing"
	"recipe-organizer/pkg/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
		Me(ctx context.Context, identity *entities.User) (*domain.MeResponse, error)
		UpdateProfile(ctx context.Context, identity *entities.User, req domain.UpdateProfileRequest) (*domain.UserResponse, error)
		ChangePassword(ctx context.Context, identity *entities.User, req domain.ChangePasswordRequest) error
		SetActive(ctx context.Context, id string, active bool) (*domain.UserResponse, error)
	}

	// RecipeCounter counts the recipes owned by a user.
	RecipeCounter interface {
		CountByOwner(ctx context.Context, ownerID string) (int64, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		recipes        RecipeCounter
		mailer         mailing.Mailer
		validator      *validator.Validate
		logger         *zap.Logger
		appURL         string
		now            func() time.Time
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	recipes RecipeCounter,
	mailer mailing.Mailer,
	validator *validator.Validate,
	logger *zap.Logger,
	appURL string,
) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		recipes:        recipes,
		mailer:         mailer,
		validator:      validator,
		logger:         logger,
		appURL:         appURL,
		now:            time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, domain.ErrMissingFields
	}
	if err := s.validator.Var(email, "email"); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	taken, err := s.userRepository.CheckEmail(ctx, email, "")
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
		Bio:          strings.TrimSpace(req.Bio),
		Avatar:       strings.TrimSpace(req.Avatar),
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.sendWelcome(user)

	return s.authResponse(user)
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.ErrMissingFields.WithMessage("Please provide email and password")
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrAccountDeactivated
	}

	now := s.now()
	if err := s.userRepository.UpdateLastLogin(ctx, user.ID.String(), now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLoginAt = &now

	return s.authResponse(user)
}

func (s *userService) Me(ctx context.Context, identity *entities.User) (*domain.MeResponse, error) {
	if identity == nil {
		return nil, domain.ErrAuthRequired
	}

	count, err := s.recipes.CountByOwner(ctx, identity.ID.String())
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	return &domain.MeResponse{
		UserResponse: toUserResponse(identity),
		RecipeCount:  count,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, identity *entities.User, req domain.UpdateProfileRequest) (*domain.UserResponse, error) {
	if identity == nil {
		return nil, domain.ErrAuthRequired
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	user := *identity
	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepository.CheckEmail(ctx, *req.Email, user.ID.String())
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailExists
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}
	user.UpdatedAt = s.now()

	if err := s.userRepository.UpdateProfile(ctx, &user); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, domain.ErrEmailExists
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	res := toUserResponse(&user)
	return &res, nil
}

func (s *userService) ChangePassword(ctx context.Context, identity *entities.User, req domain.ChangePasswordRequest) error {
	if identity == nil {
		return domain.ErrAuthRequired
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return domain.ErrMissingFields.WithMessage("Please provide current and new password")
	}
	if err := checkPassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.userRepository.GetUserByID(ctx, identity.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return domain.ErrIncorrectPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepository.UpdatePassword(ctx, user.ID.String(), hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *userService) SetActive(ctx context.Context, id string, active bool) (*domain.UserResponse, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	if err := s.userRepository.SetActive(ctx, parsed.String(), active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("set active: %w", err)
	}

	user, err := s.userRepository.GetUserByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	res := toUserResponse(user)
	return &res, nil
}

func (s *userService) authResponse(user *entities.User) (*domain.AuthResponse, error) {
	token, expiresAt, err := s.jwtService.IssueToken(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

func (s *userService) sendWelcome(user *entities.User) {
	if s.mailer == nil {
		return
	}
	subject, body := mailing.WelcomeMail(user.Name, s.appURL)
	go func(to string) {
		if err := s.mailer.SendMail(to, subject, body); err != nil {
			s.logger.Warn("failed to send welcome mail", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}(user.Email)
}

func checkPassword(password string) error {
	switch {
	case len(password) < domain.MinPasswordLength:
		return domain.ErrWeakPassword
	case len(password) > domain.MaxPasswordBytes:
		return domain.ErrPasswordTooLong
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
