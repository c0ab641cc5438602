package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-organizer/domain"
	"recipe-organizer/entities"
	"recipe-organizer/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// UserLookup is the slice of the user repository the resolver needs.
	// A missing user is reported as gorm.ErrRecordNotFound.
	UserLookup interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	Resolver interface {
		Resolve(ctx context.Context, token string) (*entities.User, error)
	}

	resolver struct {
		jwtService jwt.JWTService
		users      UserLookup
		now        func() time.Time
	}
)

func NewResolver(jwtService jwt.JWTService, users UserLookup) Resolver {
	return NewResolverWithClock(jwtService, users, time.Now)
}

func NewResolverWithClock(jwtService jwt.JWTService, users UserLookup, now func() time.Time) Resolver {
	return &resolver{
		jwtService: jwtService,
		users:      users,
		now:        now,
	}
}

// ExtractToken prefers a bearer Authorization header over the token cookie.
func ExtractToken(authorization string, cookie string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	return strings.TrimSpace(cookie)
}

func (r *resolver) Resolve(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, domain.ErrAuthRequired
	}

	claims, err := r.jwtService.VerifyToken(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid.Wrap(err)
	}

	if !claims.ExpiresAt.After(r.now()) {
		return nil, domain.ErrTokenExpired
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user %s: %w", claims.UserID, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if !user.Active {
		return nil, domain.ErrAccountDeactivated
	}

	return user, nil
}
