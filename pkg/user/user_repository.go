package user

import (
	"context"
	"time"

	"recipe-organizer/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		CheckEmail(ctx context.Context, email string, excludeID string) (bool, error)
		UpdateProfile(ctx context.Context, user *entities.User) error
		UpdatePassword(ctx context.Context, id string, passwordHash string) error
		UpdateLastLogin(ctx context.Context, id string, at time.Time) error
		SetActive(ctx context.Context, id string, active bool) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckEmail reports whether another account already uses email.
func (r *userRepository) CheckEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&entities.User{}).Where("email = ?", email)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	res := r.db.WithContext(ctx).
		Model(user).
		Select("name", "email", "bio", "avatar", "updated_at").
		Updates(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.updateColumns(ctx, id, map[string]any{
		"active":     active,
		"updated_at": time.Now(),
	})
}

func (r *userRepository) updateColumns(ctx context.Context, id string, values map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
