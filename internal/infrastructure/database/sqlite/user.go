package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/game-hipe/remembering/internal/domain/entity"
	"github.com/game-hipe/remembering/internal/domain/repository"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByChatID retrieves a user by their chat ID.
func (r *userRepository) FindByChatID(ctx context.Context, chatID string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with chat_id %s not found: %w", chatID, err)
		}
		return nil, fmt.Errorf("failed to find user by chat_id %s: %w", chatID, err)
	}
	return &user, nil
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ChatID, err)
	}
	return nil
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	// Use Save to update all fields, including zero values
	if err := r.db.WithContext(ctx).Omit("Memories").Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ChatID, err)
	}
	return nil
}

// Delete deletes a user by chat ID.
func (r *userRepository) Delete(ctx context.Context, chatID string) error {
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&entity.User{}).Error; err != nil {
		return fmt.Errorf("failed to delete user %s: %w", chatID, err)
	}
	return nil
}

// PageWithMemories returns up to limit users with ID >= cursor, in ID order,
// with their memories eagerly loaded.
func (r *userRepository) PageWithMemories(ctx context.Context, cursor uint, limit int) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).
		Preload("Memories").
		Where("id >= ?", cursor).
		Order("id asc").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to page users from cursor %d: %w", cursor, err)
	}
	return users, nil
}
