package repository

import (
	"context"

	"github.com/game-hipe/remembering/internal/domain/entity"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// FindByChatID retrieves a user by their chat ID.
	FindByChatID(ctx context.Context, chatID string) (*entity.User, error)
	// Create creates a new user.
	Create(ctx context.Context, user *entity.User) error
	// Update updates an existing user.
	Update(ctx context.Context, user *entity.User) error
	// Delete deletes a user by chat ID.
	Delete(ctx context.Context, chatID string) error
	// PageWithMemories returns up to limit users whose ID is >= cursor,
	// ordered by ID, with their memories eagerly loaded. An empty slice is
	// the end-of-stream signal; the next cursor is the last returned ID + 1.
	PageWithMemories(ctx context.Context, cursor uint, limit int) ([]*entity.User, error)
}
