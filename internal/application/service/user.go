package service

import (
	"context"

	"github.com/game-hipe/remembering/internal/application/dto"
	"github.com/game-hipe/remembering/internal/domain/constant"
	"github.com/game-hipe/remembering/internal/domain/entity"
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	// GetOrCreateUser finds a user by chat ID or registers a new one.
	GetOrCreateUser(ctx context.Context, chatID string, name string) (*entity.User, error)
	// GetUser finds a user by chat ID. Returns an error if not found.
	GetUser(ctx context.Context, chatID string) (*entity.User, error)
	// UpdateStatus updates the interaction state (and draft pointer) of a user.
	UpdateStatus(ctx context.Context, req dto.UpdateUserStatusRequest) error
	// DeleteUser handles the unfollow event, deleting the user and their memories.
	DeleteUser(ctx context.Context, chatID string) error
	// GetUserStatus retrieves the current interaction state of a user.
	GetUserStatus(ctx context.Context, chatID string) (constant.UserStatus, error)
}
