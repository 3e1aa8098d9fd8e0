package repository

import (
	"context"
	"time"

	"github.com/game-hipe/remembering/internal/domain/entity"
)

// MemoryRepository defines the interface for memory data operations.
type MemoryRepository interface {
	// FindByID retrieves a memory by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Memory, error)
	// FindByUserID retrieves all memories of a specific user.
	FindByUserID(ctx context.Context, userID uint) ([]*entity.Memory, error)
	// Create creates a new memory. Returns the ID of the created memory.
	Create(ctx context.Context, memory *entity.Memory) (uint, error)
	// Update updates an existing memory.
	Update(ctx context.Context, memory *entity.Memory) error
	// Delete deletes a memory by its ID.
	Delete(ctx context.Context, id uint) error
	// DeleteByUserID deletes all memories of a specific user.
	DeleteByUserID(ctx context.Context, userID uint) error
	// AdvanceRemindTime pushes a memory's remind time forward by delta.
	AdvanceRemindTime(ctx context.Context, id uint, delta time.Duration) error
	// DeleteOlderThan deletes memories with a remind time older than threshold.
	DeleteOlderThan(ctx context.Context, threshold time.Time) error
}
