package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/game-hipe/remembering/internal/domain/entity"
	"github.com/game-hipe/remembering/internal/domain/repository"
)

type memoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository creates a new instance of MemoryRepository.
func NewMemoryRepository(db *gorm.DB) repository.MemoryRepository {
	return &memoryRepository{db: db}
}

// FindByID retrieves a memory by its ID.
func (r *memoryRepository) FindByID(ctx context.Context, id uint) (*entity.Memory, error) {
	var memory entity.Memory
	if err := r.db.WithContext(ctx).First(&memory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("memory %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find memory %d: %w", id, err)
	}
	return &memory, nil
}

// FindByUserID retrieves all memories of a specific user.
func (r *memoryRepository) FindByUserID(ctx context.Context, userID uint) ([]*entity.Memory, error) {
	var memories []*entity.Memory
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&memories).Error; err != nil {
		return nil, fmt.Errorf("failed to find memories of user %d: %w", userID, err)
	}
	return memories, nil
}

// Create creates a new memory. Returns the ID of the created memory.
func (r *memoryRepository) Create(ctx context.Context, memory *entity.Memory) (uint, error) {
	if err := r.db.WithContext(ctx).Create(memory).Error; err != nil {
		return 0, fmt.Errorf("failed to create memory for user %d: %w", memory.UserID, err)
	}
	return memory.ID, nil
}

// Update updates an existing memory.
func (r *memoryRepository) Update(ctx context.Context, memory *entity.Memory) error {
	if err := r.db.WithContext(ctx).Save(memory).Error; err != nil {
		return fmt.Errorf("failed to update memory %d: %w", memory.ID, err)
	}
	return nil
}

// Delete deletes a memory by its ID.
func (r *memoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Memory{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete memory %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("memory %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteByUserID deletes all memories of a specific user.
func (r *memoryRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Memory{}).Error; err != nil {
		return fmt.Errorf("failed to delete memories of user %d: %w", userID, err)
	}
	return nil
}

// AdvanceRemindTime pushes a memory's remind time forward by delta.
func (r *memoryRepository) AdvanceRemindTime(ctx context.Context, id uint, delta time.Duration) error {
	var memory entity.Memory
	if err := r.db.WithContext(ctx).First(&memory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("memory %d not found: %w", id, err)
		}
		return fmt.Errorf("failed to find memory %d: %w", id, err)
	}
	memory.RemindAt = memory.RemindAt.Add(delta)
	if err := r.db.WithContext(ctx).Save(&memory).Error; err != nil {
		return fmt.Errorf("failed to advance remind time of memory %d: %w", id, err)
	}
	return nil
}

// DeleteOlderThan deletes memories with a remind time older than threshold.
func (r *memoryRepository) DeleteOlderThan(ctx context.Context, threshold time.Time) error {
	if err := r.db.WithContext(ctx).Where("remind_at < ?", threshold).Delete(&entity.Memory{}).Error; err != nil {
		return fmt.Errorf("failed to delete memories older than %v: %w", threshold, err)
	}
	return nil
}
