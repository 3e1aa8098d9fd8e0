package service

import (
	"context"
	"time"

	"github.com/game-hipe/remembering/internal/application/dto"
	"github.com/game-hipe/remembering/internal/domain/constant"
	"github.com/game-hipe/remembering/internal/domain/entity"
)

// MemoryService defines the interface for memory-related business logic.
type MemoryService interface {
	// BeginMemory validates the title and creates a new draft memory for the
	// user, moving them into the content-entry state.
	BeginMemory(ctx context.Context, chatID string, title string) error
	// SetContent validates and stores the content of the user's draft, moving
	// them into the media-entry state.
	SetContent(ctx context.Context, chatID string, content string) error
	// AttachMedia attaches a downloaded photo or video file to the draft and
	// finalizes it.
	AttachMedia(ctx context.Context, chatID string, kind constant.MemoryKind, path string) error
	// FinishDraft finalizes the draft as a plain text memory.
	FinishDraft(ctx context.Context, chatID string) error
	// CancelDraft discards the user's draft, if any, and resets their state.
	CancelDraft(ctx context.Context, chatID string) error
	// ListMemories retrieves all memories of a user.
	ListMemories(ctx context.Context, chatID string) ([]dto.MemoryResponse, error)
	// Snooze pushes a memory's remind time forward by delta.
	Snooze(ctx context.Context, chatID string, memoryID uint, delta time.Duration) error
	// DeleteMemory deletes one of the user's memories.
	DeleteMemory(ctx context.Context, chatID string, memoryID uint) error
	// GetMemory retrieves a memory by its ID.
	GetMemory(ctx context.Context, memoryID uint) (*entity.Memory, error)
	// CleanupOlderThan deletes memories whose remind time passed more than age ago.
	CleanupOlderThan(ctx context.Context, age time.Duration) error
}
