package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/game-hipe/remembering/internal/application/dto"
	"github.com/game-hipe/remembering/internal/domain/constant"
	"github.com/game-hipe/remembering/internal/domain/entity"
	"github.com/game-hipe/remembering/internal/domain/repository"
	appErrors "github.com/game-hipe/remembering/internal/pkg/errors"
	"github.com/game-hipe/remembering/internal/pkg/logger"
)

const (
	maxTitleLen   = 255
	maxContentLen = 2048
)

type memoryService struct {
	memoryRepo repository.MemoryRepository
	userRepo   repository.UserRepository
	log        logger.Logger
}

// NewMemoryService creates a new instance of MemoryService implementation.
func NewMemoryService(
	memoryRepo repository.MemoryRepository,
	userRepo repository.UserRepository,
	log logger.Logger,
) MemoryService {
	return &memoryService{
		memoryRepo: memoryRepo,
		userRepo:   userRepo,
		log:        log,
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(title) > maxTitleLen {
		return appErrors.ErrInvalidTitle
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) > maxContentLen {
		return appErrors.ErrInvalidContent
	}
	return nil
}

func validateMediaPath(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return appErrors.ErrInvalidMedia
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".png", ".mp4":
		return nil
	}
	return appErrors.ErrInvalidMedia
}

func (s *memoryService) findUser(ctx context.Context, chatID string) (*entity.User, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to find user %s", chatID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return user, nil
}

func (s *memoryService) findDraft(ctx context.Context, user *entity.User) (*entity.Memory, error) {
	if user.DraftID == nil {
		return nil, appErrors.ErrInvalidStatus
	}
	memory, err := s.memoryRepo.FindByID(ctx, *user.DraftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn(fmt.Sprintf("Draft %d of user %s vanished", *user.DraftID, user.ChatID))
			return nil, appErrors.ErrMemoryNotFound
		}
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return memory, nil
}

// finalizeDraft clears the draft pointer and returns the user to the initial state.
func (s *memoryService) finalizeDraft(ctx context.Context, user *entity.User) error {
	user.DraftID = nil
	user.SetStatus(constant.StatusInitial)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}

// BeginMemory validates the title and creates a new draft memory for the user.
func (s *memoryService) BeginMemory(ctx context.Context, chatID string, title string) error {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	if err := validateTitle(title); err != nil {
		return err
	}

	memory := &entity.Memory{
		UserID:   user.ID,
		Title:    title,
		Kind:     constant.KindText.String(),
		RemindAt: time.Now(), // due from creation until snoozed
	}
	memoryID, err := s.memoryRepo.Create(ctx, memory)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create draft memory for user %s", chatID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	user.DraftID = &memoryID
	user.SetStatus(constant.StatusAwaitingContent)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Started draft memory %d for user %s", memoryID, chatID))
	return nil
}

// SetContent validates and stores the content of the user's draft.
func (s *memoryService) SetContent(ctx context.Context, chatID string, content string) error {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}

	memory, err := s.findDraft(ctx, user)
	if err != nil {
		return err
	}
	memory.Content = content
	if err := s.memoryRepo.Update(ctx, memory); err != nil {
		s.log.Error(fmt.Sprintf("Failed to store content of draft %d", memory.ID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	user.SetStatus(constant.StatusAwaitingMedia)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}

// AttachMedia attaches a downloaded photo or video file to the draft and finalizes it.
func (s *memoryService) AttachMedia(ctx context.Context, chatID string, kind constant.MemoryKind, path string) error {
	if !kind.HasMedia() {
		return appErrors.ErrInvalidMedia
	}
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	if err := validateMediaPath(path); err != nil {
		return err
	}

	memory, err := s.findDraft(ctx, user)
	if err != nil {
		return err
	}
	memory.Kind = kind.String()
	memory.MediaPath = &path
	if err := s.memoryRepo.Update(ctx, memory); err != nil {
		s.log.Error(fmt.Sprintf("Failed to attach media to draft %d", memory.ID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Finished %s memory %d for user %s", kind, memory.ID, chatID))
	return s.finalizeDraft(ctx, user)
}

// FinishDraft finalizes the draft as a plain text memory.
func (s *memoryService) FinishDraft(ctx context.Context, chatID string) error {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	if _, err := s.findDraft(ctx, user); err != nil {
		return err
	}
	s.log.Info(fmt.Sprintf("Finished text memory %d for user %s", *user.DraftID, chatID))
	return s.finalizeDraft(ctx, user)
}

// CancelDraft discards the user's draft, if any, and resets their state.
func (s *memoryService) CancelDraft(ctx context.Context, chatID string) error {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	if user.DraftID != nil {
		if err := s.memoryRepo.Delete(ctx, *user.DraftID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error(fmt.Sprintf("Failed to delete draft %d of user %s", *user.DraftID, chatID), err)
		}
	}
	return s.finalizeDraft(ctx, user)
}

// ListMemories retrieves all memories of a user.
func (s *memoryService) ListMemories(ctx context.Context, chatID string) ([]dto.MemoryResponse, error) {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return nil, err
	}
	memories, err := s.memoryRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list memories of user %s", chatID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return dto.ToMemoryResponseList(memories), nil
}

// Snooze pushes a memory's remind time forward by delta.
func (s *memoryService) Snooze(ctx context.Context, chatID string, memoryID uint, delta time.Duration) error {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	memory, err := s.GetMemory(ctx, memoryID)
	if err != nil {
		return err
	}
	if memory.UserID != user.ID {
		return appErrors.ErrNotOwner
	}

	if err := s.memoryRepo.AdvanceRemindTime(ctx, memoryID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrMemoryNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to snooze memory %d", memoryID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Snoozed memory %d of user %s by %s", memoryID, chatID, delta))
	return nil
}

// DeleteMemory deletes one of the user's memories.
func (s *memoryService) DeleteMemory(ctx context.Context, chatID string, memoryID uint) error {
	user, err := s.findUser(ctx, chatID)
	if err != nil {
		return err
	}
	memory, err := s.GetMemory(ctx, memoryID)
	if err != nil {
		return err
	}
	if memory.UserID != user.ID {
		return appErrors.ErrNotOwner
	}

	if err := s.memoryRepo.Delete(ctx, memoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrMemoryNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to delete memory %d", memoryID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Deleted memory %d of user %s", memoryID, chatID))
	return nil
}

// GetMemory retrieves a memory by its ID.
func (s *memoryService) GetMemory(ctx context.Context, memoryID uint) (*entity.Memory, error) {
	memory, err := s.memoryRepo.FindByID(ctx, memoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrMemoryNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get memory %d", memoryID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return memory, nil
}

// CleanupOlderThan deletes memories whose remind time passed more than age ago.
func (s *memoryService) CleanupOlderThan(ctx context.Context, age time.Duration) error {
	threshold := time.Now().Add(-age)
	if err := s.memoryRepo.DeleteOlderThan(ctx, threshold); err != nil {
		s.log.Error(fmt.Sprintf("Failed to clean up memories older than %v", threshold), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Cleaned up memories with remind time before %v", threshold))
	return nil
}
