package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/game-hipe/remembering/internal/application/dto"
	"github.com/game-hipe/remembering/internal/domain/constant"
	"github.com/game-hipe/remembering/internal/domain/entity"
	"github.com/game-hipe/remembering/internal/domain/repository"
	appErrors "github.com/game-hipe/remembering/internal/pkg/errors"
	"github.com/game-hipe/remembering/internal/pkg/logger"
)

// defaultNotifyInterval is the per-user cadence stored on registration. The
// notifier currently ignores it in favor of the global sweep interval.
const defaultNotifyInterval = 300

type userService struct {
	userRepo   repository.UserRepository
	memoryRepo repository.MemoryRepository // Needed for deleting memories on unfollow
	log        logger.Logger
}

// NewUserService creates a new instance of UserService implementation.
func NewUserService(userRepo repository.UserRepository, memoryRepo repository.MemoryRepository, log logger.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		memoryRepo: memoryRepo,
		log:        log,
	}
}

// GetOrCreateUser finds a user by chat ID or registers a new one.
func (s *userService) GetOrCreateUser(ctx context.Context, chatID string, name string) (*entity.User, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info(fmt.Sprintf("User %s not found, registering.", chatID))
			newUser := &entity.User{
				ChatID:         chatID,
				Name:           name,
				NotifyInterval: defaultNotifyInterval,
				Status:         constant.StatusInitial.Int(),
			}
			if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
				s.log.Error("Failed to create user", createErr)
				return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, createErr)
			}
			return newUser, nil
		}
		s.log.Error(fmt.Sprintf("Failed to find user %s", chatID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return user, nil
}

// GetUser finds a user by chat ID. Returns an error if not found.
func (s *userService) GetUser(ctx context.Context, chatID string) (*entity.User, error) {
	user, err := s.userRepo.FindByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get user %s", chatID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return user, nil
}

// UpdateStatus updates the interaction state (and draft pointer) of a user.
func (s *userService) UpdateStatus(ctx context.Context, req dto.UpdateUserStatusRequest) error {
	user, err := s.GetUser(ctx, req.ChatID)
	if err != nil {
		return err
	}

	user.SetStatus(req.Status)
	user.DraftID = req.DraftID

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Debug(fmt.Sprintf("Updated status of user %s to %d", req.ChatID, req.Status))
	return nil
}

// DeleteUser handles the unfollow event, deleting the user and their memories.
func (s *userService) DeleteUser(ctx context.Context, chatID string) error {
	user, err := s.GetUser(ctx, chatID)
	if err != nil {
		if errors.Is(err, appErrors.ErrUserNotFound) {
			return nil // Nothing to delete
		}
		return err
	}

	// Delete memories first
	if err := s.memoryRepo.DeleteByUserID(ctx, user.ID); err != nil {
		// Log but still try to delete the user row
		s.log.Error(fmt.Sprintf("Failed to delete memories of user %s during unfollow", chatID), err)
	}

	if err := s.userRepo.Delete(ctx, chatID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete user %s during unfollow", chatID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Deleted user %s and their memories due to unfollow.", chatID))
	return nil
}

// GetUserStatus retrieves the current interaction state of a user.
func (s *userService) GetUserStatus(ctx context.Context, chatID string) (constant.UserStatus, error) {
	user, err := s.GetUser(ctx, chatID)
	if err != nil {
		return constant.StatusInitial, err
	}
	return user.GetStatus(), nil
}
