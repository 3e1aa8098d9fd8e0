package dto

import (
	"github.com/game-hipe/remembering/internal/domain/constant"
)

// UpdateUserStatusRequest is the DTO for updating a user's interaction state.
type UpdateUserStatusRequest struct {
	ChatID  string              `json:"chat_id"`
	Status  constant.UserStatus `json:"status"`
	DraftID *uint               `json:"draft_id,omitempty"` // Optional: ID of the memory being composed
}
