package dto

import (
	"time"

	"github.com/game-hipe/remembering/internal/domain/entity"
)

// MemoryResponse is the DTO for presenting a memory to the chat layer.
type MemoryResponse struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Kind     string    `json:"kind"`
	RemindAt time.Time `json:"remind_at"`
}

// ToMemoryResponse converts an entity.Memory to a MemoryResponse DTO.
func ToMemoryResponse(m *entity.Memory) MemoryResponse {
	return MemoryResponse{
		ID:       m.ID,
		Title:    m.Title,
		Content:  m.Content,
		Kind:     m.Kind,
		RemindAt: m.RemindAt,
	}
}

// ToMemoryResponseList converts a slice of entity.Memory to MemoryResponse DTOs.
func ToMemoryResponseList(memories []*entity.Memory) []MemoryResponse {
	list := make([]MemoryResponse, len(memories))
	for i, m := range memories {
		list[i] = ToMemoryResponse(m)
	}
	return list
}
