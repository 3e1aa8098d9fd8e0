package entity

import (
	"time"

	"github.com/game-hipe/remembering/internal/domain/constant"
)

// Memory represents a stored reminder with optional media and a due timestamp.
type Memory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;index"`
	Title     string    `gorm:"column:title;size:255"`
	Content   string    `gorm:"column:content;size:2048"`
	Kind      string    `gorm:"column:kind;size:10"`
	MediaPath *string   `gorm:"column:media_path;size:2048"`
	RemindAt  time.Time `gorm:"column:remind_at"`
}

// TableName specifies the table name for the Memory entity.
func (Memory) TableName() string {
	return "memory"
}

// GetKind returns the kind as a MemoryKind type.
func (m *Memory) GetKind() constant.MemoryKind {
	return constant.MemoryKind(m.Kind)
}

// Due reports whether the memory's remind time has passed at now. The check
// is pure: an overdue memory stays due on every evaluation until RemindAt is
// advanced or the memory is deleted.
func (m *Memory) Due(now time.Time) bool {
	return !m.RemindAt.After(now)
}
