package entity

import "github.com/game-hipe/remembering/internal/domain/constant"

// User represents a registered chat user and their composition state.
type User struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	ChatID string `gorm:"column:chat_id;uniqueIndex;size:64"`
	Name   string `gorm:"column:name;size:255"`
	// NotifyInterval is a per-user reminder cadence in seconds. The notifier
	// currently applies one global interval to everyone; the field is kept as
	// an extension point.
	NotifyInterval int      `gorm:"column:notify_interval;default:300"`
	Status         int      `gorm:"column:status"`
	DraftID        *uint    `gorm:"column:draft_id"` // memory currently being composed
	Memories       []Memory `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User entity.
func (User) TableName() string {
	return "user"
}

// GetStatus returns the user status as a UserStatus type.
func (u *User) GetStatus() constant.UserStatus {
	return constant.UserStatus(u.Status)
}

// SetStatus sets the user status.
func (u *User) SetStatus(status constant.UserStatus) {
	u.Status = status.Int()
}
