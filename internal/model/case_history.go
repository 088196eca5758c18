package model

import (
	"time"
)

// History actions
const (
	HistoryCreated       = "created"
	HistoryUpdated       = "updated"
	HistoryAssigned      = "assigned"
	HistoryStatusChanged = "status_changed"
	HistoryNoteAdded     = "note_added"
	HistoryDeleted       = "deleted"
)

// CaseHistory is an append-only audit entry per case. Rows are written as a
// side effect of mutating operations, inside the same transaction, and are
// never updated or deleted afterwards.
type CaseHistory struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	CaseID uint  `gorm:"index:idx_history_case;not null" json:"case_id"`
	UserID uint  `gorm:"index:idx_history_user" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Action      string  `gorm:"type:varchar(32);not null" json:"action"`
	Description string  `gorm:"type:varchar(512)" json:"description"`
	Changes     JSONMap `gorm:"type:json" json:"changes"`

	CreatedAt time.Time `gorm:"index:idx_history_created_at" json:"created_at"`
}

func (CaseHistory) TableName() string { return "case_histories" }
