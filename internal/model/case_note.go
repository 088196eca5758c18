package model

import (
	"time"
)

var NoteTypes = []string{"general", "observation", "follow_up", "referral"}

func ValidNoteType(s string) bool { return contains(NoteTypes, s) }

// CaseNote is a free-text annotation on a case. Private notes are only
// visible to supervisory roles and the author.
type CaseNote struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	CaseID   uint  `gorm:"index:idx_note_case;not null" json:"case_id"`
	AuthorID uint  `gorm:"index:idx_note_author;not null" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Content   string `gorm:"type:text;not null" json:"content"`
	NoteType  string `gorm:"type:varchar(32);not null;default:general" json:"note_type"`
	IsPrivate bool   `gorm:"default:false" json:"is_private"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CaseNote) TableName() string { return "case_notes" }
