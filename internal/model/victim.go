package model

import (
	"time"
)

// Victim is a person harmed in a case. The child-specific fields (guardian
// contact, address history) were folded in from the former standalone Child
// record; CaseID is nullable so a child can be registered before a case is
// opened.
type Victim struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	CaseID *uint `gorm:"index:idx_victim_case" json:"case_id"`
	Case   *Case `gorm:"foreignKey:CaseID" json:"-"`

	FirstName   string     `gorm:"type:varchar(128);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(128)" json:"last_name"`
	Gender      string     `gorm:"type:varchar(16)" json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	GuardianName string `gorm:"type:varchar(128)" json:"guardian_name"`
	// Encrypted at rest; the service layer seals/opens it.
	GuardianPhone  string  `gorm:"type:varchar(512)" json:"guardian_phone,omitempty"`
	Address        string  `gorm:"type:varchar(255)" json:"address"`
	AddressHistory JSONMap `gorm:"type:json" json:"address_history"`
	School         string  `gorm:"type:varchar(128)" json:"school"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Victim) TableName() string { return "victims" }
