package model

import (
	"time"
)

var PerpetratorRelationships = []string{
	"parent",
	"guardian",
	"relative",
	"teacher",
	"neighbor",
	"stranger",
	"other",
}

func ValidRelationship(s string) bool { return contains(PerpetratorRelationships, s) }

// Perpetrator is a shared entity: one person can be linked to many cases
// through case_perpetrators. FAN and FIN are the two regional identity
// numbers used by the intake forms.
type Perpetrator struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"type:varchar(128);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(128)" json:"last_name"`
	Gender      string     `gorm:"type:varchar(16)" json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	Relationship string `gorm:"type:varchar(32);index:idx_perp_relationship" json:"relationship"`
	FanNumber    string `gorm:"type:varchar(64);index:idx_perp_fan" json:"fan_number"`
	FinNumber    string `gorm:"type:varchar(64);index:idx_perp_fin" json:"fin_number"`
	Address      string `gorm:"type:varchar(255)" json:"address"`

	PreviousOffences bool `gorm:"default:false" json:"previous_offences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cases []Case `gorm:"many2many:case_perpetrators;" json:"cases,omitempty"`
}

func (Perpetrator) TableName() string { return "perpetrators" }

// CasePerpetrator is the explicit join row between a case and a perpetrator.
type CasePerpetrator struct {
	CaseID        uint      `gorm:"primaryKey" json:"case_id"`
	PerpetratorID uint      `gorm:"primaryKey" json:"perpetrator_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CasePerpetrator) TableName() string { return "case_perpetrators" }
