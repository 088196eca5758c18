package model

import (
	"time"
)

// Case status constants
const (
	CaseStatusReported           = "reported"
	CaseStatusAssigned           = "assigned"
	CaseStatusUnderInvestigation = "under_investigation"
	CaseStatusResolved           = "resolved"
	CaseStatusClosed             = "closed"
	CaseStatusReopened           = "reopened"
)

// Priority / severity levels (shared scale)
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)

// ReleaseMarker is appended to a soft-deleted case's number when the number
// is released for reuse. A number containing the marker is never released
// again.
const ReleaseMarker = "__deleted__"

var CaseStatuses = []string{
	CaseStatusReported,
	CaseStatusAssigned,
	CaseStatusUnderInvestigation,
	CaseStatusResolved,
	CaseStatusClosed,
	CaseStatusReopened,
}

var Levels = []string{LevelLow, LevelMedium, LevelHigh, LevelCritical}

var AbuseTypes = []string{
	"physical",
	"sexual",
	"emotional",
	"neglect",
	"exploitation",
	"abandonment",
	"other",
}

func ValidCaseStatus(s string) bool { return contains(CaseStatuses, s) }
func ValidLevel(s string) bool      { return contains(Levels, s) }
func ValidAbuseType(s string) bool  { return contains(AbuseTypes, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Case is the aggregate root: one reported abuse incident.
//
// Soft delete is an explicit nullable deleted_at column, not a GORM hook;
// every live-case query carries a "deleted_at IS NULL" predicate. The unique
// index on case_number spans deleted rows too, which is why released numbers
// are renamed rather than cleared.
type Case struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CaseNumber  string `gorm:"type:varchar(128);uniqueIndex:idx_case_number;not null" json:"case_number"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	AbuseType   string `gorm:"type:varchar(32);not null;index:idx_case_abuse_type" json:"abuse_type"`
	Priority    string `gorm:"type:varchar(16);not null;default:medium" json:"priority"`
	Severity    string `gorm:"type:varchar(16);not null;default:medium" json:"severity"`
	Status      string `gorm:"type:varchar(32);not null;default:reported;index:idx_case_status" json:"status"`

	Location     string `gorm:"type:varchar(255)" json:"location"`
	LocationType string `gorm:"type:varchar(64)" json:"location_type"`

	IncidentDate *time.Time `json:"incident_date"`
	ReportedAt   time.Time  `gorm:"not null" json:"reported_at"`

	ReporterID uint  `gorm:"index:idx_case_reporter" json:"reporter_id"`
	Reporter   *User `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`

	AssigneeID *uint `gorm:"index:idx_case_assignee" json:"assignee_id"`
	Assignee   *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`

	FollowUpDate      *time.Time `json:"follow_up_date"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	ResolutionDetails string     `gorm:"type:text" json:"resolution_details"`

	Notes          string        `gorm:"type:text" json:"notes"`
	AdditionalInfo JSONMap       `gorm:"type:json" json:"additional_info"`
	EvidenceFiles  EvidenceFiles `gorm:"type:json" json:"evidence_files"`
	PriorReports   int           `gorm:"default:0" json:"prior_reports"`

	DeletedAt *time.Time `gorm:"index:idx_case_deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Victims      []Victim      `gorm:"foreignKey:CaseID" json:"victims,omitempty"`
	Perpetrators []Perpetrator `gorm:"many2many:case_perpetrators;" json:"perpetrators,omitempty"`
	CaseNotes    []CaseNote    `gorm:"foreignKey:CaseID" json:"case_notes,omitempty"`
	History      []CaseHistory `gorm:"foreignKey:CaseID" json:"history,omitempty"`
}

func (Case) TableName() string { return "cases" }

func (c *Case) IsDeleted() bool { return c.DeletedAt != nil }
