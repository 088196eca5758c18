package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/notify"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

type CaseService struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewCaseService(db *gorm.DB) *CaseService {
	return &CaseService{db: db, notifier: notify.NoopNotifier{}}
}

func (s *CaseService) SetNotifier(n notify.Notifier) {
	if n != nil {
		s.notifier = n
	}
}

// live scopes a query to non-deleted cases. Soft delete is an explicit
// column, so the predicate has to appear on every read path.
func live(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

type CreateCaseInput struct {
	Title          string
	Description    string
	AbuseType      string
	Priority       string
	Severity       string
	Location       string
	LocationType   string
	IncidentDate   *time.Time
	AssigneeID     *uint
	Notes          string
	AdditionalInfo model.JSONMap
	PriorReports   int
}

func (s *CaseService) Create(in CreateCaseInput, reporterID uint) (*model.Case, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("40001:title is required")
	}
	if in.AbuseType == "" {
		return nil, fmt.Errorf("40001:abuse_type is required")
	}
	if !model.ValidAbuseType(in.AbuseType) {
		return nil, fmt.Errorf("40001:unknown abuse_type %q", in.AbuseType)
	}
	if in.Priority == "" {
		in.Priority = model.LevelMedium
	}
	if in.Severity == "" {
		in.Severity = model.LevelMedium
	}
	if !model.ValidLevel(in.Priority) {
		return nil, fmt.Errorf("40001:unknown priority %q", in.Priority)
	}
	if !model.ValidLevel(in.Severity) {
		return nil, fmt.Errorf("40001:unknown severity %q", in.Severity)
	}
	if in.AssigneeID != nil {
		var count int64
		s.db.Model(&model.User{}).Where("id = ? AND is_active = ?", *in.AssigneeID, true).Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("40001:assignee not found or inactive")
		}
	}

	now := time.Now()
	kase := &model.Case{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		AbuseType:      in.AbuseType,
		Priority:       in.Priority,
		Severity:       in.Severity,
		Status:         model.CaseStatusReported,
		Location:       in.Location,
		LocationType:   in.LocationType,
		IncidentDate:   in.IncidentDate,
		ReportedAt:     now,
		ReporterID:     reporterID,
		AssigneeID:     in.AssigneeID,
		Notes:          in.Notes,
		AdditionalInfo: in.AdditionalInfo,
		PriorReports:   in.PriorReports,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		number, err := nextCaseNumber(tx, now)
		if err != nil {
			return err
		}
		kase.CaseNumber = number
		if err := tx.Create(kase).Error; err != nil {
			return err
		}
		history := &model.CaseHistory{
			CaseID:      kase.ID,
			UserID:      reporterID,
			Action:      model.HistoryCreated,
			Description: fmt.Sprintf("Case %s created", kase.CaseNumber),
		}
		return tx.Create(history).Error
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Reporter").Preload("Assignee").First(kase, kase.ID)
	if kase.AssigneeID != nil && kase.Assignee != nil {
		_ = s.notifier.NotifyCaseCreated(context.Background(), notify.CaseCreatedEvent{
			CaseID:       kase.ID,
			CaseNumber:   kase.CaseNumber,
			Title:        kase.Title,
			Priority:     kase.Priority,
			AssigneeName: kase.Assignee.Name,
		})
	}
	return kase, nil
}

// nextCaseNumber produces CASE-<year>-<seq>, scanning past numbers for the
// year. Released numbers carry the deletion marker and are excluded, so a
// released value can be handed out again without tripping the unique index.
func nextCaseNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("CASE-%d-", now.Year())
	var numbers []string
	err := tx.Model(&model.Case{}).
		Where("case_number LIKE ? AND case_number NOT LIKE ?", prefix+"%", "%"+model.ReleaseMarker+"%").
		Order("length(case_number) desc").
		Order("case_number desc").
		Limit(1).
		Pluck("case_number", &numbers).Error
	if err != nil {
		return "", err
	}
	seq := 1
	if len(numbers) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(numbers[0], prefix))
		if err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// GetByID assembles the case graph: victims in creation order, linked
// perpetrators, notes filtered by the viewer's visibility, and chronological
// history. includeTrashed is the admin recovery path.
func (s *CaseService) GetByID(id uint, includeTrashed bool, viewerID uint, viewerRole policy.Role) (*model.Case, error) {
	query := s.db.
		Preload("Reporter").
		Preload("Assignee").
		Preload("Victims", func(db *gorm.DB) *gorm.DB { return db.Order("victims.created_at asc") }).
		Preload("Perpetrators").
		Preload("CaseNotes", func(db *gorm.DB) *gorm.DB { return db.Order("case_notes.created_at asc") }).
		Preload("CaseNotes.Author").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("case_histories.created_at asc") }).
		Preload("History.User")
	if !includeTrashed {
		query = live(query)
	}

	var kase model.Case
	if err := query.First(&kase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:case not found")
		}
		return nil, err
	}
	kase.CaseNotes = FilterNotes(kase.CaseNotes, viewerID, viewerRole)
	return &kase, nil
}

// FilterNotes drops private notes the viewer may not see: private notes are
// visible to system_admin, director, and the note's author only.
func FilterNotes(notes []model.CaseNote, viewerID uint, viewerRole policy.Role) []model.CaseNote {
	if viewerRole == policy.RoleSystemAdmin || viewerRole == policy.RoleDirector {
		return notes
	}
	visible := make([]model.CaseNote, 0, len(notes))
	for _, n := range notes {
		if !n.IsPrivate || n.AuthorID == viewerID {
			visible = append(visible, n)
		}
	}
	return visible
}

type CaseListFilters struct {
	Status     string
	AbuseType  string
	AssigneeID *uint
	From       *time.Time
	To         *time.Time
	Keyword    string
}

func (s *CaseService) List(f CaseListFilters, page, pageSize int) ([]model.Case, int64, error) {
	query := live(s.db.Model(&model.Case{}))
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.AbuseType != "" {
		query = query.Where("abuse_type = ?", f.AbuseType)
	}
	if f.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *f.AssigneeID)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}
	if f.Keyword != "" {
		query = query.Where("title LIKE ? OR case_number LIKE ?", "%"+f.Keyword+"%", "%"+f.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var cases []model.Case
	if err := query.Preload("Reporter").Preload("Assignee").
		Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&cases).Error; err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Update applies a partial update to a live case. Status and assignee
// changes each append their own history row; any other changed fields get a
// single "updated" row. The mutation and its history rows share one
// transaction.
func (s *CaseService) Update(id uint, updates map[string]interface{}, actorID uint) (*model.Case, error) {
	var kase model.Case
	if err := live(s.db).First(&kase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:case not found")
		}
		return nil, err
	}

	if v, ok := updates["status"]; ok {
		status, _ := v.(string)
		if !model.ValidCaseStatus(status) {
			return nil, fmt.Errorf("40001:unknown status %q", status)
		}
	}
	if v, ok := updates["priority"]; ok {
		if p, _ := v.(string); !model.ValidLevel(p) {
			return nil, fmt.Errorf("40001:unknown priority %q", v)
		}
	}
	if v, ok := updates["severity"]; ok {
		if sv, _ := v.(string); !model.ValidLevel(sv) {
			return nil, fmt.Errorf("40001:unknown severity %q", v)
		}
	}
	if v, ok := updates["abuse_type"]; ok {
		if at, _ := v.(string); !model.ValidAbuseType(at) {
			return nil, fmt.Errorf("40001:unknown abuse_type %q", v)
		}
	}

	oldStatus := kase.Status
	newStatus, statusChanged := changedStatus(updates, oldStatus)
	newAssignee, assigneeChanged := changedAssignee(updates, kase.AssigneeID)
	if assigneeChanged && newAssignee != nil {
		var count int64
		s.db.Model(&model.User{}).Where("id = ? AND is_active = ?", *newAssignee, true).Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("40001:assignee not found or inactive")
		}
	}

	otherKeys := make([]string, 0, len(updates))
	for k := range updates {
		if k != "status" && k != "assignee_id" {
			otherKeys = append(otherKeys, k)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Case{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if statusChanged {
			history := &model.CaseHistory{
				CaseID:      id,
				UserID:      actorID,
				Action:      model.HistoryStatusChanged,
				Description: fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
				Changes:     model.JSONMap{"status": map[string]interface{}{"old": oldStatus, "new": newStatus}},
			}
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}
		if assigneeChanged {
			history := &model.CaseHistory{
				CaseID:      id,
				UserID:      actorID,
				Action:      model.HistoryAssigned,
				Description: assignmentDescription(tx, newAssignee),
				Changes:     model.JSONMap{"assignee_id": map[string]interface{}{"old": kase.AssigneeID, "new": newAssignee}},
			}
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}
		if len(otherKeys) > 0 {
			history := &model.CaseHistory{
				CaseID:      id,
				UserID:      actorID,
				Action:      model.HistoryUpdated,
				Description: "Case details updated",
				Changes:     model.JSONMap{"fields": otherKeys},
			}
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated model.Case
	if err := live(s.db).Preload("Reporter").Preload("Assignee").First(&updated, id).Error; err != nil {
		return nil, err
	}
	if assigneeChanged && updated.Assignee != nil {
		var actor model.User
		s.db.First(&actor, actorID)
		_ = s.notifier.NotifyCaseAssigned(context.Background(), notify.CaseAssignedEvent{
			CaseID:       updated.ID,
			CaseNumber:   updated.CaseNumber,
			Title:        updated.Title,
			Priority:     updated.Priority,
			AssignerName: actor.Name,
			AssigneeName: updated.Assignee.Name,
		})
	}
	return &updated, nil
}

func changedStatus(updates map[string]interface{}, current string) (string, bool) {
	v, ok := updates["status"]
	if !ok {
		return current, false
	}
	status, _ := v.(string)
	return status, status != current
}

func changedAssignee(updates map[string]interface{}, current *uint) (*uint, bool) {
	v, ok := updates["assignee_id"]
	if !ok {
		return current, false
	}
	next, _ := v.(*uint)
	if next == nil && current == nil {
		return nil, false
	}
	if next != nil && current != nil && *next == *current {
		return next, false
	}
	return next, true
}

func assignmentDescription(tx *gorm.DB, assigneeID *uint) string {
	if assigneeID == nil {
		return "Case unassigned"
	}
	var assignee model.User
	if err := tx.First(&assignee, *assigneeID).Error; err != nil {
		return "Case assigned"
	}
	return fmt.Sprintf("Case assigned to %s", assignee.Name)
}

// SoftDelete marks the case deleted and keeps the row. The case number stays
// reserved until ReleaseDeletedCaseNumbers renames it.
func (s *CaseService) SoftDelete(id uint, actorID uint) error {
	var kase model.Case
	if err := live(s.db).First(&kase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("40401:case not found")
		}
		return err
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Case{}).Where("id = ?", id).Update("deleted_at", &now).Error; err != nil {
			return err
		}
		history := &model.CaseHistory{
			CaseID:      id,
			UserID:      actorID,
			Action:      model.HistoryDeleted,
			Description: fmt.Sprintf("Case %s deleted", kase.CaseNumber),
		}
		return tx.Create(history).Error
	})
}

func (s *CaseService) AddNote(caseID, authorID uint, content, noteType string, isPrivate bool) (*model.CaseNote, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("40001:note content is required")
	}
	if noteType == "" {
		noteType = "general"
	}
	if !model.ValidNoteType(noteType) {
		return nil, fmt.Errorf("40001:unknown note_type %q", noteType)
	}
	if err := live(s.db).First(&model.Case{}, caseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:case not found")
		}
		return nil, err
	}

	note := &model.CaseNote{
		CaseID:    caseID,
		AuthorID:  authorID,
		Content:   content,
		NoteType:  noteType,
		IsPrivate: isPrivate,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		history := &model.CaseHistory{
			CaseID:      caseID,
			UserID:      authorID,
			Action:      model.HistoryNoteAdded,
			Description: fmt.Sprintf("Note added (%s)", noteType),
		}
		return tx.Create(history).Error
	})
	if err != nil {
		return nil, err
	}
	s.db.Preload("Author").First(note, note.ID)
	return note, nil
}

// AddEvidence appends an evidence file reference to the case. The file
// itself is stored elsewhere; the reference gets a generated id.
func (s *CaseService) AddEvidence(caseID uint, name string, actorID uint) (*model.Case, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("40001:evidence file name is required")
	}
	var kase model.Case
	if err := live(s.db).First(&kase, caseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:case not found")
		}
		return nil, err
	}

	entry := model.EvidenceFile{
		ID:         uuid.New().String(),
		Name:       name,
		UploadedAt: time.Now(),
	}
	files := append(kase.EvidenceFiles, entry)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Case{}).Where("id = ?", caseID).Update("evidence_files", files).Error; err != nil {
			return err
		}
		history := &model.CaseHistory{
			CaseID:      caseID,
			UserID:      actorID,
			Action:      model.HistoryUpdated,
			Description: fmt.Sprintf("Evidence file %q attached", name),
			Changes:     model.JSONMap{"evidence_file": entry.ID},
		}
		return tx.Create(history).Error
	})
	if err != nil {
		return nil, err
	}
	kase.EvidenceFiles = files
	return &kase, nil
}

// ListHistory returns the audit trail for a case, oldest first.
func (s *CaseService) ListHistory(caseID uint, page, pageSize int) ([]model.CaseHistory, int64, error) {
	if err := s.db.First(&model.Case{}, caseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, fmt.Errorf("40401:case not found")
		}
		return nil, 0, err
	}
	query := s.db.Model(&model.CaseHistory{}).Where("case_id = ?", caseID)

	var total int64
	query.Count(&total)

	var entries []model.CaseHistory
	if err := query.Preload("User").Order("created_at asc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
