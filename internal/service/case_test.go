package service

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

func TestCreateCaseDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)

	kase, err := svc.Create(CreateCaseInput{
		Title:     "  Reported at school  ",
		AbuseType: "physical",
	}, reporter.ID)
	require.NoError(t, err)

	assert.Equal(t, "Reported at school", kase.Title)
	assert.Equal(t, model.CaseStatusReported, kase.Status)
	assert.Equal(t, model.LevelMedium, kase.Priority)
	assert.Equal(t, model.LevelMedium, kase.Severity)
	assert.Equal(t, reporter.ID, kase.ReporterID)

	pattern := fmt.Sprintf(`^CASE-%d-\d{4}$`, time.Now().Year())
	assert.Regexp(t, regexp.MustCompile(pattern), kase.CaseNumber)

	assert.Equal(t, []string{model.HistoryCreated}, historyActions(t, db, kase.ID))
}

func TestCreateCaseValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)

	_, err := svc.Create(CreateCaseInput{AbuseType: "physical"}, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001")

	_, err = svc.Create(CreateCaseInput{Title: "x", AbuseType: "cyber"}, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abuse_type")

	_, err = svc.Create(CreateCaseInput{Title: "x", AbuseType: "physical", Priority: "urgent"}, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "priority")
}

func TestCaseNumberSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)

	prefix := fmt.Sprintf("CASE-%d-", time.Now().Year())
	first := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})
	second := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	assert.Equal(t, prefix+"0001", first.CaseNumber)
	assert.Equal(t, prefix+"0002", second.CaseNumber)
}

func TestCaseNumberReuseAfterRelease(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)

	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})
	number := kase.CaseNumber

	require.NoError(t, svc.SoftDelete(kase.ID, reporter.ID))
	_, err := NewReleaseService(db).ReleaseDeletedCaseNumbers(false)
	require.NoError(t, err)

	// The released value is out of the live sequence, so the next case gets
	// the same number back.
	next := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})
	assert.Equal(t, number, next.CaseNumber)
}

func TestUpdateStatusOnlyWritesOneHistoryRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	updated, err := svc.Update(kase.ID, map[string]interface{}{"status": model.CaseStatusAssigned}, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusAssigned, updated.Status)

	actions := historyActions(t, db, kase.ID)
	assert.Equal(t, []string{model.HistoryCreated, model.HistoryStatusChanged}, actions)

	var entry model.CaseHistory
	require.NoError(t, db.Where("case_id = ? AND action = ?", kase.ID, model.HistoryStatusChanged).First(&entry).Error)
	assert.Equal(t, "Status changed from reported to assigned", entry.Description)
}

func TestUpdateAssigneeWritesAssignedHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	assignee := seedUser(t, db, "Focal Two", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	updated, err := svc.Update(kase.ID, map[string]interface{}{"assignee_id": &assignee.ID}, reporter.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee.ID, *updated.AssigneeID)

	actions := historyActions(t, db, kase.ID)
	assert.Equal(t, []string{model.HistoryCreated, model.HistoryAssigned}, actions)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	_, err := svc.Update(kase.ID, map[string]interface{}{"status": "archived"}, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001")

	// Nothing changed, nothing logged.
	assert.Equal(t, []string{model.HistoryCreated}, historyActions(t, db, kase.ID))
}

func TestUpdateInactiveAssigneeRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	assignee := seedUser(t, db, "Focal Two", policy.RoleFocalPerson)
	require.NoError(t, db.Model(assignee).Update("is_active", false).Error)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	_, err := svc.Update(kase.ID, map[string]interface{}{"assignee_id": &assignee.ID}, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignee")
}

func TestSoftDeleteHidesCase(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	require.NoError(t, svc.SoftDelete(kase.ID, reporter.ID))

	_, err := svc.GetByID(kase.ID, false, reporter.ID, policy.RoleFocalPerson)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40401")

	cases, total, err := svc.List(CaseListFilters{}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, cases)
	assert.Zero(t, total)

	// The row survives; an admin can still reach it.
	trashed, err := svc.GetByID(kase.ID, true, reporter.ID, policy.RoleSystemAdmin)
	require.NoError(t, err)
	assert.True(t, trashed.IsDeleted())
	assert.Contains(t, historyActions(t, db, kase.ID), model.HistoryDeleted)
}

func TestSoftDeleteTwiceIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	require.NoError(t, svc.SoftDelete(kase.ID, reporter.ID))
	err := svc.SoftDelete(kase.ID, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40401")
}

func TestPrivateNoteVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	author := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	other := seedUser(t, db, "Focal Two", policy.RoleFocalPerson)
	director := seedUser(t, db, "The Director", policy.RoleDirector)
	kase := seedCase(t, db, svc, author.ID, CreateCaseInput{})

	_, err := svc.AddNote(kase.ID, author.ID, "public observation", "observation", false)
	require.NoError(t, err)
	_, err = svc.AddNote(kase.ID, author.ID, "sensitive detail", "general", true)
	require.NoError(t, err)

	byAuthor, err := svc.GetByID(kase.ID, false, author.ID, policy.RoleFocalPerson)
	require.NoError(t, err)
	assert.Len(t, byAuthor.CaseNotes, 2)

	byOther, err := svc.GetByID(kase.ID, false, other.ID, policy.RoleFocalPerson)
	require.NoError(t, err)
	require.Len(t, byOther.CaseNotes, 1)
	assert.Equal(t, "public observation", byOther.CaseNotes[0].Content)

	byDirector, err := svc.GetByID(kase.ID, false, director.ID, policy.RoleDirector)
	require.NoError(t, err)
	assert.Len(t, byDirector.CaseNotes, 2)
}

func TestAddNoteValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	author := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, author.ID, CreateCaseInput{})

	_, err := svc.AddNote(kase.ID, author.ID, "   ", "general", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001")

	_, err = svc.AddNote(kase.ID, author.ID, "content", "rant", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note_type")

	note, err := svc.AddNote(kase.ID, author.ID, "content", "", false)
	require.NoError(t, err)
	assert.Equal(t, "general", note.NoteType)
}

func TestAddEvidenceAppends(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	author := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, author.ID, CreateCaseInput{})

	withOne, err := svc.AddEvidence(kase.ID, "intake-form.pdf", author.ID)
	require.NoError(t, err)
	require.Len(t, withOne.EvidenceFiles, 1)
	assert.NotEmpty(t, withOne.EvidenceFiles[0].ID)
	assert.Equal(t, "intake-form.pdf", withOne.EvidenceFiles[0].Name)

	withTwo, err := svc.AddEvidence(kase.ID, "photo.jpg", author.ID)
	require.NoError(t, err)
	assert.Len(t, withTwo.EvidenceFiles, 2)
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)

	seedCase(t, db, svc, reporter.ID, CreateCaseInput{Title: "Neglect at home", AbuseType: "neglect"})
	physical := seedCase(t, db, svc, reporter.ID, CreateCaseInput{Title: "Playground incident", AbuseType: "physical"})
	_, err := svc.Update(physical.ID, map[string]interface{}{"status": model.CaseStatusAssigned}, reporter.ID)
	require.NoError(t, err)

	cases, total, err := svc.List(CaseListFilters{AbuseType: "physical"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, cases, 1)
	assert.Equal(t, "Playground incident", cases[0].Title)

	_, total, err = svc.List(CaseListFilters{Status: model.CaseStatusReported}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.List(CaseListFilters{Keyword: "Playground"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestListHistoryOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, svc, reporter.ID, CreateCaseInput{})

	_, err := svc.Update(kase.ID, map[string]interface{}{"status": model.CaseStatusAssigned}, reporter.ID)
	require.NoError(t, err)
	_, err = svc.AddNote(kase.ID, reporter.ID, "first visit done", "follow_up", false)
	require.NoError(t, err)

	entries, total, err := svc.ListHistory(kase.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 3)
	assert.Equal(t, model.HistoryCreated, entries[0].Action)
	assert.Equal(t, model.HistoryNoteAdded, entries[2].Action)
}
