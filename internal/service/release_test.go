package service

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

func TestReleaseDryRunDoesNotPersist(t *testing.T) {
	db := newTestDB(t)
	caseSvc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, caseSvc, reporter.ID, CreateCaseInput{})
	number := kase.CaseNumber
	require.NoError(t, caseSvc.SoftDelete(kase.ID, reporter.ID))

	result, err := NewReleaseService(db).ReleaseDeletedCaseNumbers(true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	require.Len(t, result.Released, 1)
	assert.Equal(t, number, result.Released[0].OldNumber)

	var stored model.Case
	require.NoError(t, db.First(&stored, kase.ID).Error)
	assert.Equal(t, number, stored.CaseNumber)
}

func TestReleaseRenamesDeletedNumbers(t *testing.T) {
	db := newTestDB(t)
	caseSvc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)

	kept := seedCase(t, db, caseSvc, reporter.ID, CreateCaseInput{})
	deleted := seedCase(t, db, caseSvc, reporter.ID, CreateCaseInput{})
	require.NoError(t, caseSvc.SoftDelete(deleted.ID, reporter.ID))

	result, err := NewReleaseService(db).ReleaseDeletedCaseNumbers(false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	require.Len(t, result.Released, 1)
	assert.Zero(t, result.Skipped)

	var renamed model.Case
	require.NoError(t, db.First(&renamed, deleted.ID).Error)
	pattern := fmt.Sprintf(`^%s__deleted__%d__\d{14}$`, regexp.QuoteMeta(deleted.CaseNumber), deleted.ID)
	assert.Regexp(t, regexp.MustCompile(pattern), renamed.CaseNumber)

	// Live cases are untouched.
	var untouched model.Case
	require.NoError(t, db.First(&untouched, kept.ID).Error)
	assert.Equal(t, kept.CaseNumber, untouched.CaseNumber)
}

func TestReleaseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	caseSvc := NewCaseService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, caseSvc, reporter.ID, CreateCaseInput{})
	require.NoError(t, caseSvc.SoftDelete(kase.ID, reporter.ID))

	svc := NewReleaseService(db)
	first, err := svc.ReleaseDeletedCaseNumbers(false)
	require.NoError(t, err)
	require.Len(t, first.Released, 1)

	var afterFirst model.Case
	require.NoError(t, db.First(&afterFirst, kase.ID).Error)

	// A second run sees the marker and leaves the number alone.
	second, err := svc.ReleaseDeletedCaseNumbers(false)
	require.NoError(t, err)
	assert.Empty(t, second.Released)
	assert.Equal(t, 1, second.Skipped)

	var afterSecond model.Case
	require.NoError(t, db.First(&afterSecond, kase.ID).Error)
	assert.Equal(t, afterFirst.CaseNumber, afterSecond.CaseNumber)
}
