package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

func TestPerpetratorSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewPerpetratorService(db)

	_, err := svc.Create(PerpetratorInput{
		FirstName: "Kebede", LastName: "Alemu", Relationship: "neighbor", FanNumber: "FAN-1001",
	})
	require.NoError(t, err)
	_, err = svc.Create(PerpetratorInput{
		FirstName: "Alem", LastName: "Tesfaye", Relationship: "stranger", FinNumber: "FIN-2002",
	})
	require.NoError(t, err)

	// Substring match spans first and last names.
	perps, total, err := svc.Search("Alem", "", "", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, perps, 2)

	perps, total, err = svc.Search("Alem", "", "", "neighbor", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, perps, 1)
	assert.Equal(t, "Kebede", perps[0].FirstName)

	_, total, err = svc.Search("", "1001", "", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.Search("", "", "2002", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, _, err = svc.Search("", "", "", "acquaintance", 1, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relationship")
}

func TestPerpetratorLinking(t *testing.T) {
	db := newTestDB(t)
	caseSvc := NewCaseService(db)
	svc := NewPerpetratorService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, caseSvc, reporter.ID, CreateCaseInput{})

	perp, err := svc.Create(PerpetratorInput{FirstName: "Kebede", Relationship: "relative"})
	require.NoError(t, err)

	require.NoError(t, svc.LinkToCase(kase.ID, perp.ID, reporter.ID))

	err = svc.LinkToCase(kase.ID, perp.ID, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already linked")

	loaded, err := svc.GetByID(perp.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Cases, 1)
	assert.Equal(t, kase.ID, loaded.Cases[0].ID)

	require.NoError(t, svc.UnlinkFromCase(kase.ID, perp.ID, reporter.ID))
	err = svc.UnlinkFromCase(kase.ID, perp.ID, reporter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40401")
}

func TestPerpetratorLinkedCasesHideDeleted(t *testing.T) {
	db := newTestDB(t)
	caseSvc := NewCaseService(db)
	svc := NewPerpetratorService(db)
	reporter := seedUser(t, db, "Focal One", policy.RoleFocalPerson)
	kase := seedCase(t, db, caseSvc, reporter.ID, CreateCaseInput{})

	perp, err := svc.Create(PerpetratorInput{FirstName: "Kebede"})
	require.NoError(t, err)
	require.NoError(t, svc.LinkToCase(kase.ID, perp.ID, reporter.ID))

	require.NoError(t, caseSvc.SoftDelete(kase.ID, reporter.ID))

	loaded, err := svc.GetByID(perp.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Cases)

	// The join row outlives the soft delete; only the view is filtered.
	var count int64
	db.Model(&model.CasePerpetrator{}).Where("perpetrator_id = ?", perp.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPerpetratorCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPerpetratorService(db)

	_, err := svc.Create(PerpetratorInput{FirstName: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first_name")

	_, err = svc.Create(PerpetratorInput{FirstName: "Kebede", Relationship: "coach"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relationship")
}
