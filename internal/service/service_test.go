package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

// newTestDB opens an in-memory database named after the test so parallel
// tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Case{},
		&model.Victim{},
		&model.Perpetrator{},
		&model.CasePerpetrator{},
		&model.CaseNote{},
		&model.CaseHistory{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role policy.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.org",
		Password: "not-a-real-hash",
		Role:     string(role),
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCase(t *testing.T, db *gorm.DB, svc *CaseService, reporterID uint, in CreateCaseInput) *model.Case {
	t.Helper()
	if in.Title == "" {
		in.Title = "Seeded case"
	}
	if in.AbuseType == "" {
		in.AbuseType = "neglect"
	}
	kase, err := svc.Create(in, reporterID)
	require.NoError(t, err)
	return kase
}

func historyActions(t *testing.T, db *gorm.DB, caseID uint) []string {
	t.Helper()
	var entries []model.CaseHistory
	require.NoError(t, db.Where("case_id = ?", caseID).Order("id asc").Find(&entries).Error)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}
