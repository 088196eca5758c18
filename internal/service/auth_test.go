package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
	jwtpkg "github.com/chalasimon/Child-Protection-Case-Management-System-sub001/pkg/jwt"
)

const testJWTSecret = "test-secret"

func TestLoginSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTSecret, 24)

	created, err := svc.CreateUser(CreateUserInput{
		Name:     "Focal One",
		Email:    "Focal.One@Example.org",
		Password: "correct horse",
		Role:     string(policy.RoleFocalPerson),
	})
	require.NoError(t, err)
	assert.Equal(t, "focal.one@example.org", created.Email)

	user, token, expireAt, err := svc.Login("focal.one@example.org", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.False(t, expireAt.IsZero())
	require.NotNil(t, user)

	claims, err := jwtpkg.ParseToken(testJWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, string(policy.RoleFocalPerson), claims.Role)

	var stored model.User
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginBadPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTSecret, 24)
	_, err := svc.CreateUser(CreateUserInput{
		Name: "Focal One", Email: "focal@example.org", Password: "correct horse",
		Role: string(policy.RoleFocalPerson),
	})
	require.NoError(t, err)

	_, _, _, err = svc.Login("focal@example.org", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40101")

	_, _, _, err = svc.Login("nobody@example.org", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40101")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTSecret, 24)
	user, err := svc.CreateUser(CreateUserInput{
		Name: "Focal One", Email: "focal@example.org", Password: "correct horse",
		Role: string(policy.RoleFocalPerson),
	})
	require.NoError(t, err)
	_, err = svc.SetActive(user.ID, false)
	require.NoError(t, err)

	_, _, _, err = svc.Login("focal@example.org", "correct horse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40301")
}

func TestCreateUserValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTSecret, 24)

	_, err := svc.CreateUser(CreateUserInput{
		Name: "X", Email: "x@example.org", Password: "pw", Role: "superuser",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role")

	_, err = svc.CreateUser(CreateUserInput{
		Name: "X", Email: "x@example.org", Password: "pw", Role: string(policy.RoleDirector),
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(CreateUserInput{
		Name: "Y", Email: "X@Example.org", Password: "pw", Role: string(policy.RoleDirector),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSeedAdminOnlyOnEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testJWTSecret, 24)

	require.NoError(t, svc.SeedAdmin("admin@example.org", "bootstrap-pw"))

	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// A populated database is left alone.
	require.NoError(t, svc.SeedAdmin("second@example.org", "other-pw"))
	db.Model(&model.User{}).Count(&count)
	assert.EqualValues(t, 1, count)

	var admin model.User
	require.NoError(t, db.Where("email = ?", "admin@example.org").First(&admin).Error)
	assert.Equal(t, string(policy.RoleSystemAdmin), admin.Role)
	assert.True(t, admin.IsActive)
}
