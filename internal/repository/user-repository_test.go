package repository

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IngrediSense/auth_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.HealthProfile{}))
	return db
}

// low cost keeps the suite fast; production uses 12
const testBcryptCost = 4

func TestCreateUserHashesPassword(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	user, err := repo.CreateUser("Alice", "Alice@Example.com", "sup3rsecret")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email, "email is stored lowercase")
	assert.NotEqual(t, "sup3rsecret", user.Password, "plaintext must never be persisted")
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "expected a bcrypt hash")
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, domain.DefaultAvatar, user.Avatar)
	assert.Nil(t, user.PasswordChangedAt)
}

func TestCreateUserDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	_, err := repo.CreateUser("Alice", "A@x.com", "sup3rsecret")
	require.NoError(t, err)

	_, err = repo.CreateUser("Other Alice", "a@x.com", "anotherpass")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMatchPassword(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	user, err := repo.CreateUser("Bob", "bob@x.com", "correct-horse")
	require.NoError(t, err)

	assert.True(t, repo.MatchPassword(user, "correct-horse"))
	assert.False(t, repo.MatchPassword(user, "wrong-horse"))
	assert.False(t, repo.MatchPassword(user, ""))
	assert.False(t, repo.MatchPassword(nil, "correct-horse"))
}

func TestUpdatePasswordStampsChangedAt(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	user, err := repo.CreateUser("Carol", "carol@x.com", "oldpassword")
	require.NoError(t, err)

	before := time.Now()
	require.NoError(t, repo.UpdatePassword(user, "newpassword1"))

	require.NotNil(t, user.PasswordChangedAt)
	// back-dated so a token minted in the same request is already stale
	assert.True(t, user.PasswordChangedAt.Before(before), "PasswordChangedAt should be back-dated")
	assert.True(t, user.PasswordChangedAt.After(before.Add(-5*time.Second)))

	assert.True(t, repo.MatchPassword(user, "newpassword1"))
	assert.False(t, repo.MatchPassword(user, "oldpassword"))

	// the persisted row agrees with the in-memory user
	stored, err := repo.FindUserById(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordChangedAt)
	assert.Equal(t, user.Password, stored.Password)
}

func TestSaveUserDoesNotRehash(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	user, err := repo.CreateUser("Dave", "dave@x.com", "davepassword")
	require.NoError(t, err)
	originalHash := user.Password

	user.Name = "David"
	require.NoError(t, repo.SaveUser(user))

	stored, err := repo.FindUserById(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "David", stored.Name)
	assert.Equal(t, originalHash, stored.Password, "unrelated saves must not touch the hash")
	assert.Nil(t, stored.PasswordChangedAt)
}

func TestFindUser(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	user, err := repo.CreateUser("Eve", "eve@x.com", "evepassword")
	require.NoError(t, err)

	byEmail, err := repo.FindUserByEmail("EVE@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindUserById(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	_, err = repo.FindUserByEmail("nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.FindUserById(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), testBcryptCost)

	user, err := repo.CreateUser("Frank", "frank@x.com", "frankpassword")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteUser(user.ID))

	_, err = repo.FindUserById(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, repo.DeleteUser(user.ID), ErrUserNotFound)
}
