package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/IngrediSense/auth_service/internal/domain"
	"github.com/IngrediSense/auth_service/internal/helper"
	"github.com/IngrediSense/auth_service/internal/helper/utils"
	"github.com/IngrediSense/auth_service/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testAccessSecret = "access-secret-for-tests"

type middlewareFixture struct {
	app  *fiber.App
	auth helper.Auth
	repo repository.UserRepository
	user *domain.User
}

func setupFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	repo := repository.NewUserRepository(db, 4)
	user, err := repo.CreateUser("Guarded User", "guarded@example.com", "password123")
	require.NoError(t, err)

	auth := helper.SetupAuth(testAccessSecret, "refresh-secret-for-tests", time.Hour, 7*24*time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler("test")})

	app.Get("/protected", Protect(auth, repo), func(ctx *fiber.Ctx) error {
		user, err := CurrentUser(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{"email": user.Email})
	})
	app.Get("/admin", Protect(auth, repo), Authorize(domain.RoleAdmin), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	app.Get("/open", OptionalAuth(auth, repo), func(ctx *fiber.Ctx) error {
		if _, err := CurrentUser(ctx); err != nil {
			return ctx.JSON(fiber.Map{"anonymous": true})
		}
		return ctx.JSON(fiber.Map{"anonymous": false})
	})

	return &middlewareFixture{app: app, auth: auth, repo: repo, user: user}
}

func (f *middlewareFixture) request(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	res, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

// signedAt mints an access token with an arbitrary issue time.
func signedAt(t *testing.T, userID uint, issuedAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)
	return signed
}

func TestProtectAllowsValidToken(t *testing.T) {
	f := setupFixture(t)

	token, err := f.auth.SignAccess(f.user.ID)
	require.NoError(t, err)

	res := f.request(t, "/protected", token)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestProtectRejectsMissingHeader(t *testing.T) {
	f := setupFixture(t)

	res := f.request(t, "/protected", "")
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestProtectRejectsGarbageToken(t *testing.T) {
	f := setupFixture(t)

	res := f.request(t, "/protected", "definitely.not.a.jwt")
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestProtectRejectsDeletedUser(t *testing.T) {
	f := setupFixture(t)

	token, err := f.auth.SignAccess(f.user.ID)
	require.NoError(t, err)
	require.NoError(t, f.repo.DeleteUser(f.user.ID))

	res := f.request(t, "/protected", token)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestProtectRejectsTokenIssuedBeforePasswordChange(t *testing.T) {
	f := setupFixture(t)

	stale := signedAt(t, f.user.ID, time.Now().Add(-time.Hour))
	require.NoError(t, f.repo.UpdatePassword(f.user, "newpassword456"))

	res := f.request(t, "/protected", stale)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	// a token minted after the change goes through
	fresh, err := f.auth.SignAccess(f.user.ID)
	require.NoError(t, err)
	res = f.request(t, "/protected", fresh)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestAuthorizeRejectsWrongRole(t *testing.T) {
	f := setupFixture(t)

	token, err := f.auth.SignAccess(f.user.ID)
	require.NoError(t, err)

	res := f.request(t, "/admin", token)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestAuthorizeAllowsMatchingRole(t *testing.T) {
	f := setupFixture(t)

	f.user.Role = domain.RoleAdmin
	require.NoError(t, f.repo.SaveUser(f.user))

	token, err := f.auth.SignAccess(f.user.ID)
	require.NoError(t, err)

	res := f.request(t, "/admin", token)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestOptionalAuthDegradesToAnonymous(t *testing.T) {
	f := setupFixture(t)

	res := f.request(t, "/open", "")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res = f.request(t, "/open", "garbage-token")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	token, err := f.auth.SignAccess(f.user.ID)
	require.NoError(t, err)
	res = f.request(t, "/open", token)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}
