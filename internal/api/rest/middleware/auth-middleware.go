package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/IngrediSense/auth_service/internal/domain"
	"github.com/IngrediSense/auth_service/internal/helper"
	"github.com/IngrediSense/auth_service/internal/repository"
	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "user"

// Protect gates a route behind a valid access token. The loaded user is
// attached to the request context; tokens issued before the user's last
// password change are rejected.
func Protect(auth helper.Auth, repo repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := resolveUser(ctx, auth, repo)
		if err != nil {
			return err
		}
		ctx.Locals(localsUserKey, user)
		return ctx.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but degrades
// to anonymous on any failure.
func OptionalAuth(auth helper.Auth, repo repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := resolveUser(ctx, auth, repo)
		if err == nil {
			ctx.Locals(localsUserKey, user)
		}
		return ctx.Next()
	}
}

// Authorize composes after Protect and rejects users whose role is not in
// the allowed set.
func Authorize(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := CurrentUser(ctx)
		if err != nil {
			return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
		}
		for _, role := range roles {
			if user.Role == role {
				return ctx.Next()
			}
		}
		return apperr.New(apperr.Forbidden, "You do not have permission to perform this action.")
	}
}

// CurrentUser returns the user Protect attached to the request.
func CurrentUser(ctx *fiber.Ctx) (*domain.User, error) {
	user, ok := ctx.Locals(localsUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, errors.New("missing auth user in context")
	}
	return user, nil
}

func resolveUser(ctx *fiber.Ctx, auth helper.Auth, repo repository.UserRepository) (*domain.User, error) {
	header := strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return nil, apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	claims, err := auth.VerifyAccess(token)
	if err != nil {
		// Detail stays in the log; callers only learn the token was bad.
		log.Printf("token verification failed: %v", err)
		return nil, apperr.New(apperr.Unauthorized, "Invalid or expired token. Please log in again.")
	}

	user, err := repo.FindUserById(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.Unauthorized, "User no longer exists. Please log in again.")
		}
		return nil, err
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, apperr.New(apperr.Unauthorized, "Password was recently changed. Please log in again.")
	}

	return user, nil
}
