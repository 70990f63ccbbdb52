package handlers

import (
	"strings"

	"github.com/IngrediSense/auth_service/internal/api/rest/middleware"
	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/IngrediSense/auth_service/internal/dto"
	"github.com/IngrediSense/auth_service/internal/helper/utils"
	"github.com/IngrediSense/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SetupRoutes(api fiber.Router, protect fiber.Handler) {
	auth := api.Group("/auth")

	// Public
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh-token", h.RefreshToken)
	auth.Post("/logout", h.Logout)

	// Protected
	auth.Get("/me", protect, h.Me)
	auth.Put("/profile", protect, h.UpdateProfile)
	auth.Put("/change-password", protect, h.ChangePassword)
	auth.Delete("/account", protect, h.DeleteAccount)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Please provide valid inputs")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperr.New(apperr.BadRequest, "Please provide name, email and password")
	}

	resp, err := h.svc.Register(req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "User registered successfully", resp)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Please provide email and password")
	}
	if req.Email == "" || req.Password == "" {
		return apperr.New(apperr.BadRequest, "Please provide email and password")
	}

	resp, err := h.svc.Login(req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) RefreshToken(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Refresh token is required")
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		return apperr.New(apperr.BadRequest, "Refresh token is required")
	}

	pair, err := h.svc.RefreshTokens(req.RefreshToken)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Token refreshed successfully", pair)
}

// Logout is a stateless no-op server-side; tokens live only on the client.
func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Logged out successfully. Please remove tokens from client.", nil)
}

func (h *AuthHandler) Me(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	view, err := h.svc.GetSelf(user.ID)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "", fiber.Map{"user": view})
}

func (h *AuthHandler) UpdateProfile(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Please provide valid inputs")
	}

	view, err := h.svc.UpdateProfile(user.ID, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": view})
}

func (h *AuthHandler) ChangePassword(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Please provide current and new password")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperr.New(apperr.BadRequest, "Please provide current and new password")
	}

	if err := h.svc.ChangePassword(user.ID, req); err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password changed successfully. Please log in again with your new password.", nil)
}

func (h *AuthHandler) DeleteAccount(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	var req dto.DeleteAccountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Please provide your password")
	}
	if req.Password == "" {
		return apperr.New(apperr.BadRequest, "Please provide your password")
	}

	if err := h.svc.DeleteAccount(user.ID, req.Password); err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Account deleted successfully. We're sad to see you go!", nil)
}
