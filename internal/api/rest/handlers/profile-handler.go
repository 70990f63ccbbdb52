package handlers

import (
	"github.com/IngrediSense/auth_service/internal/api/rest/middleware"
	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/IngrediSense/auth_service/internal/dto"
	"github.com/IngrediSense/auth_service/internal/helper/utils"
	"github.com/IngrediSense/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) SetupRoutes(api fiber.Router, protect fiber.Handler) {
	profile := api.Group("/profile")
	profile.Get("/", protect, h.GetProfile)
	profile.Put("/", protect, h.UpdateProfile)
}

func (h *ProfileHandler) GetProfile(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	profile, err := h.svc.GetHealthProfile(user.ID)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "", profile)
}

func (h *ProfileHandler) UpdateProfile(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	var req dto.UpdateHealthProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.New(apperr.BadRequest, "Please provide valid inputs")
	}

	profile, err := h.svc.UpdateHealthProfile(user.ID, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Health profile updated successfully", profile)
}
