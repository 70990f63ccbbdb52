package handlers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/IngrediSense/auth_service/internal/api/rest/middleware"
	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/IngrediSense/auth_service/internal/dto"
	"github.com/IngrediSense/auth_service/internal/helper/utils"
	"github.com/IngrediSense/auth_service/internal/interfaces"
	"github.com/IngrediSense/auth_service/internal/services"
	"github.com/IngrediSense/auth_service/pkg/imageutil"
	"github.com/gofiber/fiber/v2"
)

const (
	maxAvatarSize  = 5 * 1024 * 1024
	avatarMaxWidth = 512
	avatarQuality  = 85
)

// UploadHandler accepts avatar images, normalizes them to JPEG and stores
// them through the configured uploader before pointing the user record at
// the resulting URL.
type UploadHandler struct {
	svc      services.AuthService
	uploader interfaces.Uploader
}

func NewUploadHandler(svc services.AuthService, uploader interfaces.Uploader) *UploadHandler {
	return &UploadHandler{svc: svc, uploader: uploader}
}

func (h *UploadHandler) SetupRoutes(api fiber.Router, protect fiber.Handler) {
	api.Post("/auth/profile/avatar", protect, h.UploadAvatar)
}

// POST /api/auth/profile/avatar
// form-data: file=<image>
func (h *UploadHandler) UploadAvatar(ctx *fiber.Ctx) error {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		return apperr.New(apperr.Unauthorized, "Not authorized. Please log in to access this resource.")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return apperr.New(apperr.BadRequest, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	if !allowed[ext] {
		return apperr.New(apperr.BadRequest, "only jpg/jpeg/png/webp allowed")
	}
	if file.Size > maxAvatarSize {
		return apperr.New(apperr.BadRequest, "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return fmt.Errorf("cannot open uploaded file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxAvatarSize+1))
	if err != nil {
		return fmt.Errorf("cannot read uploaded file: %w", err)
	}
	if int64(len(raw)) > maxAvatarSize {
		return apperr.New(apperr.BadRequest, "file too large (max 5MB)")
	}

	jpg, err := imageutil.NormalizeToJPG(raw, avatarMaxWidth, avatarQuality)
	if err != nil {
		return apperr.New(apperr.BadRequest, "unsupported or corrupt image")
	}

	uploadCtx, cancel := context.WithTimeout(ctx.UserContext(), 20*time.Second)
	defer cancel()

	filename := fmt.Sprintf("user_%d_%d", user.ID, time.Now().Unix())
	url, err := h.uploader.UploadBytes(uploadCtx, "ingredisense/avatars", filename, jpg)
	if err != nil {
		return fmt.Errorf("avatar upload failed: %w", err)
	}

	view, err := h.svc.UpdateProfile(user.ID, dto.UpdateProfileRequest{Avatar: url})
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Avatar updated successfully", fiber.Map{"user": view})
}
