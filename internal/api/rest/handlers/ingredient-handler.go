package handlers

import (
	"strings"

	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/IngrediSense/auth_service/internal/helper/utils"
	"github.com/gofiber/fiber/v2"
)

// IngredientHandler serves the placeholder ingredient surface. The real
// OCR/LLM analysis lives in the external AI service the frontend talks to
// directly; these endpoints only keep the API shape stable.
type IngredientHandler struct{}

func NewIngredientHandler() *IngredientHandler {
	return &IngredientHandler{}
}

func (h *IngredientHandler) SetupRoutes(api fiber.Router) {
	ingredients := api.Group("/ingredients")
	ingredients.Get("/", h.GetAllIngredients)
	ingredients.Post("/analyze", h.AnalyzeIngredient)
	ingredients.Post("/scan", h.ScanProduct)
	ingredients.Get("/:id", h.GetIngredientById)
}

func (h *IngredientHandler) GetAllIngredients(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Get all ingredients endpoint", fiber.Map{
		"ingredients": []string{},
	})
}

func (h *IngredientHandler) AnalyzeIngredient(ctx *fiber.Ctx) error {
	var req struct {
		IngredientName string `json:"ingredientName"`
	}
	if err := ctx.BodyParser(&req); err != nil || strings.TrimSpace(req.IngredientName) == "" {
		return apperr.New(apperr.BadRequest, "Ingredient name is required")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Ingredient analyzed successfully", fiber.Map{
		"ingredient": req.IngredientName,
		"analysis": fiber.Map{
			"healthScore": 85,
			"category":    "Natural",
			"concerns":    []string{},
			"benefits":    []string{"Rich in nutrients"},
			"aiInsights":  "This ingredient is generally considered safe and beneficial for most people.",
		},
	})
}

func (h *IngredientHandler) ScanProduct(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Product scan endpoint", fiber.Map{
		"scannedIngredients": []string{},
	})
}

func (h *IngredientHandler) GetIngredientById(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Get ingredient "+id, fiber.Map{
		"ingredient": nil,
	})
}
