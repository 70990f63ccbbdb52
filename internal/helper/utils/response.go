package utils

import (
	"errors"
	"log"
	"runtime/debug"

	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// ResponseSuccess writes the standard success envelope.
func ResponseSuccess(ctx *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return ctx.Status(status).JSON(body)
}

// ErrorHandler is the single place failures are serialized. Outside
// production the response also carries a stack trace.
func ErrorHandler(env string) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := apperr.StatusCode(err)

		// fiber's own errors (404 on unknown routes etc.) keep their code
		var fe *fiber.Error
		if apperr.KindOf(err) == apperr.Internal && errors.As(err, &fe) {
			code = fe.Code
		}

		log.Printf("request error: %s %s -> %d: %v", ctx.Method(), ctx.Path(), code, err)

		body := fiber.Map{
			"status":     "error",
			"statusCode": code,
			"message":    err.Error(),
		}
		if env != "production" {
			body["stack"] = string(debug.Stack())
		}
		return ctx.Status(code).JSON(body)
	}
}
