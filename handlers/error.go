package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ytworkout/errors"
)

// ErrorHandler maps pipeline errors to one user-visible message each. The
// failure kind rides along so clients and tests can distinguish stages
// without matching on message text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	kind := errors.KindInternal

	if e, ok := err.(*errors.AppError); ok {
		code = e.Code
		message = e.Message
		kind = e.Kind
	}

	logrus.WithFields(logrus.Fields{
		"request_id": c.Get(fiber.HeaderXRequestID),
		"path":       c.Path(),
		"method":     c.Method(),
		"status":     code,
		"kind":       string(kind),
		"error":      err.Error(),
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"kind":    string(kind),
	})
}
