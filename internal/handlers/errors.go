package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors returned from handlers as JSON. Unexpected
// errors are logged and reported without internal detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("❌ %s %s failed: %v\n", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
