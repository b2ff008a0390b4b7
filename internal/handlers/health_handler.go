package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type HealthHandler struct {
	classifier services.RoleClassifier
}

func NewHealthHandler(classifier services.RoleClassifier) *HealthHandler {
	return &HealthHandler{classifier: classifier}
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status: "healthy",
		Time:   time.Now(),
		Model:  h.classifier.Status(),
	})
}
