package handlers

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
)

// StaticHandler serves the bundled single page application. Unknown paths
// fall back to index.html so client-side routes resolve.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

func (h *StaticHandler) HandleStatic(c *fiber.Ctx) error {
	if rel := c.Params("*"); rel != "" {
		// Cleaning against "/" keeps the path inside root.
		path := filepath.Join(h.root, filepath.Clean("/"+rel))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return c.SendFile(path)
		}
	}

	index := filepath.Join(h.root, "index.html")
	if _, err := os.Stat(index); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Frontend build not found",
		})
	}

	return c.SendFile(index)
}
