package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	maxFileSize int64
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	req := models.AnalyzeRequest{
		JobDescription: strings.TrimSpace(c.FormValue("job_description")),
	}
	if file, err := c.FormFile("resume"); err == nil {
		req.Resume = file
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Resume file and job description are required",
		})
	}

	if req.Resume.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := req.Resume.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Failed to read uploaded resume",
		})
	}
	defer src.Close()

	result, err := h.analyzer.Analyze(c.UserContext(), services.AnalyzeInput{
		Resume:         src,
		ResumeSize:     req.Resume.Size,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "Resume file and job description are required",
			})
		case errors.Is(err, models.ErrExtraction):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
				Error: "Could not read the resume. Please upload a valid PDF file.",
			})
		default:
			return fmt.Errorf("failed to analyze resume: %w", err)
		}
	}

	return c.JSON(result)
}
