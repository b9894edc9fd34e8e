package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ytworkout/errors"
	"ytworkout/models"
	"ytworkout/services/workout"
)

type WorkoutHandler struct {
	service workout.Service
	logger  *logrus.Logger
}

func NewWorkoutHandler(service workout.Service) *WorkoutHandler {
	return &WorkoutHandler{
		service: service,
		logger:  logrus.StandardLogger(),
	}
}

// Extract handles POST /api/extract. The pipeline runs synchronously; the
// response carries the finished (or failed) extraction.
func (h *WorkoutHandler) Extract(c *fiber.Ctx) error {
	const op = "WorkoutHandler.Extract"

	url := c.FormValue("url")
	if url == "" {
		var req models.ExtractRequest
		if err := c.BodyParser(&req); err == nil {
			url = req.URL
		}
	}

	h.logger.WithFields(logrus.Fields{
		"url":        url,
		"request_id": c.Get(fiber.HeaderXRequestID),
	}).Info("Received extraction request")

	extraction, err := h.service.Extract(c.UserContext(), url)
	if err != nil {
		return err
	}

	return c.JSON(models.NewExtractionResponse(extraction))
}

// Get handles GET /api/extract/:id.
func (h *WorkoutHandler) Get(c *fiber.Ctx) error {
	extraction, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(models.NewExtractionResponse(extraction))
}

// DownloadCSV handles GET /api/extract/:id/plan.csv.
func (h *WorkoutHandler) DownloadCSV(c *fiber.Ctx) error {
	const op = "WorkoutHandler.DownloadCSV"

	extraction, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !extraction.HasPlan() {
		return errors.NotFound(op, nil, "No workout plan available for download")
	}

	data, err := extraction.Plan.CSV()
	if err != nil {
		return errors.Internal(op, err, "Failed to encode workout plan as CSV")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="workout_plan.csv"`)
	return c.Send(data)
}

// DownloadJSON handles GET /api/extract/:id/plan.json.
func (h *WorkoutHandler) DownloadJSON(c *fiber.Ctx) error {
	const op = "WorkoutHandler.DownloadJSON"

	extraction, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !extraction.HasPlan() {
		return errors.NotFound(op, nil, "No workout plan available for download")
	}

	data, err := extraction.Plan.IndentedJSON()
	if err != nil {
		return errors.Internal(op, err, "Failed to encode workout plan as JSON")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="workout_plan.json"`)
	return c.Send(data)
}

// HealthCheck handles GET /health.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
