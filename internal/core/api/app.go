package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pollwright/surveywizard/internal/core/config"
)

// NewApp builds the fiber application with all wizard routes registered.
func NewApp(cfg *config.AdminAPIConfig, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "surveywizard-admin",
		BodyLimit:   cfg.BodyLimit,
		ReadTimeout: cfg.RequestTimeout,
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	surveys := app.Group("/surveys/:surveyId")
	surveys.Get("/", h.GetSurvey)
	surveys.Get("/logic-questions", h.LogicQuestions)
	surveys.Post("/reorder", h.Reorder)

	questions := surveys.Group("/questions/:questionId")
	questions.Get("/data", h.QuestionData)
	questions.Get("/visibility", h.GetVisibility)
	questions.Put("/visibility", h.PutVisibility)
	questions.Post("/routing", h.SetRouting)
	questions.Post("/choices/bulk", h.BulkAddChoices)

	app.Post("/visibility/preview", h.PreviewVisibility)

	surveys.Post("/submissions", h.StartSubmission)
	submissions := surveys.Group("/submissions/:submissionId")
	submissions.Get("/next", h.NextQuestion)
	submissions.Post("/questions/:questionId/answers", h.RecordAnswer)

	return app
}
