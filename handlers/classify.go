package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
)

// ClassifyPrompt suggests a title, category, and tags for raw content.
// LLM failures are absorbed by the keyword fallback inside the service,
// so this only errors on repository problems.
func ClassifyPrompt(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.Content == "" {
			return badRequest(c, "content is required")
		}

		result, err := a.Classify.Classify(c.UserContext(), req.Content)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to classify content", err)
		}

		return success(c, fiber.Map{"result": result})
	}
}

// OrganizeScan runs a full-library organize scan and returns the
// suggestions. Progress is logged per batch.
func OrganizeScan(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := a.Organize.Scan(c.UserContext(), func(completed, total int) {
			a.Logger.Info("organize scan progress", "completed", completed, "total", total)
		})
		if err != nil {
			return serverErrorWithDetails(c, "Failed to scan prompts", err)
		}

		return success(c, fiber.Map{"result": result})
	}
}
