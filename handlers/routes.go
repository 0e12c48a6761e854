package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
)

// RegisterRoutes mounts the full API surface onto the Fiber app
func RegisterRoutes(f *fiber.App, a *app.App) {
	f.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := f.Group("/api")

	api.Get("/categories", ListCategories(a))
	api.Post("/categories", CreateCategory(a))
	api.Put("/categories/:id", UpdateCategory(a))
	api.Delete("/categories/:id", DeleteCategory(a))

	api.Get("/tags", ListTags(a))

	api.Get("/prompts/search", SearchPrompts(a))
	api.Post("/prompts/classify", ClassifyPrompt(a))
	api.Post("/prompts", CreatePrompt(a))
	api.Get("/prompts/:id", GetPrompt(a))
	api.Put("/prompts/:id", UpdatePrompt(a))
	api.Post("/prompts/:id/use", UsePrompt(a))
	api.Post("/prompts/:id/favorite", ToggleFavorite(a))
	api.Delete("/prompts/:id", DeletePrompt(a))

	api.Get("/export", ExportData(a))
	api.Post("/import", ImportData(a))

	api.Get("/settings/llm", GetLLMConfig(a))
	api.Put("/settings/llm", UpdateLLMConfig(a))

	api.Post("/organize/scan", OrganizeScan(a))
}
