package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
	"prompt-stash/models"
)

// SearchPrompts runs the filtered search. All filters are optional and
// combine conjunctively.
func SearchPrompts(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := &models.SearchParams{
			Query:      c.Query("q"),
			CategoryID: c.Query("categoryId"),
			Tag:        c.Query("tag"),
			Favorite:   c.Query("favorite") == "true",
			Limit:      c.QueryInt("limit", 0),
			Offset:     c.QueryInt("offset", 0),
		}
		if params.Limit < 0 {
			params.Limit = 0
		}
		if params.Offset < 0 {
			params.Offset = 0
		}

		prompts, err := a.Prompts.Search(params)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to search prompts", err)
		}

		return success(c, fiber.Map{"prompts": prompts})
	}
}

// GetPrompt retrieves a single prompt with its tags
func GetPrompt(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prompt, err := a.Prompts.GetByID(c.Params("id"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch prompt", err)
		}
		if prompt == nil {
			return notFound(c, "Prompt not found")
		}

		return success(c, fiber.Map{"prompt": prompt})
	}
}

// CreatePrompt creates a prompt and links its tags, creating tag rows
// as needed.
func CreatePrompt(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreatePromptRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return badRequest(c, err.Error())
		}

		category, err := a.Categories.GetByID(req.CategoryID)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch category", err)
		}
		if category == nil {
			return badRequest(c, "Unknown category")
		}

		prompt, err := a.Prompts.Create(&req)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create prompt", err)
		}

		return created(c, fiber.Map{"prompt": prompt})
	}
}

// UpdatePrompt applies a partial update. A tags field, when present,
// replaces the whole tag set.
func UpdatePrompt(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdatePromptRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		prompt, err := a.Prompts.Update(c.Params("id"), &req)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update prompt", err)
		}
		if prompt == nil {
			return notFound(c, "Prompt not found")
		}

		return success(c, fiber.Map{"prompt": prompt})
	}
}

// UsePrompt bumps the usage counter
func UsePrompt(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Prompts.IncrementUsage(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to record usage", err)
		}

		return success(c, fiber.Map{"ok": true})
	}
}

// ToggleFavorite flips the favorite flag
func ToggleFavorite(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Prompts.ToggleFavorite(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to toggle favorite", err)
		}

		return success(c, fiber.Map{"ok": true})
	}
}

// DeletePrompt removes a prompt and its tag links
func DeletePrompt(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Prompts.Delete(c.Params("id")); err != nil {
			return serverErrorWithDetails(c, "Failed to delete prompt", err)
		}

		return success(c, fiber.Map{"deleted": true})
	}
}
