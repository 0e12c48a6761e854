package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
)

// ListTags returns all tags alphabetically
func ListTags(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := a.Tags.ListAll()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch tags", err)
		}

		return success(c, fiber.Map{"tags": tags})
	}
}
