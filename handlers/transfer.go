package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
	"prompt-stash/models"
)

// ExportData returns a full snapshot of the library
func ExportData(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := a.Transfer.ExportAll()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to export data", err)
		}

		return c.JSON(snapshot)
	}
}

// ImportData merges a snapshot into the library, upserting by id
func ImportData(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var snapshot models.Snapshot
		if err := c.BodyParser(&snapshot); err != nil {
			return badRequest(c, "Invalid snapshot")
		}
		if snapshot.Version != models.SnapshotVersion {
			return badRequest(c, "Unsupported snapshot version")
		}

		if err := a.Transfer.ImportAll(&snapshot); err != nil {
			return serverErrorWithDetails(c, "Failed to import data", err)
		}

		return success(c, fiber.Map{
			"imported": fiber.Map{
				"categories": len(snapshot.Categories),
				"tags":       len(snapshot.Tags),
				"prompts":    len(snapshot.Prompts),
			},
		})
	}
}
