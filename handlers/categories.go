package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
	"prompt-stash/database"
	"prompt-stash/models"
)

// ListCategories returns all categories in display order
func ListCategories(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := a.Categories.ListAll()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch categories", err)
		}

		return success(c, fiber.Map{"categories": categories})
	}
}

// CreateCategory creates a category. When sortOrder is omitted the new
// category sorts after every existing one.
func CreateCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return badRequest(c, err.Error())
		}

		sortOrder := 0
		if req.SortOrder != nil {
			sortOrder = *req.SortOrder
		} else {
			existing, err := a.Categories.ListAll()
			if err != nil {
				return serverErrorWithDetails(c, "Failed to fetch categories", err)
			}
			for _, cat := range existing {
				if cat.SortOrder >= sortOrder {
					sortOrder = cat.SortOrder + 1
				}
			}
		}

		category, err := a.Categories.Create(req.Name, req.Icon, sortOrder)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create category", err)
		}

		return created(c, fiber.Map{"category": category})
	}
}

// UpdateCategory applies a partial update to a category
func UpdateCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		category, err := a.Categories.Update(c.Params("id"), &req)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update category", err)
		}
		if category == nil {
			return notFound(c, "Category not found")
		}

		return success(c, fiber.Map{"category": category})
	}
}

// DeleteCategory deletes a category, reassigning its prompts to the
// fallback category first. Deleting the fallback itself is refused.
func DeleteCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deleted, err := a.Categories.Delete(c.Params("id"))
		if err != nil {
			if errors.Is(err, database.ErrFallbackMissing) {
				return badRequest(c, "Fallback category is missing")
			}
			return serverErrorWithDetails(c, "Failed to delete category", err)
		}
		if !deleted {
			return badRequest(c, "Cannot delete this category")
		}

		return success(c, fiber.Map{"deleted": true})
	}
}
