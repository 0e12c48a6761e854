package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"prompt-stash/app"
	"prompt-stash/models"
)

// maskAPIKey keeps the first and last four characters visible. Short
// keys are fully masked.
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	runes := []rune(key)
	if len(runes) <= 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + "****" + string(runes[len(runes)-4:])
}

// GetLLMConfig returns the stored LLM settings with the key masked
func GetLLMConfig(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		config, err := a.Settings.GetLLMConfig()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch LLM config", err)
		}

		return success(c, fiber.Map{"config": fiber.Map{
			"baseUrl": config.BaseURL,
			"apiKey":  maskAPIKey(config.APIKey),
			"model":   config.Model,
		}})
	}
}

// UpdateLLMConfig applies a partial update to the LLM settings
func UpdateLLMConfig(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateLLMConfigRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Settings.SetLLMConfig(&req); err != nil {
			return serverErrorWithDetails(c, "Failed to update LLM config", err)
		}

		config, err := a.Settings.GetLLMConfig()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch LLM config", err)
		}

		return success(c, fiber.Map{"config": fiber.Map{
			"baseUrl": config.BaseURL,
			"apiKey":  maskAPIKey(config.APIKey),
			"model":   config.Model,
		}})
	}
}
