package app

import (
	"log/slog"

	"prompt-stash/database"
	"prompt-stash/services"
	"prompt-stash/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	DB         *database.DB
	Categories *database.CategoryRepository
	Tags       *database.TagRepository
	Prompts    *database.PromptRepository
	Settings   *database.SettingsRepository
	Transfer   *database.TransferRepository
	Classify   *services.ClassifyService
	Organize   *services.OrganizeService
	Validator  *validator.Validator
	Logger     *slog.Logger
}

// New creates a new App instance with all dependencies
func New(db *database.DB, newModel services.ChatModelFactory, logger *slog.Logger) *App {
	categories := database.NewCategoryRepository(db)
	tags := database.NewTagRepository(db)
	prompts := database.NewPromptRepository(db)
	settings := database.NewSettingsRepository(db)

	return &App{
		DB:         db,
		Categories: categories,
		Tags:       tags,
		Prompts:    prompts,
		Settings:   settings,
		Transfer:   database.NewTransferRepository(db),
		Classify:   services.NewClassifyService(categories, settings, newModel, logger),
		Organize:   services.NewOrganizeService(prompts, categories, settings, newModel, logger),
		Validator:  validator.New(),
		Logger:     logger,
	}
}
