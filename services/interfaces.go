package services

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"prompt-stash/models"
)

// CategoryRepository is the slice of the category store the services
// need.
type CategoryRepository interface {
	ListAll() ([]models.Category, error)
	Create(name, icon string, sortOrder int) (*models.Category, error)
}

// PromptRepository is the slice of the prompt store the organizer
// needs.
type PromptRepository interface {
	Search(params *models.SearchParams) ([]models.Prompt, error)
}

// SettingsRepository provides the LLM configuration.
type SettingsRepository interface {
	GetLLMConfig() (*models.LLMConfig, error)
}

// ChatModel is the subset of eino's chat model the services call.
// Interface for testability - production uses the openai component.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatModelFactory builds a chat model from the stored LLM config.
type ChatModelFactory func(ctx context.Context, config *models.LLMConfig) (ChatModel, error)
