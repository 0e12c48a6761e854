package services

import (
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"prompt-stash/models"
)

// NewChatModel builds an eino chat model speaking the OpenAI-compatible
// protocol against the configured endpoint. It is the production
// ChatModelFactory.
func NewChatModel(ctx context.Context, config *models.LLMConfig) (ChatModel, error) {
	if config.APIKey == "" {
		return nil, ErrLLMNotConfigured
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: config.BaseURL,
		APIKey:  config.APIKey,
		Model:   config.Model,
	})
}

// extractJSON strips markdown code fences some models wrap around JSON
// responses.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
