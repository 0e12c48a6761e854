package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/schema"

	"prompt-stash/models"
)

const classifyMaxContent = 2000

const classifySystemPrompt = `你是一个提示词分类助手。根据用户提供的内容：
1. 生成一个简洁的中文标题（10字以内）
2. 从现有分类中选择最合适的一个: [%s]
   如果现有分类都不合适，建议一个新的分类名称（2-4个字），并将 isNewCategory 设为 true
3. 提取 1-3 个相关标签

严格以 JSON 格式返回，不要包含其他内容: {"title":"...","category":"...","isNewCategory":false,"tags":["..."]}`

// ClassifyResult is what the classify endpoint returns: a suggested
// title, category (resolved to an id when possible), and tags.
type ClassifyResult struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	CategoryID    string   `json:"categoryId"`
	Tags          []string `json:"tags"`
	IsNewCategory bool     `json:"isNewCategory"`
	Fallback      bool     `json:"fallback,omitempty"`
}

// ClassifyService suggests a title, category, and tags for raw prompt
// content. It asks the configured LLM first and falls back to the
// keyword classifier when the model is unconfigured or fails.
type ClassifyService struct {
	categories CategoryRepository
	settings   SettingsRepository
	classifier *Classifier
	newModel   ChatModelFactory
	logger     *slog.Logger
}

func NewClassifyService(categories CategoryRepository, settings SettingsRepository, newModel ChatModelFactory, logger *slog.Logger) *ClassifyService {
	return &ClassifyService{
		categories: categories,
		settings:   settings,
		classifier: NewClassifier(),
		newModel:   newModel,
		logger:     logger,
	}
}

func (s *ClassifyService) Classify(ctx context.Context, content string) (*ClassifyResult, error) {
	catList, err := s.categories.ListAll()
	if err != nil {
		return nil, err
	}

	result, err := s.classifyWithLLM(ctx, content, catList)
	if err == nil {
		return result, nil
	}
	s.logger.Warn("llm classify failed, falling back to keyword classifier", "error", err)

	category, tags := s.classifier.Classify(content)
	categoryID := ""
	for _, c := range catList {
		if c.Name == category {
			categoryID = c.ID
			break
		}
	}

	return &ClassifyResult{
		Title:      s.classifier.SuggestTitle(content),
		Category:   category,
		CategoryID: categoryID,
		Tags:       tags,
		Fallback:   true,
	}, nil
}

func (s *ClassifyService) classifyWithLLM(ctx context.Context, content string, catList []models.Category) (*ClassifyResult, error) {
	config, err := s.settings.GetLLMConfig()
	if err != nil {
		return nil, err
	}

	chatModel, err := s.newModel(ctx, config)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(catList))
	for i, c := range catList {
		names[i] = c.Name
	}

	truncated := content
	if runes := []rune(content); len(runes) > classifyMaxContent {
		truncated = string(runes[:classifyMaxContent]) + "..."
	}

	resp, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(classifySystemPrompt, strings.Join(names, ", "))),
		schema.UserMessage(truncated),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Content == "" {
		return nil, ErrEmptyLLMResponse
	}

	var parsed struct {
		Title         string   `json:"title"`
		Category      string   `json:"category"`
		IsNewCategory bool     `json:"isNewCategory"`
		Tags          []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse llm response: %w", err)
	}
	if parsed.Title == "" || parsed.Category == "" {
		return nil, ErrMissingLLMFields
	}

	result := &ClassifyResult{
		Title:         parsed.Title,
		Category:      parsed.Category,
		Tags:          parsed.Tags,
		IsNewCategory: parsed.IsNewCategory,
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}

	if parsed.IsNewCategory {
		maxSort := 0
		for _, c := range catList {
			if c.SortOrder > maxSort {
				maxSort = c.SortOrder
			}
		}
		created, err := s.categories.Create(parsed.Category, "", maxSort+1)
		if err != nil {
			return nil, err
		}
		result.CategoryID = created.ID
		return result, nil
	}

	for _, c := range catList {
		if c.Name == parsed.Category {
			result.CategoryID = c.ID
			break
		}
	}
	return result, nil
}
