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

const organizerBatchSize = 15

const organizerSystemPrompt = `你是一个提示词库整理助手。你的任务是分析提示词并给出优化建议。

现有分类: [%s]
现有标签: [%s]

对于每个提示词，请分析以下方面：
1. **标题优化**: 如果标题模糊、过长(超过10字)或不够描述性，建议一个更好的标题（10字以内）。无需修改则设为 null。
2. **分类调整**: 如果当前分类不合适，建议更合适的分类。优先从现有分类中选择。如果确实需要新分类，设置 isNewCategory 为 true。无需修改则设为 null。
3. **标签优化**: 如果标签缺失、不相关或需要标准化，建议新的标签列表（1-3个）。无需修改则设为 null。
4. **重复检测**: 如果发现本批次中有内容高度相似的提示词，在 similarTo 中填写对方的 promptId。

严格以 JSON 格式返回: {"suggestions": [{"promptId":"...", "newTitle":"...|null", "newCategory":"...|null", "isNewCategory":false, "newTags":["..."]|null, "similarTo":["..."], "reason":"..."}]}`

// OrganizeSuggestion is one per-prompt recommendation from a scan.
type OrganizeSuggestion struct {
	PromptID         string   `json:"promptId"`
	OriginalTitle    string   `json:"originalTitle"`
	NewTitle         *string  `json:"newTitle"`
	OriginalCategory string   `json:"originalCategory"`
	NewCategory      *string  `json:"newCategory"`
	IsNewCategory    bool     `json:"isNewCategory"`
	OriginalTags     []string `json:"originalTags"`
	NewTags          []string `json:"newTags"`
	SimilarTo        []string `json:"similarTo"`
	Reason           string   `json:"reason"`
}

// OrganizeScanResult aggregates a full library scan.
type OrganizeScanResult struct {
	Suggestions      []OrganizeSuggestion `json:"suggestions"`
	TotalScanned     int                  `json:"totalScanned"`
	BatchesCompleted int                  `json:"batchesCompleted"`
	BatchesFailed    int                  `json:"batchesFailed"`
}

// OrganizeService batch-scans the whole prompt library and asks the
// LLM for cleanup suggestions: better titles, category moves, tag
// normalization, and near-duplicate detection. Failed batches are
// counted and skipped, never fatal.
type OrganizeService struct {
	prompts    PromptRepository
	categories CategoryRepository
	settings   SettingsRepository
	newModel   ChatModelFactory
	logger     *slog.Logger
}

func NewOrganizeService(prompts PromptRepository, categories CategoryRepository, settings SettingsRepository, newModel ChatModelFactory, logger *slog.Logger) *OrganizeService {
	return &OrganizeService{
		prompts:    prompts,
		categories: categories,
		settings:   settings,
		newModel:   newModel,
		logger:     logger,
	}
}

// Scan analyzes every prompt in batches. onProgress, when non-nil, is
// called after each batch with (completed, total).
func (s *OrganizeService) Scan(ctx context.Context, onProgress func(completed, total int)) (*OrganizeScanResult, error) {
	all, err := s.prompts.Search(&models.SearchParams{})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return &OrganizeScanResult{Suggestions: []OrganizeSuggestion{}}, nil
	}

	catList, err := s.categories.ListAll()
	if err != nil {
		return nil, err
	}

	config, err := s.settings.GetLLMConfig()
	if err != nil {
		return nil, err
	}
	chatModel, err := s.newModel(ctx, config)
	if err != nil {
		return nil, err
	}

	var batches [][]models.Prompt
	for i := 0; i < len(all); i += organizerBatchSize {
		end := i + organizerBatchSize
		if end > len(all) {
			end = len(all)
		}
		batches = append(batches, all[i:end])
	}

	result := &OrganizeScanResult{
		Suggestions:  []OrganizeSuggestion{},
		TotalScanned: len(all),
	}

	for i, batch := range batches {
		suggestions, err := s.analyzeBatch(ctx, chatModel, batch, catList, all)
		if err != nil {
			s.logger.Warn("organize batch failed", "batch", i, "error", err)
			result.BatchesFailed++
		} else {
			result.Suggestions = append(result.Suggestions, suggestions...)
			result.BatchesCompleted++
		}
		if onProgress != nil {
			onProgress(i+1, len(batches))
		}
	}

	return result, nil
}

func (s *OrganizeService) analyzeBatch(ctx context.Context, chatModel ChatModel, batch []models.Prompt, catList []models.Category, all []models.Prompt) ([]OrganizeSuggestion, error) {
	catNames := make([]string, len(catList))
	catByID := make(map[string]string, len(catList))
	for i, c := range catList {
		catNames[i] = c.Name
		catByID[c.ID] = c.Name
	}

	tagSet := make(map[string]bool)
	var allTags []string
	for _, p := range all {
		for _, tag := range p.Tags {
			if !tagSet[tag] {
				tagSet[tag] = true
				allTags = append(allTags, tag)
			}
		}
	}

	type batchEntry struct {
		PromptID string   `json:"promptId"`
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}

	entries := make([]batchEntry, len(batch))
	for i, p := range batch {
		content := p.Content
		if runes := []rune(content); len(runes) > 500 {
			content = string(runes[:500]) + "..."
		}
		category := catByID[p.CategoryID]
		if category == "" {
			category = "未知"
		}
		entries[i] = batchEntry{
			PromptID: p.ID,
			Title:    p.Title,
			Content:  content,
			Category: category,
			Tags:     p.Tags,
		}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	resp, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(organizerSystemPrompt,
			strings.Join(catNames, ", "), strings.Join(allTags, ", "))),
		schema.UserMessage(string(payload)),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Content == "" {
		return nil, ErrEmptyLLMResponse
	}

	var parsed struct {
		Suggestions []struct {
			PromptID      string   `json:"promptId"`
			NewTitle      *string  `json:"newTitle"`
			NewCategory   *string  `json:"newCategory"`
			IsNewCategory bool     `json:"isNewCategory"`
			NewTags       []string `json:"newTags"`
			SimilarTo     []string `json:"similarTo"`
			Reason        string   `json:"reason"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse llm response: %w", err)
	}

	byID := make(map[string]*models.Prompt, len(batch))
	for i := range batch {
		byID[batch[i].ID] = &batch[i]
	}

	suggestions := make([]OrganizeSuggestion, 0, len(parsed.Suggestions))
	for _, raw := range parsed.Suggestions {
		suggestion := OrganizeSuggestion{
			PromptID:      raw.PromptID,
			NewTitle:      raw.NewTitle,
			NewCategory:   raw.NewCategory,
			IsNewCategory: raw.IsNewCategory,
			NewTags:       raw.NewTags,
			SimilarTo:     raw.SimilarTo,
			Reason:        raw.Reason,
		}
		if suggestion.SimilarTo == nil {
			suggestion.SimilarTo = []string{}
		}
		if p, ok := byID[raw.PromptID]; ok {
			suggestion.OriginalTitle = p.Title
			suggestion.OriginalCategory = catByID[p.CategoryID]
			suggestion.OriginalTags = p.Tags
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
