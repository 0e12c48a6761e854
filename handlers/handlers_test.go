package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-stash/app"
	"prompt-stash/database"
	"prompt-stash/models"
	"prompt-stash/services"
)

func setupTestApp(t *testing.T) (*fiber.App, *app.App) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	// No chat model in handler tests: classify exercises the keyword
	// fallback path.
	factory := func(ctx context.Context, config *models.LLMConfig) (services.ChatModel, error) {
		return nil, services.ErrLLMNotConfigured
	}

	a := app.New(db, factory, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, a.Categories.SeedDefaults())

	f := fiber.New()
	RegisterRoutes(f, a)
	return f, a
}

func doJSON(t *testing.T, f *fiber.App, method, path string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]json.RawMessage
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func categoryIDByName(t *testing.T, a *app.App, name string) string {
	t.Helper()
	cat, err := a.Categories.GetByName(name)
	require.NoError(t, err)
	require.NotNil(t, cat)
	return cat.ID
}

func TestHealthEndpoint(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, body := doJSON(t, f, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
}

func TestListCategoriesSeeded(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, body := doJSON(t, f, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	require.NoError(t, json.Unmarshal(body["categories"], &categories))
	assert.Len(t, categories, 6)
	assert.Equal(t, "编程", categories[0].Name)
	assert.Equal(t, database.FallbackCategoryName, categories[5].Name)
}

func TestCreateCategoryComputesSortOrder(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, body := doJSON(t, f, http.MethodPost, "/api/categories", fiber.Map{"name": "法律", "icon": "⚖️"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category models.Category
	require.NoError(t, json.Unmarshal(body["category"], &category))
	assert.Equal(t, "法律", category.Name)
	assert.Equal(t, 100, category.SortOrder) // after the fallback's 99
}

func TestCreateCategoryValidation(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, body := doJSON(t, f, http.MethodPost, "/api/categories", fiber.Map{"icon": "⚖️"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "name is required")
}

func TestDeleteFallbackCategoryRefused(t *testing.T) {
	f, a := setupTestApp(t)
	fallbackID := categoryIDByName(t, a, database.FallbackCategoryName)

	resp, _ := doJSON(t, f, http.MethodDelete, "/api/categories/"+fallbackID, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteCategoryReassignsPrompts(t *testing.T) {
	f, a := setupTestApp(t)
	codingID := categoryIDByName(t, a, "编程")

	_, createBody := doJSON(t, f, http.MethodPost, "/api/prompts", fiber.Map{
		"title":      "Debug helper",
		"content":    "Find the bug",
		"categoryId": codingID,
	})
	var prompt models.Prompt
	require.NoError(t, json.Unmarshal(createBody["prompt"], &prompt))

	resp, _ := doJSON(t, f, http.MethodDelete, "/api/categories/"+codingID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, getBody := doJSON(t, f, http.MethodGet, "/api/prompts/"+prompt.ID, nil)
	var moved models.Prompt
	require.NoError(t, json.Unmarshal(getBody["prompt"], &moved))
	assert.Equal(t, categoryIDByName(t, a, database.FallbackCategoryName), moved.CategoryID)
}

func TestPromptLifecycle(t *testing.T) {
	f, a := setupTestApp(t)
	codingID := categoryIDByName(t, a, "编程")

	resp, body := doJSON(t, f, http.MethodPost, "/api/prompts", fiber.Map{
		"title":      "SQL explainer",
		"content":    "Explain this query step by step",
		"categoryId": codingID,
		"tags":       []string{"sql", "explain"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var prompt models.Prompt
	require.NoError(t, json.Unmarshal(body["prompt"], &prompt))
	assert.NotEmpty(t, prompt.ID)
	assert.ElementsMatch(t, []string{"sql", "explain"}, prompt.Tags)

	resp, _ = doJSON(t, f, http.MethodPost, "/api/prompts/"+prompt.ID+"/use", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, f, http.MethodPost, "/api/prompts/"+prompt.ID+"/favorite", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, getBody := doJSON(t, f, http.MethodGet, "/api/prompts/"+prompt.ID, nil)
	var fetched models.Prompt
	require.NoError(t, json.Unmarshal(getBody["prompt"], &fetched))
	assert.Equal(t, 1, fetched.UsageCount)
	assert.True(t, fetched.IsFavorite)

	resp, updateBody := doJSON(t, f, http.MethodPut, "/api/prompts/"+prompt.ID, fiber.Map{"title": "Query explainer"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Prompt
	require.NoError(t, json.Unmarshal(updateBody["prompt"], &updated))
	assert.Equal(t, "Query explainer", updated.Title)
	assert.Equal(t, "Explain this query step by step", updated.Content)

	resp, _ = doJSON(t, f, http.MethodDelete, "/api/prompts/"+prompt.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, f, http.MethodGet, "/api/prompts/"+prompt.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePromptUnknownCategory(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, _ := doJSON(t, f, http.MethodPost, "/api/prompts", fiber.Map{
		"title":      "Orphan",
		"content":    "no category",
		"categoryId": "missing",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchPromptsWithFilters(t *testing.T) {
	f, a := setupTestApp(t)
	codingID := categoryIDByName(t, a, "编程")
	writingID := categoryIDByName(t, a, "写作")

	doJSON(t, f, http.MethodPost, "/api/prompts", fiber.Map{
		"title": "Python debugger", "content": "step through", "categoryId": codingID, "tags": []string{"python"},
	})
	doJSON(t, f, http.MethodPost, "/api/prompts", fiber.Map{
		"title": "Email polisher", "content": "rewrite politely", "categoryId": writingID, "tags": []string{"email"},
	})

	_, body := doJSON(t, f, http.MethodGet, "/api/prompts/search?q=python", nil)
	var prompts []models.Prompt
	require.NoError(t, json.Unmarshal(body["prompts"], &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, "Python debugger", prompts[0].Title)

	_, body = doJSON(t, f, http.MethodGet, "/api/prompts/search?categoryId="+writingID, nil)
	require.NoError(t, json.Unmarshal(body["prompts"], &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, "Email polisher", prompts[0].Title)

	_, body = doJSON(t, f, http.MethodGet, "/api/prompts/search?favorite=true", nil)
	require.NoError(t, json.Unmarshal(body["prompts"], &prompts))
	assert.Empty(t, prompts)
}

func TestClassifyFallsBackWithoutModel(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, body := doJSON(t, f, http.MethodPost, "/api/prompts/classify", fiber.Map{
		"content": "help me debug this python error",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result services.ClassifyResult
	require.NoError(t, json.Unmarshal(body["result"], &result))
	assert.True(t, result.Fallback)
	assert.Equal(t, "编程", result.Category)
	assert.NotEmpty(t, result.CategoryID)
}

func TestClassifyRequiresContent(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, _ := doJSON(t, f, http.MethodPost, "/api/prompts/classify", fiber.Map{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLLMSettingsMasking(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, body := doJSON(t, f, http.MethodPut, "/api/settings/llm", fiber.Map{
		"apiKey": "sk-1234567890abcdef",
		"model":  "qwen-max",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var config map[string]string
	require.NoError(t, json.Unmarshal(body["config"], &config))
	assert.Equal(t, "sk-1****cdef", config["apiKey"])
	assert.Equal(t, "qwen-max", config["model"])

	_, body = doJSON(t, f, http.MethodGet, "/api/settings/llm", nil)
	require.NoError(t, json.Unmarshal(body["config"], &config))
	assert.Equal(t, "sk-1****cdef", config["apiKey"])
	assert.NotContains(t, config["apiKey"], "567890")
}

func TestExportImportRoundtrip(t *testing.T) {
	f, a := setupTestApp(t)
	codingID := categoryIDByName(t, a, "编程")

	doJSON(t, f, http.MethodPost, "/api/prompts", fiber.Map{
		"title": "Refactor guide", "content": "extract functions", "categoryId": codingID, "tags": []string{"refactor"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	resp, err := f.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, models.SnapshotVersion, snapshot.Version)
	require.Len(t, snapshot.Prompts, 1)

	resp, body := doJSON(t, f, http.MethodPost, "/api/import", snapshot)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body["imported"]), `"prompts":1`)

	_, searchBody := doJSON(t, f, http.MethodGet, "/api/prompts/search", nil)
	var prompts []models.Prompt
	require.NoError(t, json.Unmarshal(searchBody["prompts"], &prompts))
	assert.Len(t, prompts, 1)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	f, _ := setupTestApp(t)

	resp, _ := doJSON(t, f, http.MethodPost, "/api/import", fiber.Map{"version": 99})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
