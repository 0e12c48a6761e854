package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-stash/models"
)

func populateStore(t *testing.T, db *DB) {
	t.Helper()

	categories := NewCategoryRepository(db)
	prompts := NewPromptRepository(db)

	cat, err := categories.Create("编程", "💻", 0)
	require.NoError(t, err)

	_, err = prompts.Create(&models.CreatePromptRequest{
		Title: "Test", Content: "Content", CategoryID: cat.ID,
		Tags: []string{"python", "debug"},
	})
	require.NoError(t, err)
}

func TestTransfer_RoundTrip(t *testing.T) {
	src := setupTestDB(t)
	populateStore(t, src)

	snapshot, err := NewTransferRepository(src).ExportAll()
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotVersion, snapshot.Version)
	assert.False(t, snapshot.ExportedAt.IsZero())
	require.Len(t, snapshot.Categories, 1)
	require.Len(t, snapshot.Tags, 2)
	require.Len(t, snapshot.Prompts, 1)
	assert.ElementsMatch(t, []string{"python", "debug"}, snapshot.Prompts[0].Tags)

	dst := setupTestDB(t)
	require.NoError(t, NewTransferRepository(dst).ImportAll(snapshot))

	srcResults, err := NewPromptRepository(src).Search(&models.SearchParams{})
	require.NoError(t, err)
	dstResults, err := NewPromptRepository(dst).Search(&models.SearchParams{})
	require.NoError(t, err)

	require.Len(t, dstResults, len(srcResults))
	for i := range srcResults {
		assert.Equal(t, srcResults[i].ID, dstResults[i].ID)
		assert.Equal(t, srcResults[i].Title, dstResults[i].Title)
		assert.Equal(t, srcResults[i].Content, dstResults[i].Content)
		assert.ElementsMatch(t, srcResults[i].Tags, dstResults[i].Tags)
	}
}

func TestTransfer_ReimportIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	populateStore(t, db)

	transfer := NewTransferRepository(db)
	snapshot, err := transfer.ExportAll()
	require.NoError(t, err)

	require.NoError(t, transfer.ImportAll(snapshot))
	require.NoError(t, transfer.ImportAll(snapshot))

	categories, err := NewCategoryRepository(db).ListAll()
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	tags, err := NewTagRepository(db).ListAll()
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	prompts, err := NewPromptRepository(db).Search(&models.SearchParams{})
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.ElementsMatch(t, []string{"python", "debug"}, prompts[0].Tags)
}

func TestTransfer_ImportSkipsUnresolvableTags(t *testing.T) {
	db := setupTestDB(t)

	snapshot := &models.Snapshot{
		Version: models.SnapshotVersion,
		Categories: []models.Category{
			{ID: "cat-1", Name: "编程", SortOrder: 0},
		},
		Tags: []models.Tag{
			{ID: "tag-1", Name: "python"},
		},
		Prompts: []models.SnapshotPrompt{
			{
				ID: "prompt-1", Title: "Test", Content: "Content", CategoryID: "cat-1",
				Tags: []string{"python", "ghost"},
			},
		},
	}

	require.NoError(t, NewTransferRepository(db).ImportAll(snapshot))

	p, err := NewPromptRepository(db).GetByID("prompt-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	// The unresolvable name is dropped, the rest of the import lands
	assert.Equal(t, []string{"python"}, p.Tags)
}

func TestTransfer_ImportOverwritesByID(t *testing.T) {
	db := setupTestDB(t)

	snapshot := &models.Snapshot{
		Version: models.SnapshotVersion,
		Categories: []models.Category{
			{ID: "cat-1", Name: "编程", SortOrder: 0},
		},
		Prompts: []models.SnapshotPrompt{
			{ID: "prompt-1", Title: "Before", Content: "Content", CategoryID: "cat-1"},
		},
	}
	transfer := NewTransferRepository(db)
	require.NoError(t, transfer.ImportAll(snapshot))

	snapshot.Prompts[0].Title = "After"
	require.NoError(t, transfer.ImportAll(snapshot))

	p, err := NewPromptRepository(db).GetByID("prompt-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "After", p.Title)
}
