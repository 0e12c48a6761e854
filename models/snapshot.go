package models

import "time"

// SnapshotVersion is the export format version tag. Bump only on
// incompatible shape changes.
const SnapshotVersion = 1

// Snapshot is a denormalized point-in-time copy of the whole store,
// the durable wire format for backup and restore.
type Snapshot struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Categories []Category       `json:"categories"`
	Tags       []Tag            `json:"tags"`
	Prompts    []SnapshotPrompt `json:"prompts"`
}

// SnapshotPrompt carries the prompt row plus its tag names; links are
// re-resolved against the snapshot's tags on import.
type SnapshotPrompt struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID string    `json:"categoryId"`
	Source     string    `json:"source,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Tags       []string  `json:"tags"`
}
