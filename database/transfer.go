package database

import (
	"database/sql"

	"prompt-stash/models"
)

// TransferRepository serializes the whole store to a snapshot and
// restores one, for backup and cross-machine moves.
type TransferRepository struct {
	db *DB
}

func NewTransferRepository(db *DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// ExportAll reads a denormalized point-in-time copy of every category,
// tag, and prompt (with resolved tag names).
func (r *TransferRepository) ExportAll() (*models.Snapshot, error) {
	categories, err := NewCategoryRepository(r.db).ListAll()
	if err != nil {
		return nil, err
	}

	tags, err := NewTagRepository(r.db).ListAll()
	if err != nil {
		return nil, err
	}

	promptRepo := NewPromptRepository(r.db)
	rows, err := r.db.Query(`
		SELECT id, title, content, category_id, source, is_favorite, usage_count, created_at, updated_at
		FROM prompts
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := make([]models.SnapshotPrompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows.Scan)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, models.SnapshotPrompt{
			ID:         p.ID,
			Title:      p.Title,
			Content:    p.Content,
			CategoryID: p.CategoryID,
			Source:     p.Source,
			IsFavorite: p.IsFavorite,
			UsageCount: p.UsageCount,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range prompts {
		if prompts[i].Tags, err = promptRepo.tagNames(prompts[i].ID); err != nil {
			return nil, err
		}
	}

	return &models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: now(),
		Categories: categories,
		Tags:       tags,
		Prompts:    prompts,
	}, nil
}

// ImportAll restores a snapshot in one transaction: categories, then
// tags, then prompts, all upserted by their original ids, then the
// prompt-tag links rebuilt from each prompt's tag-name list. Tag names
// that fail to resolve are skipped rather than failing the import, so
// re-importing the same snapshot is idempotent.
func (r *TransferRepository) ImportAll(snapshot *models.Snapshot) error {
	return r.db.WithTx(func(tx *sql.Tx) error {
		for _, c := range snapshot.Categories {
			if _, err := tx.Exec(`
				INSERT INTO categories (id, name, icon, sort_order)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					icon = excluded.icon,
					sort_order = excluded.sort_order
			`, c.ID, c.Name, nullString(c.Icon), c.SortOrder); err != nil {
				return err
			}
		}

		for _, t := range snapshot.Tags {
			if _, err := tx.Exec(`
				INSERT INTO tags (id, name, color)
				VALUES (?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					color = excluded.color
			`, t.ID, t.Name, nullString(t.Color)); err != nil {
				return err
			}
		}

		for _, p := range snapshot.Prompts {
			if _, err := tx.Exec(`
				INSERT INTO prompts (id, title, content, category_id, source, is_favorite, usage_count, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					title = excluded.title,
					content = excluded.content,
					category_id = excluded.category_id,
					source = excluded.source,
					is_favorite = excluded.is_favorite,
					usage_count = excluded.usage_count,
					created_at = excluded.created_at,
					updated_at = excluded.updated_at
			`, p.ID, p.Title, p.Content, p.CategoryID, nullString(p.Source),
				boolToInt(p.IsFavorite), p.UsageCount,
				formatTime(p.CreatedAt), formatTime(p.UpdatedAt)); err != nil {
				return err
			}

			// Drop stale links before rebuilding from the snapshot's
			// tag-name list
			if _, err := tx.Exec(`DELETE FROM prompt_tags WHERE prompt_id = ?`, p.ID); err != nil {
				return err
			}

			for _, name := range p.Tags {
				var tagID string
				err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID)
				if err == sql.ErrNoRows {
					// Unresolvable tag reference, restore best-effort
					continue
				}
				if err != nil {
					return err
				}
				if _, err := tx.Exec(`
					INSERT OR IGNORE INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)
				`, p.ID, tagID); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
