package database

import (
	"database/sql"
	"strconv"

	"github.com/google/uuid"

	"prompt-stash/models"
)

// FrequentUseThreshold is the usage count above which a prompt is
// treated as a favorite even without the explicit flag.
const FrequentUseThreshold = 5

type PromptRepository struct {
	db *DB
}

func NewPromptRepository(db *DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// Create inserts the prompt row and links every tag name, creating
// missing tags on the fly, all in one transaction.
func (r *PromptRepository) Create(req *models.CreatePromptRequest) (*models.Prompt, error) {
	id := uuid.New().String()
	ts := now()
	tags := dedupeNames(req.Tags)

	err := r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO prompts (id, title, content, category_id, source, is_favorite, usage_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)
		`, id, req.Title, req.Content, req.CategoryID, nullString(req.Source),
			formatTime(ts), formatTime(ts)); err != nil {
			return err
		}
		return linkTagsTx(tx, id, tags)
	})
	if err != nil {
		return nil, err
	}

	return &models.Prompt{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       tags,
		Source:     req.Source,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}, nil
}

func (r *PromptRepository) GetByID(id string) (*models.Prompt, error) {
	row := r.db.QueryRow(`
		SELECT id, title, content, category_id, source, is_favorite, usage_count, created_at, updated_at
		FROM prompts WHERE id = ?
	`, id)

	p, err := scanPrompt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Tags, err = r.tagNames(id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces only the supplied fields and always refreshes
// updated_at. A non-nil Tags replaces the entire tag-link set; nil
// leaves the existing links untouched.
func (r *PromptRepository) Update(id string, req *models.UpdatePromptRequest) (*models.Prompt, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Content != nil {
		existing.Content = *req.Content
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.Source != nil {
		existing.Source = *req.Source
	}
	existing.UpdatedAt = now()

	err = r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			UPDATE prompts SET title = ?, content = ?, category_id = ?, source = ?, updated_at = ?
			WHERE id = ?
		`, existing.Title, existing.Content, existing.CategoryID,
			nullString(existing.Source), formatTime(existing.UpdatedAt), id); err != nil {
			return err
		}

		if req.Tags == nil {
			return nil
		}
		if _, err := tx.Exec(`DELETE FROM prompt_tags WHERE prompt_id = ?`, id); err != nil {
			return err
		}
		existing.Tags = dedupeNames(*req.Tags)
		return linkTagsTx(tx, id, existing.Tags)
	})
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// IncrementUsage bumps the usage counter. Silently a no-op when the
// prompt does not exist.
func (r *PromptRepository) IncrementUsage(id string) error {
	_, err := r.db.Exec(`
		UPDATE prompts SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?
	`, formatTime(now()), id)
	return err
}

// ToggleFavorite flips the favorite flag. Silently a no-op when the
// prompt does not exist.
func (r *PromptRepository) ToggleFavorite(id string) error {
	_, err := r.db.Exec(`
		UPDATE prompts SET is_favorite = CASE WHEN is_favorite = 0 THEN 1 ELSE 0 END, updated_at = ?
		WHERE id = ?
	`, formatTime(now()), id)
	return err
}

// Delete removes the prompt; its tag links cascade, the tag rows stay
// for reuse.
func (r *PromptRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	return err
}

// Search runs the filter pipeline: free-text substring match over
// title, content, and linked tag names, then exact category and tag
// filters, then the favorite filter (explicit flag or frequent use),
// ordered by usage count and recency, paginated last. All filters
// compose with AND.
func (r *PromptRepository) Search(params *models.SearchParams) ([]models.Prompt, error) {
	var f searchFilter

	if params.Query != "" {
		pattern := likePattern(params.Query)
		f.add(`(p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\' OR p.id IN (
			SELECT pt.prompt_id FROM prompt_tags pt
			INNER JOIN tags t ON t.id = pt.tag_id
			WHERE t.name LIKE ? ESCAPE '\'
		))`, pattern, pattern, pattern)
	}

	if params.CategoryID != "" {
		f.add(`p.category_id = ?`, params.CategoryID)
	}

	if params.Tag != "" {
		f.add(`p.id IN (
			SELECT pt.prompt_id FROM prompt_tags pt
			INNER JOIN tags t ON t.id = pt.tag_id
			WHERE t.name = ?
		)`, params.Tag)
	}

	if params.Favorite {
		f.add(`(p.is_favorite = 1 OR p.usage_count >= ?)`, FrequentUseThreshold)
	}

	query := `
		SELECT p.id, p.title, p.content, p.category_id, p.source, p.is_favorite, p.usage_count, p.created_at, p.updated_at
		FROM prompts p` + f.where() + `
		ORDER BY p.usage_count DESC, p.updated_at DESC`

	if params.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(params.Limit)
	} else if params.Offset > 0 {
		// SQLite requires LIMIT before OFFSET
		query += " LIMIT -1"
	}
	if params.Offset > 0 {
		query += " OFFSET " + strconv.Itoa(params.Offset)
	}

	rows, err := r.db.Query(query, f.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := make([]models.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows.Scan)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range prompts {
		if prompts[i].Tags, err = r.tagNames(prompts[i].ID); err != nil {
			return nil, err
		}
	}

	return prompts, nil
}

func (r *PromptRepository) tagNames(promptID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT t.name FROM tags t
		INNER JOIN prompt_tags pt ON t.id = pt.tag_id
		WHERE pt.prompt_id = ?
		ORDER BY t.name ASC
	`, promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// linkTagsTx resolves each tag name (creating missing tags) and links
// it to the prompt inside the caller's transaction.
func linkTagsTx(tx *sql.Tx, promptID string, tags []string) error {
	for _, name := range tags {
		tagID, err := findOrCreateTagTx(tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)
		`, promptID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func scanPrompt(scan func(dest ...any) error) (*models.Prompt, error) {
	var p models.Prompt
	var source sql.NullString
	var favorite int
	if err := scan(
		&p.ID, &p.Title, &p.Content, &p.CategoryID, &source,
		&favorite, &p.UsageCount, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Source = source.String
	p.IsFavorite = favorite == 1
	return &p, nil
}

func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
