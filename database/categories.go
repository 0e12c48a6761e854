package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"prompt-stash/models"
)

// FallbackCategoryName is the reserved name of the category that
// absorbs prompts orphaned by category deletion. It can never be
// deleted.
const FallbackCategoryName = "其他"

// ErrFallbackMissing is returned when a delete is attempted before the
// fallback category exists. Deleting anyway would leave prompts
// pointing at a category id that no longer resolves, so the delete is
// refused instead.
var ErrFallbackMissing = errors.New("fallback category does not exist, seed defaults first")

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(name, icon string, sortOrder int) (*models.Category, error) {
	id := uuid.New().String()
	_, err := r.db.Exec(`
		INSERT INTO categories (id, name, icon, sort_order)
		VALUES (?, ?, ?, ?)
	`, id, name, nullString(icon), sortOrder)
	if err != nil {
		return nil, err
	}

	return &models.Category{ID: id, Name: name, Icon: icon, SortOrder: sortOrder}, nil
}

func (r *CategoryRepository) GetByID(id string) (*models.Category, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, name, icon, sort_order FROM categories WHERE id = ?
	`, id))
}

func (r *CategoryRepository) GetByName(name string) (*models.Category, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, name, icon, sort_order FROM categories WHERE name = ?
	`, name))
}

// ListAll returns categories ordered by sort order, ties broken by
// insertion order.
func (r *CategoryRepository) ListAll() ([]models.Category, error) {
	rows, err := r.db.Query(`
		SELECT id, name, icon, sort_order
		FROM categories
		ORDER BY sort_order ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		var icon sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &icon, &c.SortOrder); err != nil {
			return nil, err
		}
		c.Icon = icon.String
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// Update applies the supplied fields and leaves the rest untouched.
// A nil Icon keeps the stored icon; a pointer to "" clears it.
func (r *CategoryRepository) Update(id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Icon != nil {
		existing.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		existing.SortOrder = *req.SortOrder
	}

	_, err = r.db.Exec(`
		UPDATE categories SET name = ?, icon = ?, sort_order = ? WHERE id = ?
	`, existing.Name, nullString(existing.Icon), existing.SortOrder, id)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete removes a category after reassigning every prompt that
// referenced it to the fallback category, all in one transaction.
// Deleting the fallback category itself is refused with false.
func (r *CategoryRepository) Delete(id string) (bool, error) {
	fallback, err := r.GetByName(FallbackCategoryName)
	if err != nil {
		return false, err
	}
	if fallback == nil {
		return false, ErrFallbackMissing
	}
	if fallback.ID == id {
		return false, nil
	}

	deleted := false
	err = r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			UPDATE prompts SET category_id = ? WHERE category_id = ?
		`, fallback.ID, id); err != nil {
			return err
		}

		res, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})

	return deleted, err
}

// SeedDefaults inserts the default category set, keyed by name
// uniqueness. Safe to call on every startup.
func (r *CategoryRepository) SeedDefaults() error {
	defaults := []models.Category{
		{Name: "编程", Icon: "💻", SortOrder: 0},
		{Name: "写作", Icon: "✍️", SortOrder: 1},
		{Name: "翻译", Icon: "🌐", SortOrder: 2},
		{Name: "分析", Icon: "📊", SortOrder: 3},
		{Name: "创意", Icon: "💡", SortOrder: 4},
		{Name: FallbackCategoryName, Icon: "📁", SortOrder: 99},
	}

	return r.db.WithTx(func(tx *sql.Tx) error {
		for _, d := range defaults {
			if _, err := tx.Exec(`
				INSERT OR IGNORE INTO categories (id, name, icon, sort_order)
				VALUES (?, ?, ?, ?)
			`, uuid.New().String(), d.Name, d.Icon, d.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CategoryRepository) scanOne(row *sql.Row) (*models.Category, error) {
	var c models.Category
	var icon sql.NullString
	err := row.Scan(&c.ID, &c.Name, &icon, &c.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Icon = icon.String
	return &c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
