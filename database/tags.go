package database

import (
	"database/sql"

	"github.com/google/uuid"

	"prompt-stash/models"
)

type TagRepository struct {
	db *DB
}

func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(name, color string) (*models.Tag, error) {
	id := uuid.New().String()
	_, err := r.db.Exec(`
		INSERT INTO tags (id, name, color) VALUES (?, ?, ?)
	`, id, name, nullString(color))
	if err != nil {
		return nil, err
	}

	return &models.Tag{ID: id, Name: name, Color: color}, nil
}

func (r *TagRepository) GetByID(id string) (*models.Tag, error) {
	return scanTag(r.db.QueryRow(`
		SELECT id, name, color FROM tags WHERE id = ?
	`, id))
}

func (r *TagRepository) ListAll() ([]models.Tag, error) {
	rows, err := r.db.Query(`
		SELECT id, name, color FROM tags ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		var color sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &color); err != nil {
			return nil, err
		}
		t.Color = color.String
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// FindOrCreate returns the tag with the given name, creating it
// without a color if it does not exist yet.
func (r *TagRepository) FindOrCreate(name string) (*models.Tag, error) {
	existing, err := scanTag(r.db.QueryRow(`
		SELECT id, name, color FROM tags WHERE name = ?
	`, name))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return r.Create(name, "")
}

// findOrCreateTagTx is the transactional variant used by the prompt
// repository while linking tag names inside a larger write.
func findOrCreateTagTx(tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.New().String()
	if _, err := tx.Exec(`INSERT INTO tags (id, name) VALUES (?, ?)`, id, name); err != nil {
		return "", err
	}
	return id, nil
}

func scanTag(row *sql.Row) (*models.Tag, error) {
	var t models.Tag
	var color sql.NullString
	err := row.Scan(&t.ID, &t.Name, &color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Color = color.String
	return &t, nil
}
