package database

import (
	"database/sql"

	"prompt-stash/models"
)

// LLM configuration keys and their defaults. The API key has no
// default; classification stays on the keyword fallback until one is
// configured.
const (
	settingLLMBaseURL = "llm.baseUrl"
	settingLLMAPIKey  = "llm.apiKey"
	settingLLMModel   = "llm.model"

	defaultLLMBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	defaultLLMModel   = "qwen-plus-latest"
)

type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value for key, or ("", nil) when the key is unset.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set inserts or overwrites the value for key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

func (r *SettingsRepository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		all[key] = value
	}

	return all, rows.Err()
}

// GetLLMConfig returns the typed LLM configuration, falling back to
// defaults for any unset key.
func (r *SettingsRepository) GetLLMConfig() (*models.LLMConfig, error) {
	config := &models.LLMConfig{
		BaseURL: defaultLLMBaseURL,
		Model:   defaultLLMModel,
	}

	if v, err := r.Get(settingLLMBaseURL); err != nil {
		return nil, err
	} else if v != "" {
		config.BaseURL = v
	}
	if v, err := r.Get(settingLLMAPIKey); err != nil {
		return nil, err
	} else if v != "" {
		config.APIKey = v
	}
	if v, err := r.Get(settingLLMModel); err != nil {
		return nil, err
	} else if v != "" {
		config.Model = v
	}

	return config, nil
}

// SetLLMConfig overwrites only the supplied keys.
func (r *SettingsRepository) SetLLMConfig(req *models.UpdateLLMConfigRequest) error {
	if req.BaseURL != nil {
		if err := r.Set(settingLLMBaseURL, *req.BaseURL); err != nil {
			return err
		}
	}
	if req.APIKey != nil {
		if err := r.Set(settingLLMAPIKey, *req.APIKey); err != nil {
			return err
		}
	}
	if req.Model != nil {
		if err := r.Set(settingLLMModel, *req.Model); err != nil {
			return err
		}
	}
	return nil
}
