package models

import "time"

type Prompt struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID string    `json:"categoryId"`
	Tags       []string  `json:"tags"`
	Source     string    `json:"source,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreatePromptRequest struct {
	Title      string   `json:"title" validate:"required,max=500"`
	Content    string   `json:"content" validate:"required"`
	CategoryID string   `json:"categoryId" validate:"required"`
	Tags       []string `json:"tags"`
	Source     string   `json:"source"`
}

// UpdatePromptRequest uses pointer fields so handlers can tell
// "field omitted" apart from "field set to its zero value". A non-nil
// Tags replaces the whole tag-link set, including Tags pointing at an
// empty slice, which clears it.
type UpdatePromptRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	CategoryID *string   `json:"categoryId"`
	Source     *string   `json:"source"`
	Tags       *[]string `json:"tags"`
}

type SearchParams struct {
	Query      string `json:"q"`
	CategoryID string `json:"categoryId"`
	Tag        string `json:"tag"`
	Favorite   bool   `json:"favorite"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}
