package models

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Icon      string `json:"icon"`
	SortOrder *int   `json:"sortOrder"`
}

// UpdateCategoryRequest distinguishes omitted fields from cleared ones:
// a nil Icon keeps the stored icon, a pointer to "" clears it.
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sortOrder"`
}
