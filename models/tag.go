package models

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color"`
}
