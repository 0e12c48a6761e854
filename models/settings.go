package models

// LLMConfig is the typed view over the llm.* settings keys.
type LLMConfig struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

// UpdateLLMConfigRequest supports partial overwrite: nil fields leave
// the stored value untouched.
type UpdateLLMConfigRequest struct {
	BaseURL *string `json:"baseUrl"`
	APIKey  *string `json:"apiKey"`
	Model   *string `json:"model"`
}
