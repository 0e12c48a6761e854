package services

import "errors"

// Common service-level errors
var (
	ErrLLMNotConfigured = errors.New("llm api key is not configured")
	ErrEmptyLLMResponse = errors.New("llm returned an empty response")
	ErrMissingLLMFields = errors.New("llm response is missing required fields")
)
