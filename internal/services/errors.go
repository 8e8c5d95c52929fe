package services

import "errors"

// --- Custom Service Errors ---
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrDateFormat         = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrRecordValidation   = errors.New("record data validation error")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthDisabled       = errors.New("operator authentication is not configured")
	ErrTokenGeneration    = errors.New("failed to generate token")
	ErrTemplateValidation = errors.New("template options validation error")
)
