// Package server provides the HTTP server for the Crie generation API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// SignupRequest is the HTTP request body for creating an account.
type SignupRequest struct {
	// Email is the login email.
	Email string `json:"email" validate:"required,email"`
	// Password is the plaintext password, hashed before storage.
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the HTTP request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	// Tokens is the spendable credit balance.
	Tokens int `json:"tokens"`
}

// TokenResponse is the HTTP response after signup or login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateTokensRequest is the HTTP request body for the raw balance-set
// operation.
type UpdateTokensRequest struct {
	Tokens *int `json:"tokens" validate:"required,min=0"`
}

// MusicGenerateRequest is the HTTP request body for generating music.
type MusicGenerateRequest struct {
	// Prompt is the text description of the music.
	Prompt string `json:"prompt" validate:"required"`
	// CustomMode enables custom mode for more control.
	CustomMode bool `json:"customMode"`
	// Instrumental generates instrumental only (no vocals).
	Instrumental bool `json:"instrumental"`
	// Model is the Suno model version.
	Model string `json:"model" validate:"omitempty,oneof=V3_5 V4 V5"`
}

// MusicExtendRequest is the HTTP request body for extending a track.
type MusicExtendRequest struct {
	// AudioURL is the URL of the original audio.
	AudioURL string `json:"audioUrl" validate:"required,url"`
	// Prompt describes the extension.
	Prompt string `json:"prompt" validate:"required"`
	// ContinueAt is the time in seconds to continue from.
	ContinueAt int `json:"continueAt" validate:"min=0"`
}

// VideoGenerateRequest is the HTTP request body for generating video.
type VideoGenerateRequest struct {
	// Prompt is the text description of the video scene.
	Prompt string `json:"prompt" validate:"required"`
	// ImageURL is an optional starting image for image-to-video.
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	// Duration is "5" or "10" seconds.
	Duration string `json:"duration" validate:"omitempty,oneof=5 10"`
	// Resolution is "720p" or "1080p".
	Resolution string `json:"resolution" validate:"omitempty,oneof=720p 1080p"`
	// AspectRatio is "16:9", "9:16", or "1:1".
	AspectRatio string `json:"aspectRatio" validate:"omitempty,oneof=16:9 9:16 1:1"`
	// NegativePrompt lists content to exclude.
	NegativePrompt string `json:"negativePrompt"`
	// EnablePromptExpansion lets the provider rewrite the prompt.
	// Defaults to true when omitted.
	EnablePromptExpansion *bool `json:"enablePromptExpansion"`
	// Seed is an optional random seed for reproducibility.
	Seed *int `json:"seed"`
}

// TaskResponse is the HTTP response after submitting a generation.
type TaskResponse struct {
	// TaskID is the provider-issued task identifier. Callers must retain
	// it to observe the job later.
	TaskID string `json:"taskId"`
	// Kind is the generation flow.
	Kind string `json:"kind"`
	// Status is the initial task state.
	Status string `json:"status"`
}

// OutcomeResponse is the HTTP response for status and wait endpoints.
type OutcomeResponse struct {
	// Status is the normalized task state.
	Status string `json:"status"`
	// AudioURL is the generated audio location (music, on success).
	AudioURL string `json:"audioUrl,omitempty"`
	// VideoURL is the generated video location (video, on success).
	VideoURL string `json:"videoUrl,omitempty"`
	// ArchivedURL is the service-owned media copy, if archival ran.
	ArchivedURL string `json:"archivedUrl,omitempty"`
	// Error is the provider-reported failure message, if any.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
