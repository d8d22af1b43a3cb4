package generation

import (
	"errors"
	"fmt"
)

// Static validation errors. All of these are raised before any credit is
// reserved or any provider call is made.
var (
	// ErrPromptRequired is returned when the prompt is empty.
	ErrPromptRequired = errors.New("generation: prompt is required")
	// ErrAudioURLRequired is returned when an extension has no source audio.
	ErrAudioURLRequired = errors.New("generation: audio URL is required")
	// ErrNegativeContinueAt is returned when the extension offset is negative.
	ErrNegativeContinueAt = errors.New("generation: continueAt cannot be negative")
	// ErrInvalidModel is returned for an unknown Suno model version.
	ErrInvalidModel = errors.New("generation: model must be one of V3_5, V4, V5")
	// ErrInvalidDuration is returned for an unsupported video duration.
	ErrInvalidDuration = errors.New("generation: duration must be \"5\" or \"10\"")
	// ErrInvalidResolution is returned for an unsupported video resolution.
	ErrInvalidResolution = errors.New("generation: resolution must be \"720p\" or \"1080p\"")
	// ErrInvalidAspectRatio is returned for an unsupported aspect ratio.
	ErrInvalidAspectRatio = errors.New("generation: aspect_ratio must be one of 16:9, 9:16, 1:1")
	// ErrResolutionUnavailable is returned for the one rejected
	// combination: 10 second videos cannot be rendered at 1080p.
	ErrResolutionUnavailable = errors.New("generation: 1080p is not available for 10 second videos")
)

// MusicInput contains the parameters for GenerateMusic.
type MusicInput struct {
	// Prompt is the text description of the music.
	Prompt string
	// CustomMode enables custom mode for more control.
	CustomMode bool
	// Instrumental generates instrumental only.
	Instrumental bool
	// Model is the Suno model version. Empty defaults to V3_5.
	Model string
}

// Validate checks the music parameters.
func (in *MusicInput) Validate() error {
	if in.Prompt == "" {
		return ErrPromptRequired
	}
	switch in.Model {
	case "", "V3_5", "V4", "V5":
		return nil
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidModel, in.Model)
	}
}

// ExtendInput contains the parameters for ExtendMusic.
type ExtendInput struct {
	// AudioURL is the URL of the original audio.
	AudioURL string
	// Prompt describes the extension.
	Prompt string
	// ContinueAt is the time in seconds to continue from.
	ContinueAt int
}

// Validate checks the extension parameters.
func (in *ExtendInput) Validate() error {
	if in.AudioURL == "" {
		return ErrAudioURLRequired
	}
	if in.Prompt == "" {
		return ErrPromptRequired
	}
	if in.ContinueAt < 0 {
		return ErrNegativeContinueAt
	}
	return nil
}

// VideoInput contains the parameters for GenerateVideo.
type VideoInput struct {
	// Prompt is the text description of the video scene.
	Prompt string
	// ImageURL is an optional starting image for image-to-video.
	ImageURL string
	// Duration is "5" or "10" seconds. Empty defaults to "5".
	Duration string
	// Resolution is "720p" or "1080p". Empty defaults to "720p".
	Resolution string
	// AspectRatio is "16:9", "9:16", or "1:1". Empty defaults to "16:9".
	AspectRatio string
	// NegativePrompt lists content to exclude.
	NegativePrompt string
	// EnablePromptExpansion lets the provider rewrite the prompt.
	EnablePromptExpansion bool
	// Seed is an optional random seed for reproducibility.
	Seed *int
}

// applyDefaults fills in the provider defaults for unset fields.
func (in *VideoInput) applyDefaults() {
	if in.Duration == "" {
		in.Duration = "5"
	}
	if in.Resolution == "" {
		in.Resolution = "720p"
	}
	if in.AspectRatio == "" {
		in.AspectRatio = "16:9"
	}
}

// Validate checks the video parameters, including the combination
// constraint that 10 second videos cannot use 1080p.
func (in *VideoInput) Validate() error {
	if in.Prompt == "" {
		return ErrPromptRequired
	}
	if in.Duration != "5" && in.Duration != "10" {
		return fmt.Errorf("%w, got %q", ErrInvalidDuration, in.Duration)
	}
	if in.Resolution != "720p" && in.Resolution != "1080p" {
		return fmt.Errorf("%w, got %q", ErrInvalidResolution, in.Resolution)
	}
	switch in.AspectRatio {
	case "16:9", "9:16", "1:1":
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidAspectRatio, in.AspectRatio)
	}
	if in.Duration == "10" && in.Resolution == "1080p" {
		return ErrResolutionUnavailable
	}
	return nil
}
