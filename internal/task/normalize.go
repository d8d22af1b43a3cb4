package task

import "strings"

// defaultFailureMessage is used when a provider reports a failure without
// an error message.
const defaultFailureMessage = "Unknown error"

// RawStatus is the provider-reported status payload for a single fetch,
// before normalization. Field presence depends on the provider and state.
type RawStatus struct {
	// Status is the provider's raw status string, in whatever casing and
	// vocabulary the provider uses.
	Status string
	// AudioURL is set by the music provider on success.
	AudioURL string
	// VideoURL is set by the video provider on success.
	VideoURL string
	// Error is the provider's failure message, if any.
	Error string
}

// Normalize maps a provider's raw status payload onto the internal outcome.
// It is total: every status string, in any casing, maps to exactly one
// state, and unrecognized values map to StatePending.
//
// This is the single place that knows each provider's status vocabulary;
// the waiter and the facade stay provider-agnostic.
func Normalize(kind Kind, raw RawStatus) Outcome {
	if kind.IsMusic() {
		return normalizeMusic(raw)
	}
	return normalizeVideo(raw)
}

// normalizeMusic maps the Suno vocabulary: SUCCESS, FAILED, ERROR.
func normalizeMusic(raw RawStatus) Outcome {
	switch strings.ToUpper(raw.Status) {
	case "SUCCESS":
		return Outcome{State: StateSucceeded, AudioURL: raw.AudioURL}
	case "FAILED", "ERROR":
		return Outcome{State: StateFailed, Error: failureMessage(raw)}
	default:
		return Outcome{State: StatePending}
	}
}

// normalizeVideo maps the Wan vocabulary: complete, failed.
func normalizeVideo(raw RawStatus) Outcome {
	switch strings.ToLower(raw.Status) {
	case "complete":
		return Outcome{State: StateSucceeded, VideoURL: raw.VideoURL}
	case "failed":
		return Outcome{State: StateFailed, Error: failureMessage(raw)}
	default:
		return Outcome{State: StatePending}
	}
}

func failureMessage(raw RawStatus) string {
	if raw.Error == "" {
		return defaultFailureMessage
	}
	return raw.Error
}
