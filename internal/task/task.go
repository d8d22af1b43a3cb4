// Package task defines the generation task domain: the kinds of media the
// service can request, handles for submitted jobs, normalized task states,
// and the waiter that polls a provider until a terminal outcome.
package task

import (
	"time"
)

// Kind identifies which generation flow a task belongs to.
// Each kind maps to a fixed provider endpoint and status vocabulary.
type Kind string

const (
	// KindMusic is a Suno music generation task.
	KindMusic Kind = "music"
	// KindMusicExtend is a Suno music extension task.
	KindMusicExtend Kind = "music-extend"
	// KindVideo is a Wan 2.5 video generation task.
	KindVideo Kind = "video"
	// KindMusicVideo is a video rendition tied to an existing music task.
	KindMusicVideo Kind = "music-video"
)

// IsValid returns true if the kind is one of the known generation flows.
func (k Kind) IsValid() bool {
	switch k {
	case KindMusic, KindMusicExtend, KindVideo, KindMusicVideo:
		return true
	default:
		return false
	}
}

// IsMusic returns true for kinds that use the Suno status vocabulary.
func (k Kind) IsMusic() bool {
	return k == KindMusic || k == KindMusicExtend
}

// State represents the normalized lifecycle state of a remote task.
type State string

const (
	// StatePending indicates the remote job has not reached a terminal state.
	StatePending State = "PENDING"
	// StateSucceeded indicates the remote job completed successfully.
	StateSucceeded State = "SUCCEEDED"
	// StateFailed indicates the provider reported the job as failed.
	StateFailed State = "FAILED"
	// StateTimedOut indicates the wait deadline elapsed while the job was
	// still pending. The remote job's true end state is unknown.
	StateTimedOut State = "TIMED_OUT"
)

// IsTerminal returns true if the state represents a final outcome.
// No further polling occurs for a handle once its state is terminal.
func (s State) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateTimedOut:
		return true
	default:
		return false
	}
}

// Handle identifies one submitted generation job. The provider-issued ID
// is the only durable artifact of a submission: callers must retain it to
// resume polling later.
type Handle struct {
	// ID is the opaque task/generation identifier issued by the provider.
	ID string
	// Kind is the generation flow this handle belongs to.
	Kind Kind
	// UserID is the account that submitted the job.
	UserID string
	// SubmittedAt is when the job was accepted by the provider.
	SubmittedAt time.Time
}

// Outcome is the normalized result of observing a task.
// It is terminal once State is anything other than StatePending.
type Outcome struct {
	// State is the normalized task state.
	State State
	// AudioURL is the generated audio location (music kinds, on success).
	AudioURL string
	// VideoURL is the generated video location (video kinds, on success).
	VideoURL string
	// Error is the provider-reported failure message (on failure).
	Error string
}

// IsTerminal returns true if the outcome requires no further polling.
func (o Outcome) IsTerminal() bool {
	return o.State.IsTerminal()
}
