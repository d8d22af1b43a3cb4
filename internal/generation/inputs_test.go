package generation

import (
	"errors"
	"testing"
)

func TestMusicInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      MusicInput
		wantErr error
	}{
		{name: "valid minimal", in: MusicInput{Prompt: "upbeat jingle"}},
		{name: "valid with model", in: MusicInput{Prompt: "upbeat jingle", Model: "V5"}},
		{name: "missing prompt", in: MusicInput{}, wantErr: ErrPromptRequired},
		{name: "unknown model", in: MusicInput{Prompt: "x", Model: "V99"}, wantErr: ErrInvalidModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExtendInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      ExtendInput
		wantErr error
	}{
		{name: "valid", in: ExtendInput{AudioURL: "https://x/a.mp3", Prompt: "more of this", ContinueAt: 30}},
		{name: "zero offset is valid", in: ExtendInput{AudioURL: "https://x/a.mp3", Prompt: "more"}},
		{name: "missing audio URL", in: ExtendInput{Prompt: "more"}, wantErr: ErrAudioURLRequired},
		{name: "missing prompt", in: ExtendInput{AudioURL: "https://x/a.mp3"}, wantErr: ErrPromptRequired},
		{name: "negative offset", in: ExtendInput{AudioURL: "https://x/a.mp3", Prompt: "more", ContinueAt: -1}, wantErr: ErrNegativeContinueAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVideoInput_ApplyDefaults(t *testing.T) {
	in := VideoInput{Prompt: "a cat surfing"}
	in.applyDefaults()

	if in.Duration != "5" {
		t.Errorf("expected default duration 5, got %q", in.Duration)
	}
	if in.Resolution != "720p" {
		t.Errorf("expected default resolution 720p, got %q", in.Resolution)
	}
	if in.AspectRatio != "16:9" {
		t.Errorf("expected default aspect ratio 16:9, got %q", in.AspectRatio)
	}

	set := VideoInput{Prompt: "x", Duration: "10", Resolution: "1080p", AspectRatio: "1:1"}
	set.applyDefaults()
	if set.Duration != "10" || set.Resolution != "1080p" || set.AspectRatio != "1:1" {
		t.Errorf("defaults overwrote explicit values: %+v", set)
	}
}

func TestVideoInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      VideoInput
		wantErr error
	}{
		{name: "5s 720p", in: VideoInput{Prompt: "x", Duration: "5", Resolution: "720p", AspectRatio: "16:9"}},
		{name: "5s 1080p", in: VideoInput{Prompt: "x", Duration: "5", Resolution: "1080p", AspectRatio: "9:16"}},
		{name: "10s 720p", in: VideoInput{Prompt: "x", Duration: "10", Resolution: "720p", AspectRatio: "1:1"}},
		{name: "10s 1080p rejected", in: VideoInput{Prompt: "x", Duration: "10", Resolution: "1080p", AspectRatio: "16:9"}, wantErr: ErrResolutionUnavailable},
		{name: "missing prompt", in: VideoInput{Duration: "5", Resolution: "720p", AspectRatio: "16:9"}, wantErr: ErrPromptRequired},
		{name: "bad duration", in: VideoInput{Prompt: "x", Duration: "7", Resolution: "720p", AspectRatio: "16:9"}, wantErr: ErrInvalidDuration},
		{name: "bad resolution", in: VideoInput{Prompt: "x", Duration: "5", Resolution: "480p", AspectRatio: "16:9"}, wantErr: ErrInvalidResolution},
		{name: "bad aspect ratio", in: VideoInput{Prompt: "x", Duration: "5", Resolution: "720p", AspectRatio: "4:3"}, wantErr: ErrInvalidAspectRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
