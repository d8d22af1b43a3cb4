package kie

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crieapp/crie-api/internal/task"
)

// capturedRequest records what the fake provider received.
type capturedRequest struct {
	method string
	path   string
	query  map[string]string
	header http.Header
	body   map[string]any
}

// newFakeProvider returns a test server that replies with the given status
// code and body, recording each request for assertions.
func newFakeProvider(t *testing.T, statusCode int, responseBody string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.header = r.Header.Clone()
		captured.query = map[string]string{}
		for k := range r.URL.Query() {
			captured.query[k] = r.URL.Query().Get(k)
		}
		if r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				captured.body = body
			}
		}
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	c, err := NewClient(WithAPIKey("test-key"), WithBaseURL(baseURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("KIE_AI_API_KEY", "")
	_, err := NewClient()
	if !errors.Is(err, ErrAPIKeyNotSet) {
		t.Fatalf("expected ErrAPIKeyNotSet, got %v", err)
	}
}

func TestNewClient_ReadsKeyFromEnvironment(t *testing.T) {
	t.Setenv("KIE_AI_API_KEY", "env-key")
	c, err := NewClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.apiKey != "env-key" {
		t.Errorf("expected env-key, got %q", c.apiKey)
	}
}

func TestGenerateMusic_RequestShape(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"taskId":"task-123"}`)
	c := newTestClient(t, server.URL)

	taskID, err := c.GenerateMusic(context.Background(), MusicGenerateParams{
		Prompt:       "upbeat jingle",
		CustomMode:   true,
		Instrumental: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "task-123" {
		t.Errorf("expected task-123, got %q", taskID)
	}

	if captured.method != http.MethodPost || captured.path != "/api/v1/generate" {
		t.Errorf("unexpected request: %s %s", captured.method, captured.path)
	}
	if got := captured.header.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("unexpected Authorization header: %q", got)
	}
	if got := captured.header.Get("Content-Type"); got != "application/json" {
		t.Errorf("unexpected Content-Type: %q", got)
	}

	if captured.body["prompt"] != "upbeat jingle" {
		t.Errorf("unexpected prompt: %v", captured.body["prompt"])
	}
	if captured.body["customMode"] != true || captured.body["instrumental"] != true {
		t.Errorf("unexpected flags: %v", captured.body)
	}
	// Model defaults when the caller leaves it empty.
	if captured.body["model"] != "V3_5" {
		t.Errorf("expected default model V3_5, got %v", captured.body["model"])
	}
	// The endpoint requires a callback even though results come from polling.
	if captured.body["callBackUrl"] != placeholderCallbackURL {
		t.Errorf("expected placeholder callback, got %v", captured.body["callBackUrl"])
	}
}

func TestGenerateMusic_ExplicitModelAndCallback(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"taskId":"task-123"}`)
	c := newTestClient(t, server.URL)

	_, err := c.GenerateMusic(context.Background(), MusicGenerateParams{
		Prompt:      "lofi beat",
		Model:       "V4",
		CallbackURL: "https://example.com/hook",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.body["model"] != "V4" {
		t.Errorf("expected V4, got %v", captured.body["model"])
	}
	if captured.body["callBackUrl"] != "https://example.com/hook" {
		t.Errorf("expected caller callback, got %v", captured.body["callBackUrl"])
	}
}

func TestGenerateMusic_EmptyTaskID(t *testing.T) {
	server, _ := newFakeProvider(t, http.StatusOK, `{}`)
	c := newTestClient(t, server.URL)

	_, err := c.GenerateMusic(context.Background(), MusicGenerateParams{Prompt: "x"})
	if !errors.Is(err, ErrNoTaskIDReturned) {
		t.Fatalf("expected ErrNoTaskIDReturned, got %v", err)
	}
}

func TestExtendMusic_RequestShape(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"taskId":"task-456"}`)
	c := newTestClient(t, server.URL)

	taskID, err := c.ExtendMusic(context.Background(), MusicExtendParams{
		AudioURL:   "https://cdn.example.com/a.mp3",
		Prompt:     "keep the chorus going",
		ContinueAt: 42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "task-456" {
		t.Errorf("expected task-456, got %q", taskID)
	}

	if captured.path != "/api/v1/generate/extend" {
		t.Errorf("unexpected path: %s", captured.path)
	}
	if captured.body["audioUrl"] != "https://cdn.example.com/a.mp3" {
		t.Errorf("unexpected audioUrl: %v", captured.body["audioUrl"])
	}
	if captured.body["continueAt"] != float64(42) {
		t.Errorf("unexpected continueAt: %v", captured.body["continueAt"])
	}
}

func TestGenerateVideo_RequestShape(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"generationId":"gen-789"}`)
	c := newTestClient(t, server.URL)

	seed := 1234
	genID, err := c.GenerateVideo(context.Background(), VideoGenerateParams{
		Prompt:                "a cat surfing",
		Duration:              "10",
		Resolution:            "720p",
		AspectRatio:           "9:16",
		EnablePromptExpansion: true,
		ImageURL:              "https://cdn.example.com/cat.png",
		NegativePrompt:        "blurry",
		Seed:                  &seed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if genID != "gen-789" {
		t.Errorf("expected gen-789, got %q", genID)
	}

	if captured.path != "/wan-2-5/generate-video" {
		t.Errorf("unexpected path: %s", captured.path)
	}
	if captured.body["prompt"] != "a cat surfing" {
		t.Errorf("unexpected prompt: %v", captured.body["prompt"])
	}
	if captured.body["duration"] != "10" || captured.body["resolution"] != "720p" {
		t.Errorf("unexpected duration/resolution: %v", captured.body)
	}
	if captured.body["aspect_ratio"] != "9:16" {
		t.Errorf("unexpected aspect_ratio: %v", captured.body["aspect_ratio"])
	}
	if captured.body["enable_prompt_expansion"] != true {
		t.Errorf("unexpected enable_prompt_expansion: %v", captured.body["enable_prompt_expansion"])
	}
	if captured.body["image_url"] != "https://cdn.example.com/cat.png" {
		t.Errorf("unexpected image_url: %v", captured.body["image_url"])
	}
	if captured.body["negative_prompt"] != "blurry" {
		t.Errorf("unexpected negative_prompt: %v", captured.body["negative_prompt"])
	}
	if captured.body["seed"] != float64(1234) {
		t.Errorf("unexpected seed: %v", captured.body["seed"])
	}
}

func TestGenerateVideo_OptionalFieldsOmitted(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"generationId":"gen-789"}`)
	c := newTestClient(t, server.URL)

	_, err := c.GenerateVideo(context.Background(), VideoGenerateParams{
		Prompt:      "a cat surfing",
		Duration:    "5",
		Resolution:  "720p",
		AspectRatio: "16:9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, field := range []string{"image_url", "negative_prompt", "seed"} {
		if _, present := captured.body[field]; present {
			t.Errorf("expected %s to be omitted, got %v", field, captured.body[field])
		}
	}
}

func TestFetchStatus_MusicEndpoint(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"status":"SUCCESS","audioUrl":"https://cdn/a.mp3"}`)
	c := newTestClient(t, server.URL)

	raw, err := c.FetchStatus(context.Background(), task.KindMusic, "task-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.method != http.MethodGet || captured.path != "/api/v1/generate/record-info" {
		t.Errorf("unexpected request: %s %s", captured.method, captured.path)
	}
	if captured.query["taskId"] != "task-123" {
		t.Errorf("unexpected taskId query: %v", captured.query)
	}
	if raw.Status != "SUCCESS" || raw.AudioURL != "https://cdn/a.mp3" {
		t.Errorf("unexpected raw status: %+v", raw)
	}
}

func TestFetchStatus_VideoEndpoint(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"status":"complete","videoUrl":"https://cdn/v.mp4"}`)
	c := newTestClient(t, server.URL)

	raw, err := c.FetchStatus(context.Background(), task.KindVideo, "gen-789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.path != "/wan-2-5/video-details" {
		t.Errorf("unexpected path: %s", captured.path)
	}
	if captured.query["generationId"] != "gen-789" {
		t.Errorf("unexpected generationId query: %v", captured.query)
	}
	if raw.Status != "complete" || raw.VideoURL != "https://cdn/v.mp4" {
		t.Errorf("unexpected raw status: %+v", raw)
	}
}

func TestFetchStatus_MusicVideoEndpoint(t *testing.T) {
	server, captured := newFakeProvider(t, http.StatusOK, `{"status":"complete","videoUrl":"https://cdn/mv.mp4"}`)
	c := newTestClient(t, server.URL)

	raw, err := c.FetchStatus(context.Background(), task.KindMusicVideo, "task-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.path != "/api/v1/video/details" {
		t.Errorf("unexpected path: %s", captured.path)
	}
	if captured.query["taskId"] != "task-123" {
		t.Errorf("unexpected taskId query: %v", captured.query)
	}
	if raw.VideoURL != "https://cdn/mv.mp4" {
		t.Errorf("unexpected raw status: %+v", raw)
	}
}

func TestFetchStatus_EmptyTaskID(t *testing.T) {
	c := newTestClient(t, "http://unused")
	_, err := c.FetchStatus(context.Background(), task.KindMusic, "")
	if !errors.Is(err, ErrTaskIDRequired) {
		t.Fatalf("expected ErrTaskIDRequired, got %v", err)
	}
}

func TestFetchStatus_InvalidKind(t *testing.T) {
	c := newTestClient(t, "http://unused")
	_, err := c.FetchStatus(context.Background(), task.Kind("image"), "task-123")
	if !errors.Is(err, task.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestDoJSON_NonSuccessStatus(t *testing.T) {
	server, _ := newFakeProvider(t, http.StatusPaymentRequired, `{"error":"insufficient credits"}`)
	c := newTestClient(t, server.URL)

	_, err := c.GenerateMusic(context.Background(), MusicGenerateParams{Prompt: "x"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestDoJSON_ServerError(t *testing.T) {
	server, _ := newFakeProvider(t, http.StatusInternalServerError, `oops`)
	c := newTestClient(t, server.URL)

	_, err := c.FetchStatus(context.Background(), task.KindMusic, "task-123")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}
