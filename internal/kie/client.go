// Package kie provides the HTTP client for the kie.ai generation API,
// which fronts Suno (music) and Wan 2.5 (video).
//
// The client is a stateless request/response wrapper: every call either
// returns a parsed payload or an error, and no call is ever retried here.
// Retry and timeout policy belongs to the task waiter.
package kie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/crieapp/crie-api/internal/task"
)

// placeholderCallbackURL is sent when the caller did not supply a callback.
// The music endpoint rejects requests without a callBackUrl field, but the
// service observes jobs through polling, so the URL never has to resolve.
const placeholderCallbackURL = "https://placeholder.com/callback"

// Static errors for kie client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is provided and the
	// KIE_AI_API_KEY environment variable is not set.
	ErrAPIKeyNotSet = errors.New("kie: KIE_AI_API_KEY environment variable is not set")
	// ErrTaskIDRequired is returned when the task ID is not provided.
	ErrTaskIDRequired = errors.New("kie: task ID is required")
	// ErrNoTaskIDReturned is returned when a submit response contains no
	// task identifier.
	ErrNoTaskIDReturned = errors.New("kie: submit failed: no task ID returned")
	// ErrRequestFailed is returned when the remote call returns a
	// non-success HTTP status.
	ErrRequestFailed = errors.New("kie: request failed")
)

// Client defines the interface for interacting with the kie.ai API.
type Client interface {
	// GenerateMusic submits a Suno music job and returns the task ID.
	GenerateMusic(ctx context.Context, params MusicGenerateParams) (taskID string, err error)

	// ExtendMusic submits a Suno extension job and returns the new task ID.
	ExtendMusic(ctx context.Context, params MusicExtendParams) (taskID string, err error)

	// GenerateVideo submits a Wan 2.5 video job and returns the
	// generation ID.
	GenerateVideo(ctx context.Context, params VideoGenerateParams) (generationID string, err error)

	// FetchStatus fetches the raw status of a task. The kind selects the
	// endpoint: music and music-extend use the Suno record-info endpoint,
	// video uses the Wan details endpoint, and music-video uses the music
	// video details endpoint.
	FetchStatus(ctx context.Context, kind task.Kind, taskID string) (task.RawStatus, error)
}

// HTTPClient is the HTTP implementation of the kie Client interface.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the API key for authentication.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithBaseURL sets a custom base URL for the kie.ai API.
func WithBaseURL(u string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// NewClient creates a new kie.ai HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable KIE_AI_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:    "https://api.kie.ai",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv("KIE_AI_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// GenerateMusic submits a Suno music job and returns the task ID.
func (c *HTTPClient) GenerateMusic(ctx context.Context, params MusicGenerateParams) (string, error) {
	if params.Model == "" {
		params.Model = "V3_5"
	}
	callback := params.CallbackURL
	if callback == "" {
		callback = placeholderCallbackURL
	}

	reqBody := musicGenerateRequest{
		Prompt:       params.Prompt,
		CustomMode:   params.CustomMode,
		Instrumental: params.Instrumental,
		Model:        params.Model,
		CallBackURL:  callback,
	}

	var resp musicSubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/generate", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", ErrNoTaskIDReturned
	}
	return resp.TaskID, nil
}

// ExtendMusic submits a Suno extension job and returns the new task ID.
func (c *HTTPClient) ExtendMusic(ctx context.Context, params MusicExtendParams) (string, error) {
	reqBody := musicExtendRequest{
		AudioURL:   params.AudioURL,
		Prompt:     params.Prompt,
		ContinueAt: params.ContinueAt,
	}

	var resp musicSubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/generate/extend", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", ErrNoTaskIDReturned
	}
	return resp.TaskID, nil
}

// GenerateVideo submits a Wan 2.5 video job and returns the generation ID.
func (c *HTTPClient) GenerateVideo(ctx context.Context, params VideoGenerateParams) (string, error) {
	reqBody := videoGenerateRequest{
		Prompt:                params.Prompt,
		Duration:              params.Duration,
		Resolution:            params.Resolution,
		AspectRatio:           params.AspectRatio,
		EnablePromptExpansion: params.EnablePromptExpansion,
		ImageURL:              params.ImageURL,
		NegativePrompt:        params.NegativePrompt,
		Seed:                  params.Seed,
	}

	var resp videoSubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/wan-2-5/generate-video", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.GenerationID == "" {
		return "", ErrNoTaskIDReturned
	}
	return resp.GenerationID, nil
}

// FetchStatus fetches the raw status of a task from the endpoint fixed by
// its kind.
func (c *HTTPClient) FetchStatus(ctx context.Context, kind task.Kind, taskID string) (task.RawStatus, error) {
	if taskID == "" {
		return task.RawStatus{}, ErrTaskIDRequired
	}

	switch kind {
	case task.KindMusic, task.KindMusicExtend:
		var resp musicStatusResponse
		path := "/api/v1/generate/record-info?" + url.Values{"taskId": {taskID}}.Encode()
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return task.RawStatus{}, err
		}
		return task.RawStatus{Status: resp.Status, AudioURL: resp.AudioURL, Error: resp.Error}, nil

	case task.KindVideo:
		var resp videoStatusResponse
		path := "/wan-2-5/video-details?" + url.Values{"generationId": {taskID}}.Encode()
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return task.RawStatus{}, err
		}
		return task.RawStatus{Status: resp.Status, VideoURL: resp.VideoURL, Error: resp.Error}, nil

	case task.KindMusicVideo:
		var resp videoStatusResponse
		path := "/api/v1/video/details?" + url.Values{"taskId": {taskID}}.Encode()
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return task.RawStatus{}, err
		}
		return task.RawStatus{Status: resp.Status, VideoURL: resp.VideoURL, Error: resp.Error}, nil

	default:
		return task.RawStatus{}, fmt.Errorf("%w: %q", task.ErrInvalidKind, kind)
	}
}

// doJSON performs a single HTTP request with bearer auth and JSON bodies.
// There is deliberately no retry here: a non-success status or transport
// failure surfaces immediately to the caller.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("kie: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("kie: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kie: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("kie: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("kie: unmarshal response: %w", err)
		}
	}

	return nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// Compile-time check that HTTPClient satisfies the waiter's fetcher port.
var _ task.StatusFetcher = (*HTTPClient)(nil)
