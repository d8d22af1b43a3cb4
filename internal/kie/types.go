package kie

// MusicGenerateParams contains the parameters for a Suno music generation.
type MusicGenerateParams struct {
	// Prompt is the text description of the music.
	Prompt string
	// CustomMode enables custom mode for more control.
	CustomMode bool
	// Instrumental generates instrumental only (no vocals).
	Instrumental bool
	// Model is the Suno model version (V3_5, V4, V5).
	Model string
	// CallbackURL receives the completion callback. When empty, a
	// placeholder is sent because the API rejects an empty field; the
	// service relies exclusively on polling.
	CallbackURL string
}

// MusicExtendParams contains the parameters for extending an existing track.
type MusicExtendParams struct {
	// AudioURL is the URL of the original audio.
	AudioURL string
	// Prompt describes the extension.
	Prompt string
	// ContinueAt is the time in seconds to continue from.
	ContinueAt int
}

// VideoGenerateParams contains the parameters for a Wan 2.5 video generation.
type VideoGenerateParams struct {
	// Prompt is the text description of the video scene.
	Prompt string
	// ImageURL is an optional starting image for image-to-video.
	ImageURL string
	// Duration is "5" or "10" seconds.
	Duration string
	// Resolution is "720p" or "1080p".
	Resolution string
	// AspectRatio is "16:9", "9:16", or "1:1".
	AspectRatio string
	// NegativePrompt lists content to exclude.
	NegativePrompt string
	// EnablePromptExpansion lets the provider rewrite the prompt.
	EnablePromptExpansion bool
	// Seed is an optional random seed for reproducibility.
	Seed *int
}

// musicGenerateRequest is the wire body for POST /api/v1/generate.
type musicGenerateRequest struct {
	Prompt       string `json:"prompt"`
	CustomMode   bool   `json:"customMode"`
	Instrumental bool   `json:"instrumental"`
	Model        string `json:"model"`
	CallBackURL  string `json:"callBackUrl"`
}

// musicExtendRequest is the wire body for POST /api/v1/generate/extend.
type musicExtendRequest struct {
	AudioURL   string `json:"audioUrl"`
	Prompt     string `json:"prompt"`
	ContinueAt int    `json:"continueAt"`
}

// videoGenerateRequest is the wire body for POST /wan-2-5/generate-video.
// Optional fields are omitted entirely when unset; the API treats null
// placeholders as invalid input.
type videoGenerateRequest struct {
	Prompt                string `json:"prompt"`
	Duration              string `json:"duration"`
	Resolution            string `json:"resolution"`
	AspectRatio           string `json:"aspect_ratio"`
	EnablePromptExpansion bool   `json:"enable_prompt_expansion"`
	ImageURL              string `json:"image_url,omitempty"`
	NegativePrompt        string `json:"negative_prompt,omitempty"`
	Seed                  *int   `json:"seed,omitempty"`
}

// musicSubmitResponse carries the task identifier issued for a music job.
type musicSubmitResponse struct {
	TaskID string `json:"taskId"`
}

// videoSubmitResponse carries the generation identifier issued for a
// video job.
type videoSubmitResponse struct {
	GenerationID string `json:"generationId"`
}

// musicStatusResponse is the wire shape of a music status fetch.
type musicStatusResponse struct {
	Status   string `json:"status"`
	AudioURL string `json:"audioUrl"`
	Error    string `json:"error"`
}

// videoStatusResponse is the wire shape of a video status fetch. The
// music-derived-video endpoint shares this shape.
type videoStatusResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"videoUrl"`
	Error    string `json:"error"`
}
