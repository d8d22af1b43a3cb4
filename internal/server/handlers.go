package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/crieapp/crie-api/internal/auth"
	"github.com/crieapp/crie-api/internal/credit"
	"github.com/crieapp/crie-api/internal/generation"
	"github.com/crieapp/crie-api/internal/task"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service       *generation.Service
	ledger        credit.Ledger
	tokens        *auth.Manager
	validator     *validator.Validate
	logger        *slog.Logger
	signupCredits int
	adminEmail    string
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithSignupCredits sets the flat credit grant for new accounts.
func WithSignupCredits(credits int) HandlerOption {
	return func(h *Handlers) {
		h.signupCredits = credits
	}
}

// WithAdminEmail sets the email that receives the admin flag at signup.
func WithAdminEmail(email string) HandlerOption {
	return func(h *Handlers) {
		h.adminEmail = email
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *generation.Service, ledger credit.Ledger, tokens *auth.Manager, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:       service,
		ledger:        ledger,
		tokens:        tokens,
		validator:     validator.New(),
		logger:        logger,
		signupCredits: 20,
		adminEmail:    "admin@crie-app.com",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Signup handles POST /api/auth/signup requests.
// New accounts receive a flat signup credit grant.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create account", "SIGNUP_FAILED")
		return
	}

	acc := &credit.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.Email == h.adminEmail,
		Balance:      h.signupCredits,
		CreatedAt:    time.Now(),
	}
	if err := h.ledger.Create(r.Context(), acc); err != nil {
		if errors.Is(err, credit.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email already registered", "EMAIL_TAKEN")
			return
		}
		h.logger.Error("failed to create account", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create account", "SIGNUP_FAILED")
		return
	}

	token, err := h.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create session", "TOKEN_ISSUE_FAILED")
		return
	}

	h.logger.Info("account created",
		slog.String("user_id", acc.ID),
		slog.Bool("is_admin", acc.IsAdmin),
	)

	writeJSON(w, http.StatusOK, TokenResponse{Token: token, User: userResponse(acc)})
}

// Login handles POST /api/auth/login requests.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	acc, err := h.ledger.FindByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(acc.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
		return
	}

	token, err := h.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create session", "TOKEN_ISSUE_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token, User: userResponse(acc)})
}

// Verify handles GET /api/auth/verify requests. The token is passed as a
// query parameter.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		writeError(w, http.StatusBadRequest, "token is required", "MISSING_TOKEN")
		return
	}

	claims, err := h.tokens.Verify(tokenString)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token", "UNAUTHORIZED")
		return
	}

	acc, err := h.ledger.FindByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found", "USER_NOT_FOUND")
		return
	}

	writeJSON(w, http.StatusOK, userResponse(acc))
}

// GetUser handles GET /api/users/{id} requests.
// Users can read their own account; admins can read any.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED")
		return
	}

	userID := r.PathValue("id")
	if userID != claims.UserID && !h.isAdmin(r.Context(), claims.UserID) {
		writeError(w, http.StatusForbidden, "access denied", "FORBIDDEN")
		return
	}

	acc, err := h.ledger.FindByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found", "USER_NOT_FOUND")
		return
	}

	writeJSON(w, http.StatusOK, userResponse(acc))
}

// SetUserTokens handles PUT /api/users/{id}/tokens requests: the raw
// balance-set operation, restricted to admins.
func (h *Handlers) SetUserTokens(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok || !h.isAdmin(r.Context(), claims.UserID) {
		writeError(w, http.StatusForbidden, "access denied", "FORBIDDEN")
		return
	}

	var req UpdateTokensRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	userID := r.PathValue("id")
	if err := h.ledger.SetBalance(r.Context(), userID, *req.Tokens); err != nil {
		if errors.Is(err, credit.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "user not found", "USER_NOT_FOUND")
			return
		}
		h.logger.Error("failed to set balance",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to update tokens", "UPDATE_FAILED")
		return
	}

	h.logger.Info("balance set",
		slog.String("user_id", userID),
		slog.Int("tokens", *req.Tokens),
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Tokens updated successfully"})
}

// GenerateMusic handles POST /api/music requests.
func (h *Handlers) GenerateMusic(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED")
		return
	}

	var req MusicGenerateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	handle, err := h.service.GenerateMusic(r.Context(), claims.UserID, generation.MusicInput{
		Prompt:       req.Prompt,
		CustomMode:   req.CustomMode,
		Instrumental: req.Instrumental,
		Model:        req.Model,
	})
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	writeTaskAccepted(w, handle)
}

// ExtendMusic handles POST /api/music/extend requests.
func (h *Handlers) ExtendMusic(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED")
		return
	}

	var req MusicExtendRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	handle, err := h.service.ExtendMusic(r.Context(), claims.UserID, generation.ExtendInput{
		AudioURL:   req.AudioURL,
		Prompt:     req.Prompt,
		ContinueAt: req.ContinueAt,
	})
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	writeTaskAccepted(w, handle)
}

// GenerateVideo handles POST /api/video requests.
func (h *Handlers) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED")
		return
	}

	var req VideoGenerateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	expansion := true
	if req.EnablePromptExpansion != nil {
		expansion = *req.EnablePromptExpansion
	}

	handle, err := h.service.GenerateVideo(r.Context(), claims.UserID, generation.VideoInput{
		Prompt:                req.Prompt,
		ImageURL:              req.ImageURL,
		Duration:              req.Duration,
		Resolution:            req.Resolution,
		AspectRatio:           req.AspectRatio,
		NegativePrompt:        req.NegativePrompt,
		EnablePromptExpansion: expansion,
		Seed:                  req.Seed,
	})
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	writeTaskAccepted(w, handle)
}

// MusicStatus handles GET /api/music/{taskId} requests.
func (h *Handlers) MusicStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, task.KindMusic, r.PathValue("taskId"))
}

// MusicWait handles GET /api/music/{taskId}/wait requests.
func (h *Handlers) MusicWait(w http.ResponseWriter, r *http.Request) {
	h.wait(w, r, task.KindMusic, r.PathValue("taskId"))
}

// MusicVideoStatus handles GET /api/music/{taskId}/video requests:
// the video rendition tied to an already-submitted music task.
func (h *Handlers) MusicVideoStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, task.KindMusicVideo, r.PathValue("taskId"))
}

// MusicVideoWait handles GET /api/music/{taskId}/video/wait requests.
func (h *Handlers) MusicVideoWait(w http.ResponseWriter, r *http.Request) {
	h.wait(w, r, task.KindMusicVideo, r.PathValue("taskId"))
}

// VideoStatus handles GET /api/video/{generationId} requests.
func (h *Handlers) VideoStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, task.KindVideo, r.PathValue("generationId"))
}

// VideoWait handles GET /api/video/{generationId}/wait requests.
func (h *Handlers) VideoWait(w http.ResponseWriter, r *http.Request) {
	h.wait(w, r, task.KindVideo, r.PathValue("generationId"))
}

// status performs a single status fetch for a task.
func (h *Handlers) status(w http.ResponseWriter, r *http.Request, kind task.Kind, taskID string) {
	res, err := h.service.Status(r.Context(), kind, taskID)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse(res))
}

// wait blocks until the task reaches a terminal outcome or the per-kind
// deadline elapses. Timed-out and provider-reported failures are data,
// not errors: both return 200 with the outcome.
func (h *Handlers) wait(w http.ResponseWriter, r *http.Request, kind task.Kind, taskID string) {
	res, err := h.service.Await(r.Context(), kind, taskID)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse(res))
}

// isAdmin reports whether the user has the admin flag.
func (h *Handlers) isAdmin(ctx context.Context, userID string) bool {
	acc, err := h.ledger.FindByID(ctx, userID)
	return err == nil && acc.IsAdmin
}

// decodeAndValidate decodes the JSON body into dst and validates it,
// writing the error response itself on failure.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

// validationErrors are the facade-level rejections that happen before any
// credit reservation or provider call.
var validationErrors = []error{
	generation.ErrPromptRequired,
	generation.ErrAudioURLRequired,
	generation.ErrNegativeContinueAt,
	generation.ErrInvalidModel,
	generation.ErrInvalidDuration,
	generation.ErrInvalidResolution,
	generation.ErrInvalidAspectRatio,
	generation.ErrResolutionUnavailable,
	generation.ErrUserIDRequired,
	task.ErrTaskIDRequired,
	task.ErrInvalidKind,
}

// writeGenerationError maps facade errors onto the HTTP error taxonomy:
// insufficient credit is a 4xx denial, provider transport failures are
// 5xx, validation rejections are 400.
func (h *Handlers) writeGenerationError(w http.ResponseWriter, err error) {
	for _, ve := range validationErrors {
		if errors.Is(err, ve) {
			writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
			return
		}
	}

	switch {
	case errors.Is(err, credit.ErrInsufficientCredit):
		writeError(w, http.StatusPaymentRequired, "insufficient credit", "INSUFFICIENT_CREDIT")
	case errors.Is(err, credit.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "user not found", "USER_NOT_FOUND")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request cancelled before the task completed", "WAIT_CANCELLED")
	default:
		h.logger.Error("provider request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "generation provider request failed", "PROVIDER_ERROR")
	}
}

// userResponse converts an account to its public view.
func userResponse(acc *credit.Account) UserResponse {
	return UserResponse{
		ID:      acc.ID,
		Email:   acc.Email,
		IsAdmin: acc.IsAdmin,
		Tokens:  acc.Balance,
	}
}

// outcomeResponse converts a facade result to its wire shape.
func outcomeResponse(res generation.Result) OutcomeResponse {
	return OutcomeResponse{
		Status:      string(res.State),
		AudioURL:    res.AudioURL,
		VideoURL:    res.VideoURL,
		ArchivedURL: res.ArchivedURL,
		Error:       res.Error,
	}
}

// writeTaskAccepted writes the 202 response for a submitted task.
func writeTaskAccepted(w http.ResponseWriter, handle task.Handle) {
	writeJSON(w, http.StatusAccepted, TaskResponse{
		TaskID: handle.ID,
		Kind:   string(handle.Kind),
		Status: string(task.StatePending),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
