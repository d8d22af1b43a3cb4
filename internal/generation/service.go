// Package generation provides the orchestration facade for the four
// user-facing generation flows: generate music, extend music, generate
// video, and fetch a music-derived video.
//
// Each submission authorizes against the credit ledger before the
// provider is called, and each observation settles the credit reservation
// exactly once when the task reaches a terminal outcome.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crieapp/crie-api/internal/credit"
	"github.com/crieapp/crie-api/internal/kie"
	"github.com/crieapp/crie-api/internal/storage"
	"github.com/crieapp/crie-api/internal/task"
)

// ErrUserIDRequired is returned when an operation is attempted without a
// requesting user.
var ErrUserIDRequired = errors.New("generation: user ID is required")

// Costs holds the per-kind credit cost of a submission.
type Costs struct {
	Music       int
	MusicExtend int
	Video       int
}

// DefaultCosts returns the standard pricing for generation flows.
func DefaultCosts() Costs {
	return Costs{Music: 10, MusicExtend: 10, Video: 20}
}

// forKind returns the credit cost of submitting a task of the given kind.
func (c Costs) forKind(kind task.Kind) int {
	switch kind {
	case task.KindMusicExtend:
		return c.MusicExtend
	case task.KindVideo:
		return c.Video
	default:
		return c.Music
	}
}

// Result is a task outcome together with the archived media location,
// when archival is configured and this observation settled the task.
type Result struct {
	task.Outcome
	// ArchivedURL is the location of the service-owned media copy.
	ArchivedURL string
}

// Service composes the provider client, the credit ledger, the task
// registry, and the waiter into the user-facing flows. It is the only
// component that knows which provider endpoint serves which flow.
type Service struct {
	client   kie.Client
	ledger   credit.Ledger
	registry task.Registry
	waiter   *task.Waiter
	archiver storage.Archiver
	costs    Costs
	policies map[task.Kind]task.PollPolicy
	logger   *slog.Logger
}

// ServiceOption is a function that configures a Service.
type ServiceOption func(*Service)

// WithCosts overrides the per-kind credit costs.
func WithCosts(costs Costs) ServiceOption {
	return func(s *Service) {
		s.costs = costs
	}
}

// WithArchiver enables archival of completed media.
func WithArchiver(a storage.Archiver) ServiceOption {
	return func(s *Service) {
		s.archiver = a
	}
}

// WithPollPolicy overrides the polling policy for one kind.
func WithPollPolicy(kind task.Kind, policy task.PollPolicy) ServiceOption {
	return func(s *Service) {
		s.policies[kind] = policy
	}
}

// NewService creates a new generation Service.
func NewService(client kie.Client, ledger credit.Ledger, registry task.Registry, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		client:   client,
		ledger:   ledger,
		registry: registry,
		waiter:   task.NewWaiter(client, logger),
		costs:    DefaultCosts(),
		policies: make(map[task.Kind]task.PollPolicy),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateMusic submits a Suno music generation for the user.
func (s *Service) GenerateMusic(ctx context.Context, userID string, in MusicInput) (task.Handle, error) {
	if err := in.Validate(); err != nil {
		return task.Handle{}, err
	}
	return s.submit(ctx, userID, task.KindMusic, func(ctx context.Context) (string, error) {
		return s.client.GenerateMusic(ctx, kie.MusicGenerateParams{
			Prompt:       in.Prompt,
			CustomMode:   in.CustomMode,
			Instrumental: in.Instrumental,
			Model:        in.Model,
		})
	})
}

// ExtendMusic submits a Suno extension of an existing track for the user.
func (s *Service) ExtendMusic(ctx context.Context, userID string, in ExtendInput) (task.Handle, error) {
	if err := in.Validate(); err != nil {
		return task.Handle{}, err
	}
	return s.submit(ctx, userID, task.KindMusicExtend, func(ctx context.Context) (string, error) {
		return s.client.ExtendMusic(ctx, kie.MusicExtendParams{
			AudioURL:   in.AudioURL,
			Prompt:     in.Prompt,
			ContinueAt: in.ContinueAt,
		})
	})
}

// GenerateVideo submits a Wan 2.5 video generation for the user.
// Invalid parameter combinations are rejected before any provider call.
func (s *Service) GenerateVideo(ctx context.Context, userID string, in VideoInput) (task.Handle, error) {
	in.applyDefaults()
	if err := in.Validate(); err != nil {
		return task.Handle{}, err
	}
	return s.submit(ctx, userID, task.KindVideo, func(ctx context.Context) (string, error) {
		return s.client.GenerateVideo(ctx, kie.VideoGenerateParams{
			Prompt:                in.Prompt,
			ImageURL:              in.ImageURL,
			Duration:              in.Duration,
			Resolution:            in.Resolution,
			AspectRatio:           in.AspectRatio,
			NegativePrompt:        in.NegativePrompt,
			EnablePromptExpansion: in.EnablePromptExpansion,
			Seed:                  in.Seed,
		})
	})
}

// submit reserves the per-kind cost, calls the provider, and records the
// resulting handle. A failed provider call refunds the reservation, since
// no task exists to settle later.
func (s *Service) submit(ctx context.Context, userID string, kind task.Kind, call func(context.Context) (string, error)) (task.Handle, error) {
	if userID == "" {
		return task.Handle{}, ErrUserIDRequired
	}

	cost := s.costs.forKind(kind)
	if err := s.ledger.Reserve(ctx, userID, cost); err != nil {
		return task.Handle{}, fmt.Errorf("authorize %s: %w", kind, err)
	}

	taskID, err := call(ctx)
	if err != nil {
		if refundErr := s.ledger.Refund(ctx, userID, cost); refundErr != nil {
			s.logger.Error("failed to refund after submit error",
				slog.String("user_id", userID),
				slog.String("error", refundErr.Error()),
			)
		}
		return task.Handle{}, fmt.Errorf("submit %s: %w", kind, err)
	}

	handle := task.Handle{
		ID:          taskID,
		Kind:        kind,
		UserID:      userID,
		SubmittedAt: time.Now(),
	}
	if err := s.registry.Save(ctx, &task.Record{Handle: handle, Cost: cost}); err != nil {
		return task.Handle{}, fmt.Errorf("record %s task: %w", kind, err)
	}

	s.logger.Info("task submitted",
		slog.String("task_id", taskID),
		slog.String("kind", string(kind)),
		slog.String("user_id", userID),
		slog.Int("cost", cost),
	)

	return handle, nil
}

// Status fetches and normalizes the current state of a task without
// waiting. A terminal outcome settles the task's credit reservation.
func (s *Service) Status(ctx context.Context, kind task.Kind, taskID string) (Result, error) {
	if taskID == "" {
		return Result{}, task.ErrTaskIDRequired
	}
	if !kind.IsValid() {
		return Result{}, fmt.Errorf("%w: %q", task.ErrInvalidKind, kind)
	}

	raw, err := s.client.FetchStatus(ctx, kind, taskID)
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s status: %w", kind, err)
	}

	outcome := task.Normalize(kind, raw)
	return s.settle(ctx, kind, taskID, outcome), nil
}

// Await polls a task until a terminal outcome or the kind's wait deadline.
// The poll loop blocks only this caller; cancelling ctx stops polling with
// no ledger side effects, and the same task ID can be awaited again later.
func (s *Service) Await(ctx context.Context, kind task.Kind, taskID string) (Result, error) {
	policy, ok := s.policies[kind]
	if !ok {
		policy = task.DefaultPolicy(kind)
	}

	outcome, err := s.waiter.Await(ctx, kind, taskID, policy)
	if err != nil {
		return Result{}, err
	}

	return s.settle(ctx, kind, taskID, outcome), nil
}

// settle reconciles a task outcome against the credit ledger at most
// once: a succeeded task keeps its reservation (and is archived when
// archival is configured), a failed or timed-out task refunds it.
//
// Tasks with no registry record (submitted by a previous process, or a
// music-video lookup for a task whose music reservation already settled)
// have nothing to settle and pass through unchanged.
func (s *Service) settle(ctx context.Context, kind task.Kind, taskID string, outcome task.Outcome) Result {
	res := Result{Outcome: outcome}
	if !outcome.IsTerminal() {
		return res
	}

	first, err := s.registry.MarkSettled(ctx, taskID)
	if err != nil {
		if !errors.Is(err, task.ErrRecordNotFound) {
			s.logger.Error("failed to settle task",
				slog.String("task_id", taskID),
				slog.String("error", err.Error()),
			)
		}
		return res
	}
	if !first {
		return res
	}

	rec, err := s.registry.FindByID(ctx, taskID)
	if err != nil {
		return res
	}

	switch outcome.State {
	case task.StateSucceeded:
		res.ArchivedURL = s.archive(ctx, kind, taskID, outcome)
		s.logger.Info("task settled: debit kept",
			slog.String("task_id", taskID),
			slog.String("user_id", rec.Handle.UserID),
			slog.Int("cost", rec.Cost),
		)
	case task.StateFailed, task.StateTimedOut:
		if err := s.ledger.Refund(ctx, rec.Handle.UserID, rec.Cost); err != nil {
			s.logger.Error("failed to refund task cost",
				slog.String("task_id", taskID),
				slog.String("user_id", rec.Handle.UserID),
				slog.String("error", err.Error()),
			)
			return res
		}
		s.logger.Info("task settled: cost refunded",
			slog.String("task_id", taskID),
			slog.String("user_id", rec.Handle.UserID),
			slog.String("state", string(outcome.State)),
			slog.Int("cost", rec.Cost),
		)
	}

	return res
}

// archive stores a service-owned copy of the completed media, best effort.
func (s *Service) archive(ctx context.Context, kind task.Kind, taskID string, outcome task.Outcome) string {
	if s.archiver == nil {
		return ""
	}

	srcURL := outcome.VideoURL
	ext := ".mp4"
	if kind.IsMusic() {
		srcURL = outcome.AudioURL
		ext = ".mp3"
	}
	if srcURL == "" {
		return ""
	}

	location, err := s.archiver.Archive(ctx, srcURL, string(kind)+"/"+taskID+ext)
	if err != nil {
		s.logger.Error("failed to archive media",
			slog.String("task_id", taskID),
			slog.String("source_url", srcURL),
			slog.String("error", err.Error()),
		)
		return ""
	}

	s.logger.Info("media archived",
		slog.String("task_id", taskID),
		slog.String("location", location),
	)
	return location
}
