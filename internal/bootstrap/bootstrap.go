// Package bootstrap provides dependency initialization for the Crie API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/crieapp/crie-api/internal/auth"
	"github.com/crieapp/crie-api/internal/config"
	"github.com/crieapp/crie-api/internal/credit"
	"github.com/crieapp/crie-api/internal/generation"
	"github.com/crieapp/crie-api/internal/kie"
	"github.com/crieapp/crie-api/internal/storage"
	"github.com/crieapp/crie-api/internal/task"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Service *generation.Service
	Ledger  credit.Ledger
	Tokens  *auth.Manager
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	kieClient, err := kie.NewClient(
		kie.WithAPIKey(cfg.KieAPIKey),
		kie.WithBaseURL(cfg.KieBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create kie client: %w", err)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, auth.WithTokenTTL(cfg.JWTTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("create token manager: %w", err)
	}

	ledger := credit.NewMemoryLedger()
	registry := task.NewMemoryRegistry()

	opts := []generation.ServiceOption{
		generation.WithCosts(generation.Costs{
			Music:       cfg.MusicCost,
			MusicExtend: cfg.MusicExtendCost,
			Video:       cfg.VideoCost,
		}),
		generation.WithPollPolicy(task.KindMusic, task.PollPolicy{
			MaxWait: cfg.MusicMaxWait, Interval: cfg.MusicPollInterval,
		}),
		generation.WithPollPolicy(task.KindMusicExtend, task.PollPolicy{
			MaxWait: cfg.MusicMaxWait, Interval: cfg.MusicPollInterval,
		}),
		generation.WithPollPolicy(task.KindVideo, task.PollPolicy{
			MaxWait: cfg.VideoMaxWait, Interval: cfg.VideoPollInterval,
		}),
		generation.WithPollPolicy(task.KindMusicVideo, task.PollPolicy{
			MaxWait: cfg.VideoMaxWait, Interval: cfg.VideoPollInterval,
		}),
	}

	if cfg.ArchiveEnabled {
		archiver, err := initArchiver(cfg, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, generation.WithArchiver(archiver))
	}

	svc := generation.NewService(kieClient, ledger, registry, logger, opts...)

	return &Dependencies{
		Service: svc,
		Ledger:  ledger,
		Tokens:  tokens,
	}, nil
}

// initArchiver creates the appropriate archive backend based on configuration.
func initArchiver(cfg *config.Config, logger *slog.Logger) (storage.Archiver, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Archiver, err := storage.NewS3Archiver(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 archiver: %w", err)
		}
		logger.Info("S3 archive configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Archiver, nil
	}

	localArchiver, err := storage.NewLocalArchiver(cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("create local archiver: %w", err)
	}
	logger.Info("local archive configured",
		slog.String("dir", localArchiver.Dir()),
	)
	return localArchiver, nil
}
