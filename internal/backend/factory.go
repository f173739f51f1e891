package backend

import (
	"fmt"
	"log/slog"
	"time"

	"finview/internal/api/memory"
	"finview/internal/api/rest"
	"finview/internal/config"
)

// Config holds what a factory needs to build a backend.
type Config struct {
	Type Type

	// REST specific
	APIBaseURL    string
	APITimeout    time.Duration
	SessionCookie string

	// Memory specific
	DataDir string
}

// FromAppConfig converts application config into backend config.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", cfg.DataBackend)
	}
	return Config{
		Type:          t,
		APIBaseURL:    cfg.APIBaseURL,
		APITimeout:    cfg.APITimeout,
		SessionCookie: cfg.SessionCookie,
		DataDir:       cfg.DataDir,
	}, nil
}

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds a backend instance for the given config.
func (f *Factory) Create(cfg Config) (*Result, error) {
	switch cfg.Type {
	case RESTBackend:
		if cfg.APIBaseURL == "" {
			return nil, fmt.Errorf("API base URL is required for the rest backend")
		}
		opts := []rest.Option{}
		if cfg.APITimeout > 0 {
			opts = append(opts, rest.WithTimeout(cfg.APITimeout))
		}
		if cfg.SessionCookie != "" {
			opts = append(opts, rest.WithSessionCookie(cfg.SessionCookie))
		}
		client := rest.NewClient(cfg.APIBaseURL, opts...)
		f.logger.Info("Initialized REST backend", "base_url", cfg.APIBaseURL, "timeout", cfg.APITimeout)
		return &Result{Backend: client}, nil

	case MemoryBackend:
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "data"
		}
		store := memory.NewFromFiles(dataDir)
		f.logger.Info("Initialized memory backend", "data_directory", dataDir)
		return &Result{Backend: store}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
