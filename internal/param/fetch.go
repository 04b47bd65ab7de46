package param

import (
	"context"
	"errors"

	"github.com/faizanTadvi/SIHP1/internal/config"
	"github.com/faizanTadvi/SIHP1/internal/log"
)

// ErrMissing means neither the environment nor a parameter path supplied the credential.
var ErrMissing = errors.New("GEMINI_API_KEY environment variable not found")

type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// APIKey resolves the model credential. A key set directly in the environment
// wins; otherwise the parameter named by GEMINI_API_KEY_PARAM is fetched.
func APIKey(ctx context.Context, cfg *config.Config, fetcher func() (Fetcher, error)) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	if cfg.APIKeyParam == "" {
		return "", ErrMissing
	}

	log.FromContextOrDiscard(ctx).Info("resolving api key from parameter", "path", cfg.APIKeyParam)
	f, err := fetcher()
	if err != nil {
		return "", err
	}
	key, err := f.Fetch(ctx, cfg.APIKeyParam)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrMissing
	}
	return key, nil
}
