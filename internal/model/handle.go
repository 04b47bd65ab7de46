package model

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/faizanTadvi/SIHP1/internal/log"
)

var ErrNotConfigured = errors.New("model not initialized")

// Handle is the outcome of building the classifier at startup. It is either
// ready for the whole life of the process or failed for the whole of it.
type Handle struct {
	name       string
	classifier Classifier
	err        error
}

func Ready(name string, c Classifier) *Handle {
	return &Handle{name: name, classifier: c}
}

func Failed(name string, err error) *Handle {
	return &Handle{name: name, err: err}
}

// Initialize resolves the credential and builds the classifier, turning any
// failure into a failed Handle. It never returns an error.
func Initialize(ctx context.Context, name string, key func() (string, error), build func(string) (Classifier, error)) *Handle {
	log := log.FromContextOrDiscard(ctx).WithGroup("model").With("name", name)

	k, err := key()
	if err != nil {
		log.Error("CRITICAL ERROR: model credential unavailable", "error", err)
		return Failed(name, err)
	}
	c, err := build(k)
	if err != nil {
		log.Error("CRITICAL ERROR: failed to configure or initialize model", "error", err)
		return Failed(name, err)
	}
	log.Info("model initialized")
	return Ready(name, c)
}

func (h *Handle) Name() string {
	return h.name
}

// Classifier returns the ready classifier, or ErrNotConfigured wrapping the startup diagnostic.
func (h *Handle) Classifier() (Classifier, error) {
	if h == nil {
		return nil, ErrNotConfigured
	}
	if h.classifier == nil {
		if h.err == nil {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("%w: %w", ErrNotConfigured, h.err)
	}
	return h.classifier, nil
}

func (h *Handle) Shutdown() error {
	if c, ok := h.classifier.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
