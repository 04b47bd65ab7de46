package model

import (
	"context"

	"github.com/faizanTadvi/SIHP1/internal/image"
)

// Classifier names the breed of the animal in an image. The returned text is
// the model's raw reply; callers trim it.
type Classifier interface {
	Classify(context.Context, *image.Image) (string, error)
}
