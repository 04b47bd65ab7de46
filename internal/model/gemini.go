package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/faizanTadvi/SIHP1/internal/image"
	"github.com/faizanTadvi/SIHP1/internal/log"
	"github.com/faizanTadvi/SIHP1/internal/prompt"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("model returned no text")

type contentGenerator interface {
	GenerateContent(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error)
}

type GeminiClassifier struct {
	client  *genai.Client
	model   contentGenerator
	prompt  prompt.Prompt
	timeout time.Duration
}

// NewGeminiClassifier binds a Gemini model to the credential. A zero timeout
// leaves the call bounded only by the caller's context.
func NewGeminiClassifier(ctx context.Context, key, name string, timeout time.Duration, p prompt.Prompt) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClassifier{
		client:  client,
		model:   client.GenerativeModel(name),
		prompt:  p,
		timeout: timeout,
	}, nil
}

func (g *GeminiClassifier) Classify(ctx context.Context, img *image.Image) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("gemini").With(
		"format", img.Format,
		"width", img.Width,
		"height", img.Height,
	)
	log.Info("classifying image")

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx,
		genai.Text(g.prompt.String()),
		genai.ImageData(img.Format, img.Data),
	)
	if err != nil {
		return "", err
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	log.Info("received classification", "duration", time.Since(start), "text", text)
	return text, nil
}

func (g *GeminiClassifier) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
