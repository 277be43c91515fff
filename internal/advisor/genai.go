package advisor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI ADVISOR
// =============================================================================

// GenAI explains errors and payloads using Google's Gemini API.
type GenAI struct {
	client   *genai.Client
	model    string
	fallback *Stub
	logger   *zap.Logger
}

// NewGenAI creates a Gemini-backed advisor.
func NewGenAI(apiKey, model string, logger *zap.Logger) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAI{
		client:   client,
		model:    model,
		fallback: NewStub(),
		logger:   logger,
	}, nil
}

// Explain implements Advisor. Any API failure degrades to the stub response
// so the session dialogue never stalls on the explanation layer.
func (g *GenAI) Explain(ctx context.Context, systemPrompt, userPrompt string) string {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		g.logger.Warn("GenAI explain failed, falling back to stub", zap.Error(err))
		return g.fallback.Explain(ctx, systemPrompt, userPrompt)
	}

	text := result.Text()
	if text == "" {
		return g.fallback.Explain(ctx, systemPrompt, userPrompt)
	}
	return text
}

// New returns the Gemini advisor when an API key is available, otherwise the
// stub. Construction failures also fall back to the stub: the advisor is a
// display layer and must never block a session from starting.
func New(apiKey, model string, logger *zap.Logger) Advisor {
	if apiKey == "" {
		if logger != nil {
			logger.Info("No GenAI API key configured, using stubbed advisor")
		}
		return NewStub()
	}
	g, err := NewGenAI(apiKey, model, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("GenAI advisor unavailable, using stubbed advisor", zap.Error(err))
		}
		return NewStub()
	}
	return g
}
