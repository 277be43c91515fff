// Package advisor turns platform errors and payloads into human-readable
// explanations. The Gemini-backed implementation degrades to a deterministic
// stub on any failure: callers display advisor output, they never branch on
// it, so it must not be able to fail them.
package advisor

import (
	"context"
	"strings"
)

// Advisor produces a natural-language explanation for a prompt pair.
type Advisor interface {
	Explain(ctx context.Context, systemPrompt, userPrompt string) string
}

// =============================================================================
// STUB ADVISOR
// =============================================================================

// Stub is the deterministic fallback used when no API key is configured or a
// live call fails. Responses are keyed on prompt keywords so the dialogue
// still reads sensibly offline.
type Stub struct{}

// NewStub creates a Stub advisor.
func NewStub() *Stub {
	return &Stub{}
}

// Explain implements Advisor.
func (s *Stub) Explain(_ context.Context, systemPrompt, userPrompt string) string {
	combined := systemPrompt + " " + userPrompt
	lower := strings.ToLower(combined)

	switch {
	case strings.Contains(combined, "OAuth"):
		return "[SIMULATED LLM] The OAuth error indicates invalid credentials or missing permissions. " +
			"Suggested action: verify your platform app credentials or re-authenticate granting the ads permission."
	case strings.Contains(lower, "validation"):
		return "[SIMULATED LLM] Validation failed. Check the provided fields and follow the suggested corrective actions."
	case strings.Contains(lower, "summarize") || strings.Contains(lower, "structured output"):
		return "[SIMULATED LLM] Summary: " + userPrompt
	}
	return "[SIMULATED LLM] " + userPrompt
}
