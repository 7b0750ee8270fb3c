package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Enricher rewrites a raw user prompt into a richer generation prompt.
type Enricher interface {
	Enrich(ctx context.Context, prompt string) (string, error)
}

// Merger folds an edit instruction into an existing generation prompt so a
// regeneration still reflects the requested change.
type Merger interface {
	Merge(ctx context.Context, original, instruction string) (string, error)
}

// StaticEnricher produces a deterministic enrichment without network calls.
type StaticEnricher struct{}

func NewStaticEnricher() *StaticEnricher {
	return &StaticEnricher{}
}

func (s *StaticEnricher) Enrich(ctx context.Context, prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", fmt.Errorf("prompt is empty")
	}
	c := cases.Title(language.Und)
	subject := c.String(trimmed)
	return fmt.Sprintf("%s, highly detailed, sharp focus, professional composition", subject), nil
}

func (s *StaticEnricher) Merge(ctx context.Context, original, instruction string) (string, error) {
	original = strings.TrimSpace(original)
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return original, nil
	}
	if original == "" {
		return instruction, nil
	}
	return fmt.Sprintf("%s, %s", original, instruction), nil
}

var _ Enricher = (*StaticEnricher)(nil)
var _ Merger = (*StaticEnricher)(nil)
