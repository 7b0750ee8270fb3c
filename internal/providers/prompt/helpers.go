package prompt

import (
	"context"
	"fmt"
	"strings"

	"imagecreator/internal/infra"
)

// EnrichOrOriginal runs the enricher and falls back to the input prompt when
// enrichment fails. Generation must never be blocked by the enrichment path.
func EnrichOrOriginal(ctx context.Context, logger *infra.Logger, e Enricher, prompt string) string {
	if e == nil {
		return prompt
	}
	enriched, err := e.Enrich(ctx, prompt)
	if err != nil {
		logger.Warn().Err(err).Msg("prompt enrichment failed, using original")
		return prompt
	}
	return enriched
}

// MergeOrConcat folds an instruction into a prompt, falling back to a plain
// comma join when the merger fails.
func MergeOrConcat(ctx context.Context, logger *infra.Logger, m Merger, original, instruction string) string {
	original = strings.TrimSpace(original)
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return original
	}
	if m != nil {
		merged, err := m.Merge(ctx, original, instruction)
		if err == nil {
			return merged
		}
		logger.Warn().Err(err).Msg("instruction merge failed, concatenating")
	}
	if original == "" {
		return instruction
	}
	return fmt.Sprintf("%s, %s", original, instruction)
}
