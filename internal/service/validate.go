package service

import (
	"strconv"
	"strings"

	"imagecreator/internal/domain"
)

const defaultSize = "1024x1024"

var validSizes = []string{"1024x1024", "1024x1536", "1536x1024"}

const (
	minBatchPrompts = 1
	maxBatchPrompts = 20
	minCount        = 1
	maxCount        = 4
)

func normalizeSize(size string) (string, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return defaultSize, nil
	}
	for _, v := range validSizes {
		if size == v {
			return size, nil
		}
	}
	return "", domain.Validationf("size", "must be one of %s", strings.Join(validSizes, ", "))
}

func parseSize(size string) (int, int) {
	parts := strings.SplitN(size, "x", 2)
	if len(parts) != 2 {
		return 1024, 1024
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil {
		return 1024, 1024
	}
	return w, h
}

// closestSize maps arbitrary source dimensions onto the nearest supported
// generation size by orientation.
func closestSize(w, h int) string {
	switch {
	case w > h:
		return "1536x1024"
	case h > w:
		return "1024x1536"
	default:
		return "1024x1024"
	}
}

func validateCount(count int) (int, error) {
	if count == 0 {
		return minCount, nil
	}
	if count < minCount || count > maxCount {
		return 0, domain.Validationf("count", "must be between %d and %d", minCount, maxCount)
	}
	return count, nil
}

func validatePrompt(prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.Validationf("prompt", "is required")
	}
	return prompt, nil
}

func validateRange(field string, v, min, max float64) error {
	if v < min || v > max {
		return domain.Validationf(field, "must be between %s and %s",
			trimFloat(min), trimFloat(max))
	}
	return nil
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateUpscaleFactor(factor int) error {
	if factor != 2 && factor != 4 {
		return domain.Validationf("factor", "must be 2 or 4")
	}
	return nil
}

func validateBatchPrompts(prompts []string) ([]string, error) {
	cleaned := make([]string, 0, len(prompts))
	for _, p := range prompts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) < minBatchPrompts {
		return nil, domain.Validationf("prompts", "at least one non-empty prompt is required")
	}
	if len(cleaned) > maxBatchPrompts {
		return nil, domain.Validationf("prompts", "at most %d prompts per batch", maxBatchPrompts)
	}
	return cleaned, nil
}
