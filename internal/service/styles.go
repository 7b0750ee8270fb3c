package service

import (
	"sort"
	"strings"
)

// styleSuffixes appends style guidance to a user prompt. Keys are the style
// names clients send.
var styleSuffixes = map[string]string{
	"photorealistic": ", photorealistic, 8k resolution, highly detailed, natural lighting",
	"digital-art":    ", digital art, vibrant colors, detailed illustration",
	"watercolor":     ", watercolor painting, soft brush strokes, artistic",
	"oil-painting":   ", oil painting, rich textures, classical art style",
	"anime":          ", anime style, cel shaded, vibrant",
	"3d-render":      ", 3d render, octane render, high detail",
	"minimalist":     ", minimalist style, clean lines, simple composition",
	"vintage":        ", vintage photograph, film grain, faded colors",
}

// Styles lists the available style names sorted alphabetically.
func Styles() []string {
	names := make([]string, 0, len(styleSuffixes))
	for name := range styleSuffixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyStyle appends the suffix for a known style. Unknown or empty styles
// leave the prompt untouched.
func applyStyle(prompt, style string) string {
	suffix, ok := styleSuffixes[strings.TrimSpace(style)]
	if !ok {
		return prompt
	}
	return prompt + suffix
}
