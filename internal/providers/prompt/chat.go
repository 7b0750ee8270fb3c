package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imagecreator/internal/providers/gateway"
)

const defaultChatModel = "gpt-5-mini"

const enrichSystemPrompt = "You are an expert at writing prompts for AI image generation. " +
	"Rewrite the user's prompt to be more detailed and visually specific. " +
	"Keep the original subject and intent. Add concrete details about lighting, " +
	"composition, and style. Reply with the rewritten prompt only, no commentary."

const mergeSystemPrompt = "You combine an image generation prompt with an edit instruction " +
	"into a single new generation prompt that describes the edited result. " +
	"Reply with the combined prompt only, no commentary."

// ChatClient is the chat subset of the gateway client.
type ChatClient interface {
	ChatCompletion(ctx context.Context, model string, messages []gateway.ChatMessage) (string, error)
}

// ChatEnricher enriches prompts through a chat completion model.
type ChatEnricher struct {
	client ChatClient
	model  string
}

func NewChatEnricher(client ChatClient, model string) *ChatEnricher {
	if strings.TrimSpace(model) == "" {
		model = defaultChatModel
	}
	return &ChatEnricher{client: client, model: model}
}

func (c *ChatEnricher) Enrich(ctx context.Context, prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", errors.New("prompt is empty")
	}
	reply, err := c.client.ChatCompletion(ctx, c.model, []gateway.ChatMessage{
		{Role: "system", Content: enrichSystemPrompt},
		{Role: "user", Content: trimmed},
	})
	if err != nil {
		return "", fmt.Errorf("enrich prompt: %w", err)
	}
	reply = strings.Trim(strings.TrimSpace(reply), `"`)
	if reply == "" {
		return "", errors.New("enrich prompt: empty reply")
	}
	return reply, nil
}

func (c *ChatEnricher) Merge(ctx context.Context, original, instruction string) (string, error) {
	reply, err := c.client.ChatCompletion(ctx, c.model, []gateway.ChatMessage{
		{Role: "system", Content: mergeSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Prompt: %s\nInstruction: %s", original, instruction)},
	})
	if err != nil {
		return "", fmt.Errorf("merge instruction: %w", err)
	}
	reply = strings.Trim(strings.TrimSpace(reply), `"`)
	if reply == "" {
		return "", errors.New("merge instruction: empty reply")
	}
	return reply, nil
}

var _ Enricher = (*ChatEnricher)(nil)
var _ Merger = (*ChatEnricher)(nil)
