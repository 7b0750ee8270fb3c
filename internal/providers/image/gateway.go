package image

import (
	"context"

	"imagecreator/internal/providers/gateway"
)

// APIClient is the subset of the gateway client the adapters use.
type APIClient interface {
	GenerateImage(ctx context.Context, req gateway.GenerationRequest) ([]byte, error)
	EditImage(ctx context.Context, req gateway.EditRequest) ([]byte, error)
	HasCredentials() bool
}

// gatewayAdapter routes one short model name to its upstream identifier.
type gatewayAdapter struct {
	name   string
	model  string
	client APIClient
}

// NewGPTImage returns the adapter for the gpt-image model family.
func NewGPTImage(client APIClient) Adapter {
	return &gatewayAdapter{name: "gpt-image", model: "gpt-image-1.5", client: client}
}

// NewGeminiImage returns the adapter for the gemini image preview model.
func NewGeminiImage(client APIClient) Adapter {
	return &gatewayAdapter{name: "gemini-image", model: "google/gemini/gemini-3-pro-image-preview", client: client}
}

func (a *gatewayAdapter) Name() string {
	return a.name
}

func (a *gatewayAdapter) Synthesize(ctx context.Context, prompt, size string) ([]byte, error) {
	return a.client.GenerateImage(ctx, gateway.GenerationRequest{
		Model:  a.model,
		Prompt: prompt,
		Size:   size,
		N:      1,
	})
}

func (a *gatewayAdapter) Edit(ctx context.Context, src, mask []byte, prompt, size string) ([]byte, error) {
	return a.client.EditImage(ctx, gateway.EditRequest{
		Model:  a.model,
		Prompt: prompt,
		Size:   size,
		N:      1,
		Image:  src,
		Mask:   mask,
	})
}
