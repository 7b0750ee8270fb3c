package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imagecreator/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("gateway: api key is required")

// Options configures the OpenAI-compatible gateway client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against an OpenAI-compatible image gateway.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// GenerationRequest captures the inputs for text-to-image generation.
type GenerationRequest struct {
	Model  string
	Prompt string
	Size   string
	N      int
}

// EditRequest captures the inputs for an image edit call. Mask is optional;
// when present its transparent pixels mark the editable region.
type EditRequest struct {
	Model  string
	Prompt string
	Size   string
	N      int
	Image  []byte
	Mask   []byte
}

// ChatMessage is a single turn of a chat completion exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generationPayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type chatPayload struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// GenerateImage invokes the generation endpoint once and returns the raw
// bytes of the first returned image.
func (c *Client) GenerateImage(ctx context.Context, req GenerationRequest) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("gateway: prompt is required")
	}
	n := req.N
	if n <= 0 {
		n = 1
	}
	payload := generationPayload{Model: req.Model, Prompt: prompt, N: n, Size: req.Size}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	data, err := c.firstImage(ctx, raw)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("model", req.Model).Int("bytes", len(data)).Msg("gateway: generated image")
	return data, nil
}

// EditImage invokes the edits endpoint with a multipart form and returns
// the raw bytes of the first returned image.
func (c *Client) EditImage(ctx context.Context, req EditRequest) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if len(req.Image) == 0 {
		return nil, errors.New("gateway: source image is required")
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("gateway: prompt is required")
	}
	n := req.N
	if n <= 0 {
		n = 1
	}

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	if err := writeFilePart(mw, "image", "image.png", req.Image); err != nil {
		return nil, err
	}
	if len(req.Mask) > 0 {
		if err := writeFilePart(mw, "mask", "mask.png", req.Mask); err != nil {
			return nil, err
		}
	}
	fields := map[string]string{
		"model":  req.Model,
		"prompt": prompt,
		"n":      fmt.Sprintf("%d", n),
	}
	if req.Size != "" {
		fields["size"] = req.Size
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("gateway: write form field %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("gateway: finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/edits", &form)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	data, err := c.firstImage(ctx, raw)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("model", req.Model).Bool("mask", len(req.Mask) > 0).Int("bytes", len(data)).Msg("gateway: edited image")
	return data, nil
}

// ChatCompletion sends a chat exchange and returns the assistant's reply.
func (c *Client) ChatCompletion(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	if len(messages) == 0 {
		return "", errors.New("gateway: messages are required")
	}
	body, err := json.Marshal(chatPayload{Model: model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("gateway: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gateway: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("gateway: decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("gateway: empty chat response")
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return nil, fmt.Errorf("gateway: %s (%s)", detail.Error.Message, detail.Error.Type)
		}
		return nil, fmt.Errorf("gateway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// firstImage resolves the first result of an image response, either by
// downloading its URL or decoding its inline base64 payload.
func (c *Client) firstImage(ctx context.Context, raw []byte) ([]byte, error) {
	var decoded imageResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", err)
	}
	if len(decoded.Data) == 0 {
		return nil, errors.New("gateway: empty image response")
	}
	first := decoded.Data[0]
	if first.URL != "" {
		return c.download(ctx, first.URL)
	}
	if first.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("gateway: decode image payload: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("gateway: image response missing url and payload")
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Scheme == "" {
		return nil, fmt.Errorf("gateway: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: read image: %w", err)
	}
	return data, nil
}

func writeFilePart(mw *multipart.Writer, field, filename string, data []byte) error {
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("gateway: create form file %s: %w", field, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("gateway: write form file %s: %w", field, err)
	}
	return nil
}
