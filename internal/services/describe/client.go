package describe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reclaim/internal/services"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-1.5-flash"
	defaultHTTPTimeout = 30 * time.Second
)

// allowedMimeTypes is the fixed input allow-list. Anything else fails fast
// without a network call.
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/heic": {},
	"image/heif": {},
}

// Config captures the runtime settings required to talk to the description
// service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps the Gemini generateContent API for item descriptions.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a description client using the supplied
// configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// Describe sends image bytes to the description service and returns the
// generated item description, trimmed of surrounding whitespace. The text
// is treated as opaque by everything downstream.
//
// Failure classification (check with errors.Is against the services
// markers): unsupported mime type -> ErrValidation, transport failure or
// timeout -> ErrUnavailable, safety-filter block -> ErrBlocked (the raw
// feedback payload is included in the message for logging), non-2xx ->
// ErrUpstream carrying the status code.
func (c *Client) Describe(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return "", services.Wrap(services.ErrValidation, "describe", "generate",
			fmt.Sprintf("unsupported media type %q", mimeType), nil)
	}
	if len(imageBytes) == 0 {
		return "", services.Wrap(services.ErrValidation, "describe", "generate", "image bytes required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrValidation, "describe", "generate", "api key required", nil)
	}

	payload := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: ItemDescriptionPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrUnavailable, "describe", "generate", "encode request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrUnavailable, "describe", "generate", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrUnavailable, "describe", "generate", "request failed", err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return "", services.Wrap(services.ErrUnavailable, "describe", "generate", "read body", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &services.UpstreamStatusError{Code: resp.StatusCode, Body: body.String()}
		return "", services.Wrap(services.ErrUpstream, "describe", "generate", "", statusErr)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body.Bytes(), &parsed); err != nil {
		return "", services.Wrap(services.ErrUpstream, "describe", "generate", "decode response", err)
	}

	if text := parsed.firstText(); text != "" {
		return text, nil
	}

	if len(parsed.PromptFeedback) > 0 {
		return "", services.Wrap(services.ErrBlocked, "describe", "generate",
			fmt.Sprintf("feedback: %s", strings.TrimSpace(string(parsed.PromptFeedback))), nil)
	}
	return "", services.Wrap(services.ErrUpstream, "describe", "generate", "response missing description text",
		errors.New(truncate(body.String(), 200)))
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	// PromptFeedback is kept raw so a blocked response can be logged
	// verbatim.
	PromptFeedback json.RawMessage `json:"promptFeedback"`
}

func (r *generateResponse) firstText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0].Text)
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
