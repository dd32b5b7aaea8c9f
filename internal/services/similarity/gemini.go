package similarity

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
	defaultGeminiTimeout = 60 * time.Second
)

const imageComparePrompt = `Analyze the following lost item and found item details.
Lost Item:
Description: %s
Image 1: [Attached Lost Item Image]

Found Item:
Description: %s
Image 2: [Attached Found Item Image]

Carefully compare the visual details in both images and the information in both descriptions. Determine the likelihood that these are the exact same item.
Respond with ONLY a single integer between 0 and 100 representing the similarity percentage. Do not include '%%', explanations, context, or any other text. Just the number.`

const textComparePrompt = `Compare the following two item descriptions from a lost and found system and determine the likelihood that they describe the same item.
Description A: %s
Description B: %s

Respond with ONLY a single decimal number between 0.0 and 1.0. No explanations or other text. Just the number.`

// GeminiConfig captures the runtime settings for the remote scorer.
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// GeminiScorer scores pairs by asking a Gemini model for a single numeric
// answer. Image comparison attaches both stored images inline; text
// comparison is available so a deployment can run fully remote instead of
// using the in-process TokenScorer.
type GeminiScorer struct {
	cfg        GeminiConfig
	httpClient *http.Client
}

// GeminiOption customizes the scorer.
type GeminiOption func(*GeminiScorer)

// WithGeminiHTTPClient overrides the default HTTP client.
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(s *GeminiScorer) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewGeminiScorer constructs the remote scorer.
func NewGeminiScorer(cfg GeminiConfig, opts ...GeminiOption) *GeminiScorer {
	timeout := defaultGeminiTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	scorer := &GeminiScorer{
		cfg: GeminiConfig{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(scorer)
	}
	if scorer.cfg.BaseURL == "" {
		scorer.cfg.BaseURL = defaultGeminiBaseURL
	}
	if scorer.cfg.Model == "" {
		scorer.cfg.Model = defaultGeminiModel
	}
	if scorer.httpClient == nil {
		scorer.httpClient = &http.Client{Timeout: timeout}
	}
	return scorer
}

func (s *GeminiScorer) CompareText(ctx context.Context, a, b string) (float64, error) {
	prompt := fmt.Sprintf(textComparePrompt, a, b)
	raw, err := s.generate(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		return 0, err
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("similarity text: response %q is not a number", strings.TrimSpace(raw))
	}
	return score, nil
}

func (s *GeminiScorer) CompareImages(ctx context.Context, imagePathA, descA, imagePathB, descB string) (int, error) {
	partA, err := inlineImagePart(imagePathA)
	if err != nil {
		return 0, fmt.Errorf("similarity image: %w", err)
	}
	partB, err := inlineImagePart(imagePathB)
	if err != nil {
		return 0, fmt.Errorf("similarity image: %w", err)
	}

	prompt := fmt.Sprintf(imageComparePrompt, descA, descB)
	raw, err := s.generate(ctx, []geminiPart{{Text: prompt}, partA, partB})
	if err != nil {
		return 0, err
	}
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("similarity image: response %q is not an integer", strings.TrimSpace(raw))
	}
	return score, nil
}

func (s *GeminiScorer) generate(ctx context.Context, parts []geminiPart) (string, error) {
	if s.cfg.APIKey == "" {
		return "", fmt.Errorf("similarity: api key required")
	}

	encoded, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("similarity: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.cfg.BaseURL, s.cfg.Model, s.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("similarity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("similarity: request failed: %w", err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return "", fmt.Errorf("similarity: read body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("similarity: http %d: %s", resp.StatusCode, strings.TrimSpace(body.String()))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body.Bytes(), &parsed); err != nil {
		return "", fmt.Errorf("similarity: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("similarity: response missing content")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func inlineImagePart(path string) (geminiPart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geminiPart{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return geminiPart{InlineData: &geminiInlineData{
		MimeType: http.DetectContentType(data),
		Data:     base64.StdEncoding.EncodeToString(data),
	}}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
