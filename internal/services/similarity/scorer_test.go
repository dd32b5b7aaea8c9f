package similarity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reclaim/internal/logging"
)

func TestTokenScorerCompareText(t *testing.T) {
	scorer := NewTokenScorer()
	ctx := context.Background()

	cases := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "black leather wallet", "black leather wallet", 1},
		{"case insensitive", "Black Leather Wallet", "black leather wallet", 1},
		{"disjoint", "red umbrella", "silver laptop", 0},
		{"partial overlap", "black wallet", "black umbrella", 1.0 / 3.0},
		{"both empty", "", "", 1},
		{"one empty", "black wallet", "", 0},
		{"whitespace only", "   ", "\t\n", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scorer.CompareText(ctx, tc.a, tc.b)
			if err != nil {
				t.Fatalf("CompareText returned error: %v", err)
			}
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("CompareText(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestTokenScorerImagesAlwaysZero(t *testing.T) {
	scorer := NewTokenScorer()
	got, err := scorer.CompareImages(context.Background(), "a.jpg", "desc a", "b.jpg", "desc b")
	if err != nil {
		t.Fatalf("CompareImages returned error: %v", err)
	}
	if got != 0 {
		t.Fatalf("CompareImages = %d, want 0", got)
	}
}

type stubScorer struct {
	text     float64
	textErr  error
	image    int
	imageErr error
}

func (s stubScorer) CompareText(ctx context.Context, a, b string) (float64, error) {
	return s.text, s.textErr
}

func (s stubScorer) CompareImages(ctx context.Context, pa, da, pb, db string) (int, error) {
	return s.image, s.imageErr
}

func TestDegradingTurnsErrorsIntoZeroScores(t *testing.T) {
	broken := stubScorer{
		textErr:  errors.New("backend offline"),
		imageErr: errors.New("backend offline"),
	}
	degrading := NewDegrading(broken, logging.NewNop())
	ctx := context.Background()

	text, err := degrading.CompareText(ctx, "a", "b")
	if err != nil {
		t.Fatalf("CompareText returned error: %v", err)
	}
	if text != 0 {
		t.Fatalf("degraded text score = %v, want 0", text)
	}

	image, err := degrading.CompareImages(ctx, "a.jpg", "a", "b.jpg", "b")
	if err != nil {
		t.Fatalf("CompareImages returned error: %v", err)
	}
	if image != 0 {
		t.Fatalf("degraded image score = %d, want 0", image)
	}
}

func TestDegradingClampsOutOfRangeScores(t *testing.T) {
	degrading := NewDegrading(stubScorer{text: 1.7, image: 250}, logging.NewNop())
	ctx := context.Background()

	text, _ := degrading.CompareText(ctx, "a", "b")
	if text != 1 {
		t.Fatalf("clamped text score = %v, want 1", text)
	}

	image, _ := degrading.CompareImages(ctx, "a.jpg", "a", "b.jpg", "b")
	if image != 100 {
		t.Fatalf("clamped image score = %d, want 100", image)
	}

	degrading = NewDegrading(stubScorer{text: -0.4, image: -3}, logging.NewNop())
	text, _ = degrading.CompareText(ctx, "a", "b")
	if text != 0 {
		t.Fatalf("clamped negative text score = %v, want 0", text)
	}
	image, _ = degrading.CompareImages(ctx, "a.jpg", "a", "b.jpg", "b")
	if image != 0 {
		t.Fatalf("clamped negative image score = %d, want 0", image)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scorer.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandScorerParsesOutput(t *testing.T) {
	textScript := writeScript(t, "echo 0.85")
	imageScript := writeScript(t, "echo 90")
	scorer := NewCommandScorer([]string{textScript}, []string{imageScript}, 0)
	ctx := context.Background()

	text, err := scorer.CompareText(ctx, "a", "b")
	if err != nil {
		t.Fatalf("CompareText returned error: %v", err)
	}
	if text != 0.85 {
		t.Fatalf("CompareText = %v, want 0.85", text)
	}

	image, err := scorer.CompareImages(ctx, "a.jpg", "a", "b.jpg", "b")
	if err != nil {
		t.Fatalf("CompareImages returned error: %v", err)
	}
	if image != 90 {
		t.Fatalf("CompareImages = %d, want 90", image)
	}
}

func TestCommandScorerRejectsMalformedOutput(t *testing.T) {
	script := writeScript(t, "echo definitely-not-a-number")
	scorer := NewCommandScorer([]string{script}, []string{script}, 0)
	ctx := context.Background()

	if _, err := scorer.CompareText(ctx, "a", "b"); err == nil {
		t.Fatal("expected error for non-numeric text output")
	}
	if _, err := scorer.CompareImages(ctx, "a.jpg", "a", "b.jpg", "b"); err == nil {
		t.Fatal("expected error for non-numeric image output")
	}
}

func TestCommandScorerUnconfiguredSide(t *testing.T) {
	scorer := NewCommandScorer(nil, nil, 0)
	if _, err := scorer.CompareText(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error when no command is configured")
	}
}

func TestCommandScorerKillsHungScript(t *testing.T) {
	script := writeScript(t, "sleep 30\necho 0.5")
	scorer := NewCommandScorer([]string{script}, []string{script}, 1)

	start := time.Now()
	_, err := scorer.CompareText(context.Background(), "a", "b")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error for a script exceeding the timeout")
	}
	if elapsed > 5*time.Second {
		t.Fatalf("call took %v, should be bounded by the 1s timeout", elapsed)
	}
}

func geminiReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	response := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestGeminiScorerCompareImages(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		geminiReply(t, w, " 87\n")
	}))
	defer server.Close()

	dir := t.TempDir()
	pathA := filepath.Join(dir, "lost.png")
	pathB := filepath.Join(dir, "found.png")
	for _, path := range []string{pathA, pathB} {
		if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nstub"), 0o644); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}

	scorer := NewGeminiScorer(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
	score, err := scorer.CompareImages(context.Background(), pathA, "black wallet", pathB, "dark wallet")
	if err != nil {
		t.Fatalf("CompareImages returned error: %v", err)
	}
	if score != 87 {
		t.Fatalf("CompareImages = %d, want 87", score)
	}

	if len(captured.Contents) != 1 {
		t.Fatalf("expected one content block, got %d", len(captured.Contents))
	}
	parts := captured.Contents[0].Parts
	if len(parts) != 3 {
		t.Fatalf("expected prompt plus two images, got %d parts", len(parts))
	}
	if !strings.Contains(parts[0].Text, "black wallet") || !strings.Contains(parts[0].Text, "dark wallet") {
		t.Fatalf("prompt missing descriptions: %q", parts[0].Text)
	}
	for i, part := range parts[1:] {
		if part.InlineData == nil || part.InlineData.Data == "" {
			t.Fatalf("part %d missing inline image data", i+1)
		}
	}
}

func TestGeminiScorerCompareText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, "0.62")
	}))
	defer server.Close()

	scorer := NewGeminiScorer(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
	score, err := scorer.CompareText(context.Background(), "black wallet", "dark wallet")
	if err != nil {
		t.Fatalf("CompareText returned error: %v", err)
	}
	if score != 0.62 {
		t.Fatalf("CompareText = %v, want 0.62", score)
	}
}

func TestGeminiScorerMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, "I think they are quite similar")
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "item.png")
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	scorer := NewGeminiScorer(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
	if _, err := scorer.CompareImages(context.Background(), path, "a", path, "b"); err == nil {
		t.Fatal("expected error for non-integer response")
	}
}

func TestGeminiScorerUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer server.Close()

	scorer := NewGeminiScorer(GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := scorer.CompareText(context.Background(), "a", "b")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), fmt.Sprint(http.StatusTooManyRequests)) {
		t.Fatalf("error should mention status code: %v", err)
	}
}

func TestGeminiScorerMissingImage(t *testing.T) {
	scorer := NewGeminiScorer(GeminiConfig{APIKey: "test-key"})
	if _, err := scorer.CompareImages(context.Background(), "/nonexistent/a.png", "a", "/nonexistent/b.png", "b"); err == nil {
		t.Fatal("expected error for unreadable image path")
	}
}
