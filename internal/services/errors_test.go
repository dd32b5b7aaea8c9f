package services_test

import (
	"errors"
	"strings"
	"testing"

	"reclaim/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrUnavailable, "describe", "generate", "request failed", base)

	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable in chain, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected base error in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "describe: generate: request failed") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "intake", "submit", "category required", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "store", "record match", "", errors.New("disk I/O error"))
	if !errors.Is(err, services.ErrStore) {
		t.Fatalf("expected default ErrStore marker, got %v", err)
	}
}

func TestUpstreamCode(t *testing.T) {
	status := &services.UpstreamStatusError{Code: 503, Body: "overloaded"}
	err := services.Wrap(services.ErrUpstream, "describe", "generate", "", status)

	code, ok := services.UpstreamCode(err)
	if !ok || code != 503 {
		t.Fatalf("expected code 503, got %d (ok=%v)", code, ok)
	}
	if _, ok := services.UpstreamCode(errors.New("plain")); ok {
		t.Fatal("expected no code for plain error")
	}
}
