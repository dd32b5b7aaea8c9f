package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reclaim/internal/items"
	"reclaim/internal/notifications"
	"reclaim/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifyLostReported(context.Background(), nil); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCapturingService(t *testing.T, sink *[]captured) notifications.Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	return notifications.NewService(cfg)
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	var requests []captured
	svc := newCapturingService(t, &requests)
	ctx := context.Background()

	item := &items.Item{
		ID:         "lost-1",
		Kind:       items.KindLost,
		Attributes: items.Attributes{Category: "wallet", Location: "main library"},
	}
	if err := svc.NotifyLostReported(ctx, item); err != nil {
		t.Fatalf("NotifyLostReported: %v", err)
	}

	matches := []*items.MatchRecord{
		{LostItemID: "lost-1", FoundItemID: "found-1", TextSimilarity: 0.55, ImageSimilarity: 80},
	}
	if err := svc.NotifyMatchesFound(ctx, item, matches); err != nil {
		t.Fatalf("NotifyMatchesFound: %v", err)
	}

	if err := svc.NotifyError(ctx, errors.New("scorer offline"), "matching"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("got %d requests, want 3", len(requests))
	}

	lost := requests[0]
	if lost.title != "Reclaim - Lost Item Reported" {
		t.Errorf("lost title = %q", lost.title)
	}
	if !strings.Contains(lost.message, "wallet") || !strings.Contains(lost.message, "main library") {
		t.Errorf("lost message missing item summary: %q", lost.message)
	}

	match := requests[1]
	if match.priority != "high" {
		t.Errorf("match priority = %q, want high", match.priority)
	}
	if !strings.Contains(match.message, "found-1") || !strings.Contains(match.message, "80%") {
		t.Errorf("match message missing details: %q", match.message)
	}

	failure := requests[2]
	if !strings.Contains(failure.message, "matching") || !strings.Contains(failure.message, "scorer offline") {
		t.Errorf("error message missing context: %q", failure.message)
	}
	if failure.tags != "reclaim,error,alert" {
		t.Errorf("error tags = %q", failure.tags)
	}
}

func TestNotifyMatchesFoundSkipsEmptySlice(t *testing.T) {
	var requests []captured
	svc := newCapturingService(t, &requests)

	if err := svc.NotifyMatchesFound(context.Background(), &items.Item{ID: "lost-1"}, nil); err != nil {
		t.Fatalf("NotifyMatchesFound: %v", err)
	}
	if len(requests) != 0 {
		t.Fatalf("empty match list should not notify, got %d requests", len(requests))
	}
}

func TestNtfyServiceReportsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("error should mention status: %v", err)
	}
}
