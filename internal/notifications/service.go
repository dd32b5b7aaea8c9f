package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/items"
)

const userAgent = "Reclaim-Go/0.1.0"

// Service defines the notification surface exposed to the intake pipeline.
type Service interface {
	NotifyLostReported(ctx context.Context, item *items.Item) error
	NotifyFoundReported(ctx context.Context, item *items.Item) error
	NotifyMatchesFound(ctx context.Context, item *items.Item, matches []*items.MatchRecord) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyLostReported(ctx context.Context, item *items.Item) error {
	data := payload{
		title:   "Reclaim - Lost Item Reported",
		message: fmt.Sprintf("Lost item reported: %s", itemSummary(item)),
		tags:    []string{"reclaim", "lost", "reported"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyFoundReported(ctx context.Context, item *items.Item) error {
	data := payload{
		title:   "Reclaim - Found Item Reported",
		message: fmt.Sprintf("Found item reported: %s", itemSummary(item)),
		tags:    []string{"reclaim", "found", "reported"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyMatchesFound(ctx context.Context, item *items.Item, matches []*items.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%d potential match(es) for %s", len(matches), itemSummary(item))
	for _, match := range matches {
		fmt.Fprintf(&builder, "\nFound item %s (text %.2f, image %d%%)",
			match.FoundItemID, match.TextSimilarity, match.ImageSimilarity)
	}

	data := payload{
		title:    "Reclaim - Matches Found",
		message:  builder.String(),
		tags:     []string{"reclaim", "match", "found"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Reclaim - Error",
		message:  builder.String(),
		tags:     []string{"reclaim", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Reclaim - Test",
		message:  "Notification system test",
		tags:     []string{"reclaim", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func itemSummary(item *items.Item) string {
	if item == nil {
		return "unknown item"
	}
	parts := make([]string, 0, 3)
	if category := strings.TrimSpace(item.Attributes.Category); category != "" {
		parts = append(parts, category)
	}
	if location := strings.TrimSpace(item.Attributes.Location); location != "" {
		parts = append(parts, "at "+location)
	}
	if len(parts) == 0 {
		return item.ID
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, " "), item.ID)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewNop returns a Service that drops every notification.
func NewNop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyLostReported(context.Context, *items.Item) error  { return nil }
func (noopService) NotifyFoundReported(context.Context, *items.Item) error { return nil }
func (noopService) NotifyMatchesFound(context.Context, *items.Item, []*items.MatchRecord) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
