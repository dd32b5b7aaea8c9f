package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reclaim/internal/config"
	"reclaim/internal/logging"
	"reclaim/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hello", "component", "test")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"component":"test"`) {
		t.Fatalf("expected structured attribute in log output, got %s", data)
	}
}

func TestContextFieldsExtractsIdentifiers(t *testing.T) {
	ctx := services.WithItemID(context.Background(), "lost-1")
	ctx = services.WithRequestID(ctx, "req-42")

	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].Key != logging.FieldItemID || fields[0].Value.String() != "lost-1" {
		t.Fatalf("unexpected item field: %v", fields[0])
	}
	if fields[1].Key != logging.FieldCorrelationID || fields[1].Value.String() != "req-42" {
		t.Fatalf("unexpected correlation field: %v", fields[1])
	}

	if got := logging.ContextFields(context.Background()); len(got) != 0 {
		t.Fatalf("empty context should produce no fields, got %v", got)
	}
}

func TestNewFromConfigCreatesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	logger.Info("boot")

	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}
