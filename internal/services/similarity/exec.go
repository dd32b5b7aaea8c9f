package similarity

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const defaultCommandTimeout = 60 * time.Second

// CommandScorer shells out to operator-supplied programs. The configured
// argv prefix receives the comparison inputs as trailing arguments and must
// print a single number on stdout: a float in [0,1] for text, an integer in
// [0,100] for images. Every invocation runs under the configured timeout so
// a hung script fails the comparison instead of stalling a matching worker.
type CommandScorer struct {
	textArgv  []string
	imageArgv []string
	timeout   time.Duration
}

// NewCommandScorer builds a scorer from argv prefixes. Either prefix may be
// empty when only one side is command-backed; invoking the unconfigured side
// is an error.
func NewCommandScorer(textArgv, imageArgv []string, timeoutSeconds int) *CommandScorer {
	timeout := defaultCommandTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &CommandScorer{
		textArgv:  append([]string(nil), textArgv...),
		imageArgv: append([]string(nil), imageArgv...),
		timeout:   timeout,
	}
}

func (s *CommandScorer) CompareText(ctx context.Context, a, b string) (float64, error) {
	out, err := s.run(ctx, s.textArgv, a, b)
	if err != nil {
		return 0, err
	}
	score, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("similarity command: output %q is not a number", out)
	}
	return score, nil
}

func (s *CommandScorer) CompareImages(ctx context.Context, imagePathA, descA, imagePathB, descB string) (int, error) {
	out, err := s.run(ctx, s.imageArgv, imagePathA, descA, imagePathB, descB)
	if err != nil {
		return 0, err
	}
	score, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("similarity command: output %q is not an integer", out)
	}
	return score, nil
}

func (s *CommandScorer) run(ctx context.Context, argv []string, args ...string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("similarity command: no command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("similarity command %s: %w: %s", argv[0], err, detail)
		}
		return "", fmt.Errorf("similarity command %s: %w", argv[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
