package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying failures across the pipeline. Wrap tags an
// error with one of these so callers can branch with errors.Is without
// inspecting message text.
var (
	// ErrValidation marks bad input rejected before any external call.
	ErrValidation = errors.New("validation error")
	// ErrUnavailable marks transport-level failures reaching the
	// description service (no connection, timeout).
	ErrUnavailable = errors.New("service unavailable")
	// ErrUpstream marks an HTTP-level error status from an external
	// service.
	ErrUpstream = errors.New("upstream error")
	// ErrBlocked marks a description response withheld by the remote
	// service's safety filter.
	ErrBlocked = errors.New("generation blocked")
	// ErrStore marks transactional persistence failures. Run-fatal for
	// the current submission only.
	ErrStore = errors.New("store error")
	// ErrMatchingRun wraps a fatal store failure during a matching scan.
	ErrMatchingRun = errors.New("matching run failed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStore
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// UpstreamStatusError carries the HTTP status code of a failed upstream
// call. It is always wrapped with ErrUpstream.
type UpstreamStatusError struct {
	Code int
	Body string
}

func (e *UpstreamStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, body)
}

// UpstreamCode extracts the HTTP status code from an error chain, if any.
func UpstreamCode(err error) (int, bool) {
	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}
	return 0, false
}
