package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFetchFailed is the only error that crosses the extraction boundary.
// It covers transport failures, non-2xx responses, unparseable documents
// and a wholly missing content root. Callers check it with errors.Is and
// expose a retry affordance; there is no automatic retry.
var ErrFetchFailed = errors.New("fetch failed")

func fetchFailed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFetchFailed, fmt.Sprintf(format, args...))
}

// responseSnippet truncates a response body for error messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
