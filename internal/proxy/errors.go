package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

// Error is an upstream failure already classified into the HTTP status the
// caller should see.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// GenericMessage is returned for failures that are not attributable to the upstream.
const GenericMessage = "internal server error"

// TranslateError maps any error returned by a forward to a status and a
// message safe to show to the browser:
//
//   - *Error keeps its status and message
//   - deadline exceeded or a timeout → 504
//   - dial, DNS or other network failure → 502
//   - anything else → 500 with a generic message
//
// Connectivity failures keep their 502 and 504 ahead of the generic 500
// that unclassified handler errors get, so a browser can tell an
// unreachable upstream from a bug.
func TranslateError(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status, pe.Message
	}
	if isTimeout(err) {
		return http.StatusGatewayTimeout, "upstream timed out"
	}
	if isNetwork(err) {
		return http.StatusBadGateway, "upstream unavailable"
	}
	return http.StatusInternalServerError, GenericMessage
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isNetwork(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
		ne     net.Error
	)
	return errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.As(err, &ne)
}

// upstreamMessage extracts a human-readable message from an upstream error
// body, falling back to the status text.
func upstreamMessage(status int, body []byte) string {
	var fields map[string]any
	if json.Unmarshal(body, &fields) == nil {
		for _, key := range []string{"error", "message", "msg", "error_description", "detail"} {
			if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		if nested, ok := fields["error"].(map[string]any); ok {
			if s, ok := nested["message"].(string); ok && s != "" {
				return s
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "upstream error"
}
