package extraction

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrParse           = errors.New("failed to parse document")
	ErrInvalidURL      = errors.New("a valid http or https URL is required")
	ErrBlockedHost     = errors.New("host is not allowed")
	ErrNoText          = errors.New("no readable text found")
)

// SizeError reports an upload over the configured limit.
type SizeError struct {
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("file exceeds the %s upload limit", FormatBytes(e.Limit))
}

func (e *SizeError) Is(target error) bool { return target == ErrFileTooLarge }

// FormatBytes renders a byte count the way limits are shown to users.
func FormatBytes(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%d MB", n/mb)
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%d KB", n/kb)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// StatusCode maps an extraction error to an HTTP status. ok is false for
// errors this package does not own.
func StatusCode(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest, true
	case errors.Is(err, ErrBlockedHost):
		return http.StatusForbidden, true
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, true
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, true
	case errors.Is(err, ErrParse), errors.Is(err, ErrNoText):
		return http.StatusUnprocessableEntity, true
	default:
		return 0, false
	}
}
