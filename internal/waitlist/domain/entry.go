// Package domain holds the pre-launch waitlist.
package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidEmail  = errors.New("email address is invalid")
)

// Entry is one signup on the waitlist. Emails are unique and stored lowercase.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Tools     []string  `json:"tools,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Source channels reported on metrics. Anything else is SourceOther.
const (
	SourceDirect   = "direct"
	SourceHome     = "home"
	SourceLanding  = "landing"
	SourcePricing  = "pricing"
	SourceWaitlist = "waitlist"
	SourceTool     = "tool"
	SourceCLI      = "cli"
	SourceOther    = "other"
)

var sourceChannels = map[string]bool{
	SourceHome:     true,
	SourceLanding:  true,
	SourcePricing:  true,
	SourceWaitlist: true,
	SourceTool:     true,
	SourceCLI:      true,
}

// SourceChannel maps a free-form signup source onto a fixed set of channels.
func SourceChannel(source string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	switch {
	case source == "":
		return SourceDirect
	case sourceChannels[source]:
		return source
	default:
		return SourceOther
	}
}

// NormalizeEmail trims and lowercases an address and checks its shape.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// NewEntry creates a validated entry. Tool ids are deduplicated and blanks dropped.
func NewEntry(email, name string, tools []string, source string) (*Entry, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tools))
	var cleaned []string
	for _, t := range tools {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
	}

	return &Entry{
		ID:        uuid.New(),
		Email:     normalized,
		Name:      strings.TrimSpace(name),
		Tools:     cleaned,
		Source:    strings.TrimSpace(source),
		CreatedAt: time.Now().UTC(),
	}, nil
}
