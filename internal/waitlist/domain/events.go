package domain

import (
	shareddomain "github.com/felixgeelhaar/inkwell/internal/shared/domain"
)

const (
	AggregateType    = "WaitlistEntry"
	RoutingKeyJoined = "waitlist.joined"
)

// JoinedEvent is published when a new address joins the waitlist.
type JoinedEvent struct {
	shareddomain.BaseEvent
	Email  string   `json:"email"`
	Tools  []string `json:"tools,omitempty"`
	Source string   `json:"source,omitempty"`
}

// NewJoinedEvent creates the event for entry.
func NewJoinedEvent(entry *Entry) *JoinedEvent {
	return &JoinedEvent{
		BaseEvent: shareddomain.NewBaseEvent(entry.ID, AggregateType, RoutingKeyJoined),
		Email:     entry.Email,
		Tools:     entry.Tools,
		Source:    entry.Source,
	}
}
