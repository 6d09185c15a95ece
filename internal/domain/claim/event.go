package claim

import (
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"time"
)

// EventType corresponds to the values in the `claim_event_type` table.
type EventType string

const (
	EventClaimSubmitted  EventType = "CLAIM_SUBMITTED"
	EventClaimAccepted   EventType = "CLAIM_ACCEPTED"
	EventClaimRejected   EventType = "CLAIM_REJECTED"
	EventClaimWithdrawn  EventType = "CLAIM_WITHDRAWN"
	EventStatusChanged   EventType = "STATUS_CHANGED"
	EventReviewStarted   EventType = "REVIEW_STARTED"
	EventOfferDecided    EventType = "OFFER_DECIDED"
	EventOfferReopened   EventType = "OFFER_REOPENED"
	EventShortlistViewed EventType = "SHORTLIST_VIEWED"
)

var ErrInvalidEventType = errors.New("invalid claim event type")

// ParseEventType normalizes (uppercases+trims) and validates an event type string.
func ParseEventType(input string) (EventType, error) {
	eventType := EventType(strings.ToUpper(strings.TrimSpace(input)))
	if eventType.Valid() {
		return eventType, nil
	}
	return "", ErrInvalidEventType
}

// Valid reports whether eventType is one of the allowed event type constants.
func (eventType EventType) Valid() bool {
	switch eventType {
	case EventClaimSubmitted,
		EventClaimAccepted,
		EventClaimRejected,
		EventClaimWithdrawn,
		EventStatusChanged,
		EventReviewStarted,
		EventOfferDecided,
		EventOfferReopened,
		EventShortlistViewed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the EventType.
func (eventType EventType) String() string {
	return string(eventType)
}

// Event is the audit record corresponding to the `claim_events` table.
// SubjectID references the trip or booking the event concerns; Data carries
// before/after status snapshots and the acting user.
type Event struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time

	// Foreign keys
	SubjectID string

	// Core payload
	Type EventType
	Data map[string]any
}

var (
	ErrSubjectRequired = errors.New("subject id is required")
	ErrEventDataNil    = errors.New("event data must not be nil")
)

// NewEvent constructs a new audit Event.
func NewEvent(subjectID string, eventType EventType, eventData map[string]any) (*Event, error) {
	if subjectID = strings.TrimSpace(subjectID); subjectID == "" {
		return nil, ErrSubjectRequired
	}
	if !eventType.Valid() {
		return nil, ErrInvalidEventType
	}
	if eventData == nil {
		return nil, ErrEventDataNil
	}

	return &Event{
		SubjectID: subjectID,
		Type:      eventType,
		Data:      cloneMap(eventData),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Validate performs basic invariant checks mirroring DB constraints.
func (event *Event) Validate() error {
	if event.SubjectID == "" {
		return ErrSubjectRequired
	}
	if !event.Type.Valid() {
		return ErrInvalidEventType
	}
	if event.Data == nil {
		return ErrEventDataNil
	}
	return nil
}

// DataJSON returns event.Data encoded as JSON.
func (event *Event) DataJSON() ([]byte, error) {
	if event.Data == nil {
		return nil, ErrEventDataNil
	}
	return json.Marshal(event.Data)
}

// WithField sets/overwrites a single key in Data.
func (event *Event) WithField(key string, value any) {
	if event.Data == nil {
		event.Data = make(map[string]any)
	}
	event.Data[key] = value
}

// cloneMap makes a shallow copy of a map[string]any.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	maps.Copy(dst, src)
	return dst
}
