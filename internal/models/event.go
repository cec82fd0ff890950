package models

import "time"

// CalendarEvent is one accepted scheduling request. Every field is populated
// at creation time; extraction falls back to defaults rather than leaving
// fields empty. Events are append-only and never updated.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // e.g. "10:00 AM"
	Attendees   string    `json:"attendees"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ReasoningTrace records the think/act/observe narrative for one processed
// query, whether or not an event was created. Result holds the serialized
// observation (success flag included); StreamID correlates the trace with the
// stream publish attempt for the same request.
type ReasoningTrace struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Query       string    `json:"query"`
	Thought     string    `json:"thought"`
	Action      string    `json:"action"`
	Observation string    `json:"observation"`
	Result      string    `json:"result"`
	StreamID    string    `json:"stream_id"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ProcessQueryRequest is the POST /api/process-query payload.
type ProcessQueryRequest struct {
	Email string `json:"email"`
	Query string `json:"query"`
}

// PipelineResult is the caller-visible outcome of one pipeline run.
// Event is present only when the observe stage accepted the action.
type PipelineResult struct {
	Thought     string         `json:"thought"`
	Action      string         `json:"action"`
	Observation string         `json:"observation"`
	Event       *CalendarEvent `json:"event,omitempty"`
	StreamID    string         `json:"streamId"`
	Success     bool           `json:"success"`
}
