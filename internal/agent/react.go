// Package agent implements the think/act/observe loop that turns a free-text
// scheduling query into a calendar event.
package agent

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reactagent/calendar-service/internal/models"
)

// ActionKind tags the operation selected by the act stage. Only calendar
// event creation exists today; the tag is kept so the observe stage can
// reject kinds it does not handle.
type ActionKind string

// ActionCreateCalendarEvent is the single action kind the agent emits.
const ActionCreateCalendarEvent ActionKind = "CREATE_CALENDAR_EVENT"

// Action is the act-stage record: the selected kind, the extracted fields it
// applies to, and a human-readable description.
type Action struct {
	Kind        ActionKind
	Fields      EventFields
	Description string
}

// Observation is the observe-stage outcome. Event is set only on success.
type Observation struct {
	Success bool                  `json:"success"`
	Event   *models.CalendarEvent `json:"event,omitempty"`
	Message string                `json:"message"`
}

// RunResult bundles the three stage outputs of one agent run.
type RunResult struct {
	Thought     string
	Action      Action
	Observation Observation
}

// Agent runs the fixed three-stage loop. Now and NewID are injectable so
// tests can pin the clock and ids; both are stateless, so a single Agent is
// safe for concurrent use.
type Agent struct {
	Now   func() time.Time
	NewID func() string
}

// New returns an Agent on the real clock and uuid generator.
func New() *Agent {
	return &Agent{Now: time.Now, NewID: uuid.NewString}
}

// Think produces the descriptive narrative for the query. No extraction
// happens here.
func (a *Agent) Think(query string) string {
	return fmt.Sprintf("Analyzing query: \"%s\". User wants to schedule an event. I need to extract event details and create a calendar entry.", query)
}

// Act extracts the event fields and wraps them in a create-event action.
func (a *Agent) Act(query string) Action {
	fields := Extract(query, a.Now())
	return Action{
		Kind:        ActionCreateCalendarEvent,
		Fields:      fields,
		Description: "Creating calendar event: " + fields.Title,
	}
}

// Observe executes the action: it assigns a fresh event id and assembles the
// complete CalendarEvent. Unrecognized action kinds fail with no event.
func (a *Agent) Observe(email string, action Action) Observation {
	if action.Kind != ActionCreateCalendarEvent {
		return Observation{Success: false, Message: "Unknown action type"}
	}

	event := &models.CalendarEvent{
		ID:          a.NewID(),
		Email:       email,
		Title:       action.Fields.Title,
		Date:        action.Fields.Date,
		Time:        action.Fields.Time,
		Attendees:   action.Fields.Attendees,
		Description: action.Fields.Description,
	}

	return Observation{
		Success: true,
		Event:   event,
		Message: "Successfully created calendar event: " + event.Title,
	}
}

// Run executes think, act, observe in strict sequence and returns all three
// stage outputs. The observation is the terminal result; there are no retries.
func (a *Agent) Run(email, query string) RunResult {
	thought := a.Think(query)
	action := a.Act(query)
	observation := a.Observe(email, action)

	return RunResult{
		Thought:     thought,
		Action:      action,
		Observation: observation,
	}
}
