package agent

import (
	"regexp"
	"strings"
	"time"
)

// EventFields is the structured output of Extract. All fields are always
// populated; unmatched patterns resolve to defaults.
type EventFields struct {
	Title       string
	Date        string
	Time        string
	Attendees   string
	Description string
}

const (
	defaultTime      = "10:00 AM"
	defaultTitle     = "Scheduled Meeting"
	defaultAttendees = "team@company.com"

	dateLayout = "2006-01-02"
)

// timePattern matches a bare hour with meridiem ("3pm") or a colon form
// ("10:30"); the first occurrence in the query wins.
var timePattern = regexp.MustCompile(`(?i)(\d{1,2})(am|pm|:\d{2})`)

// titlePatterns are tried in declared order; the captured phrase must run up
// to one of the event nouns.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)schedule (?:a |an )?(.+?)(?:meeting|event|call|session)`),
	regexp.MustCompile(`(?i)create (?:a |an )?(.+?)(?:meeting|event|call|session)`),
	regexp.MustCompile(`(?i)book (?:a |an )?(.+?)(?:meeting|event|call|session)`),
}

// dateRules are evaluated in declared order, first match wins. The order is
// observable behavior: a query naming both "friday" and "wednesday" resolves
// to Friday because it is listed first.
var dateRules = []struct {
	phrase  string
	resolve func(now time.Time) time.Time
}{
	{"tomorrow", func(now time.Time) time.Time { return now.AddDate(0, 0, 1) }},
	{"next monday", nextWeekday(time.Monday)},
	{"next tuesday", nextWeekday(time.Tuesday)},
	{"friday", nextWeekday(time.Friday)},
	{"wednesday", nextWeekday(time.Wednesday)},
}

// attendeeRules map team keywords to distribution addresses, first match wins.
var attendeeRules = []struct {
	phrase  string
	address string
}{
	{"production team", "production-team@company.com"},
	{"quality", "quality@company.com"},
	{"supplier", "suppliers@company.com"},
	{"management", "management@company.com"},
}

// Extract derives structured event fields from a free-text scheduling query.
// It is pure and total: identical input and clock always produce identical
// output, and every stage falls back to a default instead of failing.
func Extract(query string, now time.Time) EventFields {
	now = now.UTC()
	return EventFields{
		Title:       extractTitle(query),
		Date:        extractDate(query, now),
		Time:        extractTime(query),
		Attendees:   extractAttendees(query),
		Description: query,
	}
}

func extractTime(query string) string {
	tok := timePattern.FindString(query)
	if tok == "" {
		return defaultTime
	}
	return normalizeTime(tok)
}

// normalizeTime keeps colon forms verbatim (upper-cased) and expands bare
// hours to "H:00 AM/PM".
func normalizeTime(tok string) string {
	if strings.Contains(tok, ":") {
		return strings.ToUpper(tok)
	}
	lower := strings.ToLower(tok)
	meridiem := "AM"
	if strings.HasSuffix(lower, "pm") {
		meridiem = "PM"
	}
	hour := strings.TrimSuffix(strings.TrimSuffix(lower, "pm"), "am")
	return hour + ":00 " + meridiem
}

func extractDate(query string, now time.Time) string {
	lower := strings.ToLower(query)
	for _, rule := range dateRules {
		if strings.Contains(lower, rule.phrase) {
			return rule.resolve(now).Format(dateLayout)
		}
	}
	// No recognized phrase: default to tomorrow.
	return now.AddDate(0, 0, 1).Format(dateLayout)
}

// nextWeekday resolves to the next occurrence of target, never today: if the
// named weekday is today it jumps a full week forward.
func nextWeekday(target time.Weekday) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		days := (int(target) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days)
	}
}

func extractTitle(query string) string {
	for _, pattern := range titlePatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1]) + " meeting"
		}
	}
	return defaultTitle
}

func extractAttendees(query string) string {
	lower := strings.ToLower(query)
	for _, rule := range attendeeRules {
		if strings.Contains(lower, rule.phrase) {
			return rule.address
		}
	}
	return defaultAttendees
}
