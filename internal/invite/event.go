package invite

import (
	"fmt"
	"strconv"
	"strings"
)

// EventType selects how a conversation is bounded
type EventType string

const (
	// EventLength bounds a conversation by words written over a number of days
	EventLength EventType = "length"
	// EventTime bounds a conversation by minutes
	EventTime EventType = "time"
)

// Custom marks a parameter whose value is supplied separately
const Custom = "custom"

var (
	WordCountPresets = []string{"300", "500", "1000"}
	DayPresets       = []string{"1", "2", "3", "4", "7"}
)

// Event describes the conversation format of an invite
type Event struct {
	Type             EventType `json:"type"`
	Parameter        string    `json:"parameter"`
	CustomWordCount  string    `json:"customWordCount,omitempty"`
	CustomDuration   string    `json:"customDuration,omitempty"`
	TimePeriod       string    `json:"timePeriod,omitempty"`
	CustomTimePeriod string    `json:"customTimePeriod,omitempty"`
}

// Resolved is the concrete shape of an event
type Resolved struct {
	Type    EventType
	Words   int
	Days    int
	Minutes int
}

// WordCount returns the word target of a length event
func (e Event) WordCount() (int, bool) {
	if e.Type != EventLength {
		return 0, false
	}
	if e.Parameter == Custom {
		return positiveInt(e.CustomWordCount)
	}
	return positiveInt(e.Parameter)
}

// Days returns the time period of a length event in days
func (e Event) Days() (int, bool) {
	if e.Type != EventLength {
		return 0, false
	}
	if e.TimePeriod == Custom {
		return positiveInt(e.CustomTimePeriod)
	}
	return positiveInt(e.TimePeriod)
}

// Minutes returns the duration of a time event
func (e Event) Minutes() (int, bool) {
	if e.Type != EventTime {
		return 0, false
	}
	if e.Parameter == Custom {
		return positiveInt(e.CustomDuration)
	}
	return positiveInt(e.Parameter)
}

// ParameterResolved reports whether the event parameter has a concrete value
func (e Event) ParameterResolved() bool {
	switch e.Type {
	case EventLength:
		_, ok := e.WordCount()
		return ok
	case EventTime:
		_, ok := e.Minutes()
		return ok
	}
	return false
}

// TimePeriodResolved reports whether the time period has a concrete value
func (e Event) TimePeriodResolved() bool {
	_, ok := e.Days()
	return ok
}

// Complete reports whether the event is fully specified
func (e Event) Complete() bool {
	if !e.ParameterResolved() {
		return false
	}
	return e.Type != EventLength || e.TimePeriodResolved()
}

// Resolve returns the concrete values of a complete event
func (e Event) Resolve() (Resolved, error) {
	if !e.Complete() {
		return Resolved{}, ErrIncompleteEvent
	}
	r := Resolved{Type: e.Type}
	switch e.Type {
	case EventLength:
		r.Words, _ = e.WordCount()
		r.Days, _ = e.Days()
	case EventTime:
		r.Minutes, _ = e.Minutes()
	}
	return r, nil
}

// DisplayText renders the event for people, e.g. "500 words over 3 days"
func (e Event) DisplayText() string {
	switch e.Type {
	case EventLength:
		words, ok := e.WordCount()
		if !ok {
			if e.Parameter == Custom {
				return "Custom words"
			}
			return ""
		}
		text := fmt.Sprintf("%d words", words)
		if days, ok := e.Days(); ok {
			unit := "days"
			if days == 1 {
				unit = "day"
			}
			text += fmt.Sprintf(" over %d %s", days, unit)
		}
		return text
	case EventTime:
		minutes, ok := e.Minutes()
		if !ok {
			if e.Parameter == Custom {
				return "Custom min"
			}
			return ""
		}
		return fmt.Sprintf("%d min", minutes)
	}
	return ""
}

// Normalize drops the fields that do not apply to the event type and parameter
func (e Event) Normalize() Event {
	out := Event{Type: e.Type, Parameter: e.Parameter}
	switch e.Type {
	case EventLength:
		if e.Parameter == Custom {
			out.CustomWordCount = e.CustomWordCount
		}
		out.TimePeriod = e.TimePeriod
		if e.TimePeriod == Custom {
			out.CustomTimePeriod = e.CustomTimePeriod
		}
	case EventTime:
		if e.Parameter == Custom {
			out.CustomDuration = e.CustomDuration
		}
	}
	return out
}

// SetType switches the event type and clears values belonging to the old type
func (e *Event) SetType(t EventType) {
	if e.Type == t {
		return
	}
	*e = Event{Type: t}
}

// ValidCustomValue reports whether s is acceptable as a custom numeric value
func ValidCustomValue(s string) bool {
	_, ok := positiveInt(s)
	return ok
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func isPreset(v string, presets []string) bool {
	for _, p := range presets {
		if p == v {
			return true
		}
	}
	return false
}
