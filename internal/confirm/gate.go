// Package confirm decides which actions need explicit human confirmation
// before they run, and parses the user's confirmation reply.
package confirm

import (
	"fmt"
	"regexp"
	"strings"
)

// GenericMessage is used when a template references a parameter that the
// proposal did not supply. Rendering never fails.
const GenericMessage = "Please confirm this action."

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// templates maps each confirmation-requiring action to its message
// template. This registry is fixed at compile time; actions absent here
// execute without confirmation.
var templates = map[string]string{
	"submit_holiday_request":  "You're about to submit a holiday request for {days} days from {start_date} to {end_date}. Please confirm.",
	"cancel_holiday_request":  "You're about to cancel holiday request #{request_id}. This action cannot be undone. Please confirm.",
	"approve_holiday_request": "You're about to approve holiday request #{request_id}. Please confirm.",
	"reject_holiday_request":  "You're about to reject holiday request #{request_id}. Please confirm.",
}

// RequiresConfirmation reports whether the action needs explicit approval.
func RequiresConfirmation(action string) bool {
	_, ok := templates[action]
	return ok
}

// Message renders the confirmation message for an action. Missing template
// parameters fall back to the generic message rather than erroring.
func Message(action string, params map[string]any) string {
	template, ok := templates[action]
	if !ok {
		return GenericMessage
	}

	complete := true
	rendered := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := params[key]
		if !ok || value == nil {
			complete = false
			return match
		}
		return formatParam(value)
	})
	if !complete {
		return GenericMessage
	}
	return rendered
}

func formatParam(value any) string {
	switch v := value.(type) {
	case float64:
		// Whole-number floats read better without a trailing ".0" in
		// user-facing text (JSON decodes all numbers as float64).
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// Verdict is the interpretation of a user reply to a pending confirmation.
type Verdict int

const (
	// VerdictCancel is the default: anything that is not an explicit
	// affirmative cancels, never executes.
	VerdictCancel Verdict = iota
	VerdictConfirm
)

// ParseReply maps a user message to a confirmation verdict. Only the fixed
// affirmative set confirms; everything else fails closed to cancel.
func ParseReply(input string) Verdict {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y", "confirm":
		return VerdictConfirm
	default:
		return VerdictCancel
	}
}

// IsAffirmative reports whether input is a bare affirmative token. Used to
// acknowledge a stray "yes" when nothing is pending.
func IsAffirmative(input string) bool {
	return ParseReply(input) == VerdictConfirm
}
