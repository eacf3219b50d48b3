package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoJSONObject    = errors.New("no JSON object in oracle output")
	ErrInvalidJSON     = errors.New("oracle output is not valid JSON")
	ErrMissingField    = errors.New("oracle output is missing a required field")
	ErrUnexpectedField = errors.New("oracle output has an unexpected field")
	ErrUndefinedRoute  = errors.New("oracle returned an undefined route")
	ErrShapeViolation  = errors.New("oracle output violates the route/booking/reply shape")
)

var (
	decisionFields = []string{"route", "booking", "reply"}
	bookingFields  = map[string]struct{}{"name": {}, "email": {}, "date": {}, "time": {}}
)

// Parse turns raw oracle text into a Parsed decision or a Malformed result.
// It never panics and never trusts field presence.
func Parse(raw string) Result {
	decision, err := parseDecision(raw)
	if err != nil {
		return Malformed{Raw: raw, Reason: err}
	}
	return Parsed{Decision: *decision}
}

func parseDecision(raw string) (*Decision, error) {
	body, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	for _, name := range decisionFields {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	if len(fields) != len(decisionFields) {
		for name := range fields {
			if name != "route" && name != "booking" && name != "reply" {
				return nil, fmt.Errorf("%w: %s", ErrUnexpectedField, name)
			}
		}
	}

	var route string
	if err := json.Unmarshal(fields["route"], &route); err != nil {
		return nil, fmt.Errorf("%w: route must be a string", ErrShapeViolation)
	}
	decision := &Decision{Route: Route(route)}
	if !decision.Route.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedRoute, route)
	}

	if decision.Reply, err = parseNullableString(fields["reply"]); err != nil {
		return nil, fmt.Errorf("%w: reply: %v", ErrShapeViolation, err)
	}
	if decision.Booking, err = parseBooking(fields["booking"]); err != nil {
		return nil, err
	}

	switch decision.Route {
	case RouteBooking:
		if decision.Reply != nil {
			return nil, fmt.Errorf("%w: booking route with a reply", ErrShapeViolation)
		}
	case RouteRAG:
		if decision.Booking != nil {
			return nil, fmt.Errorf("%w: rag route with a booking", ErrShapeViolation)
		}
		if decision.Reply == nil {
			return nil, fmt.Errorf("%w: rag route without a reply", ErrShapeViolation)
		}
	}

	return decision, nil
}

func parseBooking(raw json.RawMessage) (*BookingDraft, error) {
	if isNull(raw) {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: booking must be an object or null", ErrShapeViolation)
	}
	for name := range fields {
		if _, ok := bookingFields[name]; !ok {
			return nil, fmt.Errorf("%w: booking.%s", ErrUnexpectedField, name)
		}
	}

	draft := &BookingDraft{}
	targets := map[string]**string{
		"name":  &draft.Name,
		"email": &draft.Email,
		"date":  &draft.Date,
		"time":  &draft.Time,
	}
	for name, target := range targets {
		value, err := parseNullableString(fields[name])
		if err != nil {
			return nil, fmt.Errorf("%w: booking.%s: %v", ErrShapeViolation, name, err)
		}
		// Blank strings are how some models spell "unknown"
		if value != nil && strings.TrimSpace(*value) == "" {
			value = nil
		}
		*target = value
	}
	return draft, nil
}

// parseNullableString accepts a JSON string or null. An absent value is null.
func parseNullableString(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("expected string or null")
	}
	return &s, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// extractJSONObject strips markdown fences and any prose around the object.
func extractJSONObject(raw string) (string, error) {
	response := strings.TrimSpace(raw)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return "", ErrNoJSONObject
	}
	return response[jsonStart : jsonEnd+1], nil
}
