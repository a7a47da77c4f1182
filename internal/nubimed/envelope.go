package nubimed

import (
	"strconv"
	"strings"
)

// Envelope is the canonical shape every inbound Nubimed notification is
// normalized into before classification: an event name plus a data object.
// Data is never nil once normalization succeeds.
type Envelope struct {
	Name string
	Data map[string]any
}

// Nubimed payloads arrive in several equivalent nesting shapes; these key
// lists encode the aliases observed across callback kinds.
var (
	bookingAliases    = []string{"booking", "appointment", "cita"}
	bookingIDKeys     = []string{"id", "booking_id", "uuid"}
	startKeys         = []string{"start_at", "start_date", "start_time", "start"}
	endKeys           = []string{"end_at", "end_date", "end_time", "end"}
	previousStartKeys = []string{"previous_start_at", "previous_start_date", "previous_date", "old_start_at", "old_date"}
	statusKeys        = []string{"status", "state", "booking_status"}
	doctorAliases     = []string{"doctor", "professional"}
)

// EventName resolves the event name from its known carriers, in priority
// order: envelope name, booking-level name, data-level name, then the legacy
// generic fields.
func (e Envelope) EventName() string {
	if e.Name != "" {
		return e.Name
	}
	if b := e.booking(); b != nil {
		if name := str(b, "name"); name != "" {
			return name
		}
	}
	return str(e.Data, "name", "event_type", "event", "action")
}

// ContactID returns a CRM contact id carried by the payload, when the source
// system already knows the cross-system identity.
func (e Envelope) ContactID() string {
	if id := str(e.Data, "ghl_contact_id", "contact_id"); id != "" {
		return id
	}
	return str(e.booking(), "ghl_contact_id", "contact_id")
}

// DeletedBookingID resolves the booking id named by a deletion notification.
func (e Envelope) DeletedBookingID() string {
	if id := str(e.Data, "deleted_booking_id", "booking_id"); id != "" {
		return id
	}
	if b := e.booking(); b != nil {
		return str(b, bookingIDKeys...)
	}
	return ""
}

// booking returns the booking sub-record, trying the known aliases and
// finally the data object itself when it carries booking-identifying keys.
func (e Envelope) booking() map[string]any {
	for _, key := range bookingAliases {
		if m := childMap(e.Data, key); len(m) > 0 {
			return m
		}
	}
	if str(e.Data, startKeys...) != "" || str(e.Data, "booking_id") != "" {
		return e.Data
	}
	return nil
}

// str returns the first non-empty value among keys, stringified. Numeric
// values are rendered without a decimal point when integral, matching how
// Nubimed mixes numbers and strings for the same field.
func str(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// childMap returns m[key] when it is a non-empty object.
func childMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if child, ok := m[key].(map[string]any); ok {
		return child
	}
	return nil
}

// firstOfSlice returns the first object element of m[key] when it is a
// non-empty array.
func firstOfSlice(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	items, ok := m[key].([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	first, _ := items[0].(map[string]any)
	return first
}

// numeric parses s as an integer status code, accepting "5", "5.0" and bare
// numbers that arrived as JSON floats.
func numeric(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int(f), true
	}
	return 0, false
}
