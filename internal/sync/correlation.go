package sync

import (
	"encoding/json"
	"strings"
)

// Correlation is the ordered mapping between Nubimed booking ids and the CRM
// appointment ids mirroring them. It lives in two parallel comma-separated
// strings held in two contact custom-field slots; this type enforces the
// equal-length invariant internally and only speaks the two-string wire
// format at the CRM boundary.
type Correlation struct {
	entries []Entry
}

// Entry is one (source booking id, CRM appointment id) pair.
type Entry struct {
	BookingID     string
	AppointmentID string
}

// ParseCorrelation reads the two custom-field values. Either value may be
// nil, a comma-separated string, or a legacy JSON-array encoding. Lists of
// unequal length are zipped to the shorter one: an unmatched id on either
// side cannot be resolved and is dropped.
func ParseCorrelation(bookingField, appointmentField any) Correlation {
	bookings := splitIDList(bookingField)
	appointments := splitIDList(appointmentField)

	n := len(bookings)
	if len(appointments) < n {
		n = len(appointments)
	}
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{BookingID: bookings[i], AppointmentID: appointments[i]})
	}
	return Correlation{entries: entries}
}

// splitIDList tolerates every historical encoding of the correlation slots.
func splitIDList(v any) []string {
	var raw string
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		raw = strings.TrimSpace(value)
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			out := items[:0]
			for _, item := range items {
				if strings.TrimSpace(item) != "" {
					out = append(out, strings.TrimSpace(item))
				}
			}
			return out
		}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Len returns the number of correlated bookings.
func (c *Correlation) Len() int {
	return len(c.entries)
}

// AppointmentFor returns the CRM appointment id correlated to bookingID.
func (c *Correlation) AppointmentFor(bookingID string) (string, bool) {
	for _, e := range c.entries {
		if e.BookingID == bookingID {
			return e.AppointmentID, true
		}
	}
	return "", false
}

// Append records a new pair in insertion order. Re-appending a known booking
// id is a deliberate no-op, even when the appointment id differs; it returns
// false so callers can skip the custom-field rewrite.
func (c *Correlation) Append(bookingID, appointmentID string) bool {
	if bookingID == "" || appointmentID == "" {
		return false
	}
	if _, exists := c.AppointmentFor(bookingID); exists {
		return false
	}
	c.entries = append(c.entries, Entry{BookingID: bookingID, AppointmentID: appointmentID})
	return true
}

// Remove deletes the pair for bookingID, returning the appointment id that
// was correlated to it.
func (c *Correlation) Remove(bookingID string) (string, bool) {
	for i, e := range c.entries {
		if e.BookingID == bookingID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return e.AppointmentID, true
		}
	}
	return "", false
}

// Serialize renders both slots in the comma-separated wire format. The two
// strings always hold the same number of ids at matching positions.
func (c *Correlation) Serialize() (bookingField, appointmentField string) {
	bookings := make([]string, 0, len(c.entries))
	appointments := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		bookings = append(bookings, e.BookingID)
		appointments = append(appointments, e.AppointmentID)
	}
	return strings.Join(bookings, ","), strings.Join(appointments, ",")
}
