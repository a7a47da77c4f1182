package ghl

// Contact is the remote CRM contact as returned by contact reads.
type Contact struct {
	ID           string        `json:"id"`
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Email        string        `json:"email,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// CustomField is a custom-field value as read from a contact. Value stays
// untyped: legacy writers stored JSON arrays where newer ones store strings.
type CustomField struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// FieldValue returns the custom field with the given id, or "".
func (c *Contact) FieldValue(fieldID string) any {
	if c == nil {
		return nil
	}
	for _, f := range c.CustomFields {
		if f.ID == fieldID {
			return f.Value
		}
	}
	return nil
}

// CustomFieldInput is the write-side custom-field shape.
type CustomFieldInput struct {
	ID    string `json:"id"`
	Value any    `json:"field_value"`
}

// UpsertContactRequest is the POST /contacts/upsert payload. Empty optional
// fields must be omitted entirely: the remote API distinguishes absent from
// empty.
type UpsertContactRequest struct {
	LocationID   string             `json:"locationId"`
	FirstName    string             `json:"firstName,omitempty"`
	LastName     string             `json:"lastName,omitempty"`
	Name         string             `json:"name,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Email        string             `json:"email,omitempty"`
	Address1     string             `json:"address1,omitempty"`
	City         string             `json:"city,omitempty"`
	State        string             `json:"state,omitempty"`
	PostalCode   string             `json:"postalCode,omitempty"`
	Country      string             `json:"country,omitempty"`
	DateOfBirth  string             `json:"dateOfBirth,omitempty"`
	Gender       string             `json:"gender,omitempty"`
	Source       string             `json:"source,omitempty"`
	CustomFields []CustomFieldInput `json:"customFields,omitempty"`
}

// UpsertContactResult reports the contact the remote system deduplicated to.
type UpsertContactResult struct {
	Contact Contact `json:"contact"`
	New     bool    `json:"new"`
}

// Appointment is a CRM calendar event.
type Appointment struct {
	ID                string `json:"id"`
	CalendarID        string `json:"calendarId,omitempty"`
	ContactID         string `json:"contactId,omitempty"`
	Title             string `json:"title,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
	AppointmentStatus string `json:"appointmentStatus,omitempty"`
}

// AppointmentRequest is the create/update payload for calendar events.
type AppointmentRequest struct {
	CalendarID        string `json:"calendarId"`
	LocationID        string `json:"locationId"`
	ContactID         string `json:"contactId"`
	AssignedUserID    string `json:"assignedUserId,omitempty"`
	Title             string `json:"title"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	AppointmentStatus string `json:"appointmentStatus"`

	// IgnoreFreeSlotValidation bypasses the calendar's availability check:
	// bookings are authored in Nubimed, the CRM calendar only mirrors them.
	IgnoreFreeSlotValidation bool `json:"ignoreFreeSlotValidation"`
	ToNotify                 bool `json:"toNotify"`
}
