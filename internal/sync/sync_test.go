package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/clinicsync/nubimed-ghl-bridge/internal/config"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/ghl"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/nubimed"
)

// fakeAPI implements contactAPI and appointmentAPI with programmable
// responses and call recording.
type fakeAPI struct {
	contact   *ghl.Contact
	lookupErr error

	upsertResult *ghl.UpsertContactResult
	upsertErr    error
	upsertReqs   []ghl.UpsertContactRequest

	fieldWrites   [][]ghl.CustomFieldInput
	fieldWriteErr error

	createResult *ghl.Appointment
	createErr    error
	createReqs   []ghl.AppointmentRequest

	updateResult *ghl.Appointment
	updateErr    error
	updatedIDs   []string

	deleteErr  error
	deletedIDs []string
}

func (f *fakeAPI) LookupContact(_ context.Context, contactID string) (*ghl.Contact, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.contact == nil {
		return &ghl.Contact{ID: contactID}, nil
	}
	return f.contact, nil
}

func (f *fakeAPI) UpsertContact(_ context.Context, req ghl.UpsertContactRequest) (*ghl.UpsertContactResult, error) {
	f.upsertReqs = append(f.upsertReqs, req)
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if f.upsertResult == nil {
		return &ghl.UpsertContactResult{Contact: ghl.Contact{ID: "C1"}, New: true}, nil
	}
	return f.upsertResult, nil
}

func (f *fakeAPI) UpdateContactCustomFields(_ context.Context, _ string, fields []ghl.CustomFieldInput) error {
	f.fieldWrites = append(f.fieldWrites, fields)
	return f.fieldWriteErr
}

func (f *fakeAPI) CreateAppointment(_ context.Context, req ghl.AppointmentRequest) (*ghl.Appointment, error) {
	f.createReqs = append(f.createReqs, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult == nil {
		return &ghl.Appointment{ID: "A-new"}, nil
	}
	return f.createResult, nil
}

func (f *fakeAPI) UpdateAppointment(_ context.Context, appointmentID string, _ ghl.AppointmentRequest) (*ghl.Appointment, error) {
	f.updatedIDs = append(f.updatedIDs, appointmentID)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResult == nil {
		return &ghl.Appointment{ID: appointmentID}, nil
	}
	return f.updateResult, nil
}

func (f *fakeAPI) DeleteAppointment(_ context.Context, appointmentID string) error {
	f.deletedIDs = append(f.deletedIDs, appointmentID)
	return f.deleteErr
}

func testConfig() *config.Config {
	return &config.Config{
		GHLAPIToken:         "tok",
		GHLLocationID:       "loc_1",
		GHLCalendarID:       "cal_1",
		GHLAssignedUserID:   "user_1",
		BookingIDsFieldID:   "fld_bookings",
		AppointmentIDsField: "fld_appointments",
		ApptDateFieldID:     "fld_date",
		ApptDateTextFieldID: "fld_date_text",
		NINFieldID:          "fld_nin",
		SexFieldID:          "fld_sex",
	}
}

func testEnvelope(t *testing.T, name, data string) nubimed.Envelope {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return nubimed.Envelope{Name: name, Data: m}
}

// contactWithCorrelation builds a remote contact carrying the two
// correlation slots.
func contactWithCorrelation(bookings, appointments string) *ghl.Contact {
	return &ghl.Contact{
		ID: "C1",
		CustomFields: []ghl.CustomField{
			{ID: "fld_bookings", Value: bookings},
			{ID: "fld_appointments", Value: appointments},
		},
	}
}

var errRemote = errors.New("remote boom")
