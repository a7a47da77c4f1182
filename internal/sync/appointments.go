package sync

import (
	"context"
	"time"

	"github.com/clinicsync/nubimed-ghl-bridge/internal/config"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/ghl"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/nubimed"
	"github.com/clinicsync/nubimed-ghl-bridge/pkg/logging"
)

// defaultAppointmentLength fills the end time when the source booking has
// none.
const defaultAppointmentLength = 30 * time.Minute

type appointmentAPI interface {
	LookupContact(ctx context.Context, contactID string) (*ghl.Contact, error)
	UpdateContactCustomFields(ctx context.Context, contactID string, fields []ghl.CustomFieldInput) error
	CreateAppointment(ctx context.Context, req ghl.AppointmentRequest) (*ghl.Appointment, error)
	UpdateAppointment(ctx context.Context, appointmentID string, req ghl.AppointmentRequest) (*ghl.Appointment, error)
	DeleteAppointment(ctx context.Context, appointmentID string) error
}

// AppointmentSyncer mirrors Nubimed bookings into CRM calendar events,
// correlated per contact through the two custom-field slots.
type AppointmentSyncer struct {
	api    appointmentAPI
	cfg    *config.Config
	logger *logging.Logger
}

// NewAppointmentSyncer creates an appointment syncer.
func NewAppointmentSyncer(api appointmentAPI, cfg *config.Config, logger *logging.Logger) *AppointmentSyncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentSyncer{api: api, cfg: cfg, logger: logger}
}

// AppointmentResult reports what the sync did.
type AppointmentResult struct {
	AppointmentID string
	Action        string // "created" or "updated"
}

// DeleteResult reports the outcome of a deletion request.
type DeleteResult struct {
	Status        string // "deleted" or "ignored"
	AppointmentID string
}

// Sync creates or updates the calendar event for the envelope's booking.
//
// When the booking is already correlated, the existing event is updated
// first; any update failure is logged and falls back to a fresh create
// rather than propagating. A record existing in the calendar takes
// precedence over strict update semantics. The fallback runs once, it is
// not a retry.
func (s *AppointmentSyncer) Sync(ctx context.Context, contactID string, env nubimed.Envelope) (*AppointmentResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	booking := nubimed.ExtractBooking(env)
	if booking.ID == "" {
		return nil, ErrMissingBookingID
	}
	start, err := nubimed.ParseTime(booking.StartAt)
	if err != nil {
		return nil, ErrMissingAppointmentDate
	}
	end := start.Add(defaultAppointmentLength)
	if booking.EndAt != "" {
		if parsed, err := nubimed.ParseTime(booking.EndAt); err == nil && parsed.After(start) {
			end = parsed
		}
	}

	contact, err := s.api.LookupContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	corr := ParseCorrelation(
		contact.FieldValue(s.cfg.BookingIDsFieldID),
		contact.FieldValue(s.cfg.AppointmentIDsField),
	)

	req := ghl.AppointmentRequest{
		CalendarID:               s.cfg.GHLCalendarID,
		LocationID:               s.cfg.GHLLocationID,
		ContactID:                contactID,
		AssignedUserID:           s.cfg.GHLAssignedUserID,
		Title:                    appointmentTitle(env, booking),
		StartTime:                start.Format(time.RFC3339),
		EndTime:                  end.Format(time.RFC3339),
		AppointmentStatus:        "confirmed",
		IgnoreFreeSlotValidation: true,
	}

	if existingID, ok := corr.AppointmentFor(booking.ID); ok {
		appt, err := s.api.UpdateAppointment(ctx, existingID, req)
		if err == nil {
			s.logger.Info("appointment updated",
				"booking_id", booking.ID, "appointment_id", appt.ID, "contact_id", contactID)
			return &AppointmentResult{AppointmentID: appt.ID, Action: "updated"}, nil
		}
		s.logger.Warn("appointment update failed, falling back to create",
			"booking_id", booking.ID, "appointment_id", existingID, "error", err)
	}

	appt, err := s.api.CreateAppointment(ctx, req)
	if err != nil {
		return nil, err
	}

	if corr.Append(booking.ID, appt.ID) {
		if err := s.writeCorrelation(ctx, contactID, &corr); err != nil {
			return nil, err
		}
	}

	s.logger.Info("appointment created",
		"booking_id", booking.ID, "appointment_id", appt.ID, "contact_id", contactID)
	return &AppointmentResult{AppointmentID: appt.ID, Action: "created"}, nil
}

// Delete removes the calendar event correlated to bookingID. A booking that
// was never correlated, or whose event is already gone remotely, counts as
// already-absent rather than an error.
func (s *AppointmentSyncer) Delete(ctx context.Context, contactID, bookingID string) (*DeleteResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	contact, err := s.api.LookupContact(ctx, contactID)
	if err != nil {
		if ghl.IsNotFound(err) {
			return &DeleteResult{Status: "ignored"}, nil
		}
		return nil, err
	}
	corr := ParseCorrelation(
		contact.FieldValue(s.cfg.BookingIDsFieldID),
		contact.FieldValue(s.cfg.AppointmentIDsField),
	)

	appointmentID, ok := corr.AppointmentFor(bookingID)
	if !ok {
		s.logger.Info("no correlated appointment, ignoring deletion",
			"booking_id", bookingID, "contact_id", contactID)
		return &DeleteResult{Status: "ignored"}, nil
	}

	if err := s.api.DeleteAppointment(ctx, appointmentID); err != nil && !ghl.IsNotFound(err) {
		return nil, err
	}

	corr.Remove(bookingID)
	if err := s.writeCorrelation(ctx, contactID, &corr); err != nil {
		return nil, err
	}

	s.logger.Info("appointment deleted",
		"booking_id", bookingID, "appointment_id", appointmentID, "contact_id", contactID)
	return &DeleteResult{Status: "deleted", AppointmentID: appointmentID}, nil
}

// writeCorrelation rewrites both custom-field slots in full.
func (s *AppointmentSyncer) writeCorrelation(ctx context.Context, contactID string, corr *Correlation) error {
	bookingField, appointmentField := corr.Serialize()
	return s.api.UpdateContactCustomFields(ctx, contactID, []ghl.CustomFieldInput{
		{ID: s.cfg.BookingIDsFieldID, Value: bookingField},
		{ID: s.cfg.AppointmentIDsField, Value: appointmentField},
	})
}

// appointmentTitle is the patient's name, suffixed with the doctor when one
// is present.
func appointmentTitle(env nubimed.Envelope, booking nubimed.BookingRecord) string {
	patient := nubimed.ExtractPatient(env)
	title := patient.FullName()
	if title == "" {
		title = "Cita Nubimed"
	}
	if booking.Doctor != "" {
		title += " - " + booking.Doctor
	}
	return title
}
