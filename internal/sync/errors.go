// Package sync maps normalized Nubimed booking events onto GoHighLevel
// contact and calendar records.
package sync

import "errors"

var (
	// ErrMissingContactInfo means the payload carried neither a phone
	// number nor an email, so the CRM cannot deduplicate an upsert.
	ErrMissingContactInfo = errors.New("sync: patient has neither phone nor email")

	// ErrMissingAppointmentDate means no resolvable appointment date exists
	// anywhere in the payload.
	ErrMissingAppointmentDate = errors.New("sync: no resolvable appointment date")

	// ErrMissingBookingID means the payload carried no source booking id to
	// correlate a calendar event against.
	ErrMissingBookingID = errors.New("sync: no booking id to correlate")
)
