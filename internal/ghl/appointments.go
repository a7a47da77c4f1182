package ghl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateAppointment creates a calendar event and returns its id.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (*Appointment, error) {
	if req.LocationID == "" {
		req.LocationID = c.locationID
	}
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/calendars/events/appointments", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("ghl: create appointment returned empty id")
	}
	return &out, nil
}

// UpdateAppointment updates an existing calendar event in place.
func (c *Client) UpdateAppointment(ctx context.Context, appointmentID string, req AppointmentRequest) (*Appointment, error) {
	if appointmentID == "" {
		return nil, fmt.Errorf("ghl: appointment id required")
	}
	if req.LocationID == "" {
		req.LocationID = c.locationID
	}
	var out Appointment
	if err := c.do(ctx, http.MethodPut, "/calendars/events/appointments/"+url.PathEscape(appointmentID), req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = appointmentID
	}
	return &out, nil
}

// DeleteAppointment deletes a calendar event. Callers decide how to treat a
// 404; use IsNotFound.
func (c *Client) DeleteAppointment(ctx context.Context, appointmentID string) error {
	if appointmentID == "" {
		return fmt.Errorf("ghl: appointment id required")
	}
	return c.do(ctx, http.MethodDelete, "/calendars/events/"+url.PathEscape(appointmentID), nil, nil)
}
