// Package webhook receives Nubimed booking-lifecycle callbacks and relays
// them into GoHighLevel through the sync layer.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicsync/nubimed-ghl-bridge/internal/config"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/events"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/nubimed"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/observability/metrics"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/sync"
	"github.com/clinicsync/nubimed-ghl-bridge/pkg/logging"
)

const (
	// ServiceName and ServiceVersion identify the bridge in health responses.
	ServiceName    = "nubimed-ghl-bridge"
	ServiceVersion = "1.2.0"
)

var webhookTracer = otel.Tracer("nubimed.internal.webhook")

type contactSyncer interface {
	Sync(ctx context.Context, env nubimed.Envelope) (*sync.ContactResult, error)
}

type appointmentSyncer interface {
	Sync(ctx context.Context, contactID string, env nubimed.Envelope) (*sync.AppointmentResult, error)
	Delete(ctx context.Context, contactID, bookingID string) (*sync.DeleteResult, error)
}

// Handler handles Nubimed webhook requests.
type Handler struct {
	contacts     contactSyncer
	appointments appointmentSyncer
	dedupe       *events.Deduper
	metrics      *metrics.WebhookMetrics
	cfg          *config.Config
	logger       *logging.Logger
}

// NewHandler creates a webhook handler. dedupe and m may be nil.
func NewHandler(contacts contactSyncer, appointments appointmentSyncer, dedupe *events.Deduper, m *metrics.WebhookMetrics, cfg *config.Config, logger *logging.Logger) *Handler {
	if contacts == nil || appointments == nil {
		panic("webhook: syncers cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		contacts:     contacts,
		appointments: appointments,
		dedupe:       dedupe,
		metrics:      m,
		cfg:          cfg,
		logger:       logger,
	}
}

type appointmentInfo struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

type webhookResponse struct {
	Status        string           `json:"status"`
	Reason        string           `json:"reason,omitempty"`
	Message       string           `json:"message,omitempty"`
	ContactID     string           `json:"contactId,omitempty"`
	IsNew         *bool            `json:"isNew,omitempty"`
	Appointment   *appointmentInfo `json:"appointment,omitempty"`
	AppointmentID string           `json:"appointmentId,omitempty"`
}

// Health handles GET / requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}

// HandleBooking handles POST /webhook/nubimed requests. Every business
// outcome answers 200; only an unusable body answers 400. Calendar failures
// are contained so the source system never retries a webhook whose contact
// sync already succeeded.
func (h *Handler) HandleBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "webhook.nubimed.booking")
	defer span.End()
	started := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, webhookResponse{Status: "error", Message: "Empty request body"})
		return
	}

	env, err := ParseEnvelope(r.Header.Get("Content-Type"), body)
	if err != nil {
		h.logger.Warn("unparseable webhook body", "error", err, "content_type", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusBadRequest, webhookResponse{Status: "error", Message: "Invalid JSON format"})
		return
	}

	event := env.EventName()
	span.SetAttributes(attribute.String("nubimed.event", event))
	defer func() {
		h.metrics.ObserveLatency(event, time.Since(started).Seconds())
	}()

	if dup, err := h.seenBefore(ctx, env); err != nil {
		h.logger.Warn("dedupe check failed, processing anyway", "error", err)
	} else if dup {
		h.logger.Info("duplicate delivery ignored", "event", event)
		h.metrics.ObserveInbound(event, "duplicate")
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored", Reason: "duplicate_delivery"})
		return
	}

	decision := nubimed.Classify(env, h.cfg.CompletionCodes)
	span.SetAttributes(attribute.String("nubimed.decision", decision.Reason))
	if !decision.Process {
		h.logger.Info("event filtered", "event", event, "reason", decision.Reason)
		h.metrics.ObserveInbound(event, "ignored")
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored", Reason: decision.Reason})
		return
	}

	contact, err := h.contacts.Sync(ctx, env)
	if err != nil {
		h.logger.Error("contact sync failed", "event", event, "error", err)
		h.metrics.ObserveInbound(event, "error")
		writeJSON(w, http.StatusOK, webhookResponse{Status: "error", Message: h.clientMessage(err)})
		return
	}

	resp := webhookResponse{
		Status:    "success",
		ContactID: contact.ContactID,
		IsNew:     &contact.IsNew,
	}

	// Isolation boundary: a calendar failure never fails the webhook.
	if appt, err := h.appointments.Sync(ctx, contact.ContactID, env); err != nil {
		h.logger.Error("calendar sync failed", "event", event, "contact_id", contact.ContactID, "error", err)
		h.metrics.ObserveCalendarFailure()
	} else {
		resp.Appointment = &appointmentInfo{ID: appt.AppointmentID, Action: appt.Action}
	}

	h.metrics.ObserveInbound(event, "success")
	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleted handles POST /webhook/nubimed/deleted requests.
func (h *Handler) HandleDeleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "webhook.nubimed.deleted")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, webhookResponse{Status: "error", Message: "Empty request body"})
		return
	}
	env, err := ParseEnvelope(r.Header.Get("Content-Type"), body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, webhookResponse{Status: "error", Message: "Invalid JSON format"})
		return
	}

	contactID := env.ContactID()
	bookingID := env.DeletedBookingID()
	if contactID == "" || bookingID == "" {
		writeJSON(w, http.StatusBadRequest, webhookResponse{
			Status:  "error",
			Message: "contact_id and booking_id are required",
		})
		return
	}
	span.SetAttributes(
		attribute.String("nubimed.contact_id", contactID),
		attribute.String("nubimed.booking_id", bookingID),
	)

	res, err := h.appointments.Delete(ctx, contactID, bookingID)
	if err != nil {
		h.logger.Error("appointment deletion failed", "booking_id", bookingID, "contact_id", contactID, "error", err)
		h.metrics.ObserveInbound("booking_deleted", "error")
		writeJSON(w, http.StatusOK, webhookResponse{Status: "error", Message: h.clientMessage(err)})
		return
	}

	if res.Status == "ignored" {
		h.metrics.ObserveInbound("booking_deleted", "ignored")
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return
	}
	h.metrics.ObserveInbound("booking_deleted", "success")
	writeJSON(w, http.StatusOK, webhookResponse{Status: "success", AppointmentID: res.AppointmentID})
}

// seenBefore hashes the canonical envelope so equivalent JSON and
// form-encoded deliveries dedupe against each other.
func (h *Handler) seenBefore(ctx context.Context, env nubimed.Envelope) (bool, error) {
	if h.dedupe == nil {
		return false, nil
	}
	canonical, err := json.Marshal(map[string]any{"name": env.Name, "data": env.Data})
	if err != nil {
		return false, err
	}
	return h.dedupe.Seen(ctx, canonical)
}

// clientMessage hides raw error details in production.
func (h *Handler) clientMessage(err error) string {
	if h.cfg != nil && h.cfg.Production() {
		return "processing failed"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
