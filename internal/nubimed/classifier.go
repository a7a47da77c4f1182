package nubimed

import (
	"slices"
	"strings"
)

// Decision is the classifier verdict for one inbound envelope. Reason is a
// stable snake_case tag meant for logs and metrics labels.
type Decision struct {
	Process bool
	Reason  string
}

func accept(reason string) Decision { return Decision{Process: true, Reason: reason} }
func reject(reason string) Decision { return Decision{Process: false, Reason: reason} }

// Callback kinds that never represent a propagatable booking change,
// matched as case-insensitive substrings of the event name.
var denylistedEvents = []string{
	"visit_completed",
	"visita_finalizada",
	"cita_eliminada",
	"booking_deleted",
	"deleted_booking",
	"invoice_created",
	"factura_creada",
	"treatment_completed",
	"tratamiento_finalizado",
	"patient_created",
	"patient_updated",
	"paciente_creado",
	"paciente_actualizado",
	"budget_created",
	"budget_updated",
	"presupuesto_creado",
	"presupuesto_actualizado",
}

// Stringified statuses that mean the visit already happened.
var completionStatuses = []string{"completada", "completed", "attended", "asiste", "asistida", "finalizada"}

// Classify decides whether an envelope represents a business-meaningful
// booking change worth propagating to the CRM. completionCodes is the set of
// numeric statuses treated as "visit completed"; it is empty in the current
// Nubimed deployments, so numeric codes alone never trigger a completion
// rejection unless explicitly configured.
//
// The rules run in strict precedence order; later rules are only reached when
// earlier ones do not resolve. The final fallback is a deliberate
// "cannot classify, process anyway" safety bias.
func Classify(env Envelope, completionCodes []int) Decision {
	name := strings.ToLower(env.EventName())
	booking := env.booking()

	for _, token := range denylistedEvents {
		if strings.Contains(name, token) {
			return reject("denylisted_event")
		}
	}

	// Patient callbacks without booking context are not booking events,
	// unless the payload also carries booking data.
	if (strings.Contains(name, "patient") || strings.Contains(name, "paciente")) &&
		!strings.Contains(name, "booking") {
		if !hasBookingData(booking) {
			return reject("patient_event_without_booking")
		}
	}

	status := str(booking, statusKeys...)
	if status == "" {
		status = str(env.Data, statusKeys...)
	}
	start := startTime(env, booking)
	completed := isCompletionStatus(status, completionCodes)

	// Name-pattern rules. Each decides immediately when its predicate
	// resolves; otherwise evaluation continues.
	switch {
	case strings.Contains(name, "new_booking"):
		// Explicit creation signal overrides status.
		return accept("new_booking_event")
	case strings.Contains(name, "new_or_updated"):
		if start != "" {
			return accept("new_or_updated_with_start")
		}
		if completed {
			return reject("new_or_updated_completed_without_start")
		}
	case strings.Contains(name, "created"):
		return accept("created_event")
	case (strings.Contains(name, "attended") || strings.Contains(name, "asiste")) && !strings.Contains(name, "new"):
		if completed {
			return reject("attended_completed")
		}
	case strings.Contains(name, "completed") && !strings.Contains(name, "new") && !strings.Contains(name, "booking_created"):
		if completed {
			return reject("completed_event")
		}
	case strings.Contains(name, "updated") || strings.Contains(name, "modified"):
		prev := previousStart(env, booking)
		if prev != "" && prev != start {
			return accept("start_time_changed")
		}
		if completed {
			return reject("updated_completed_without_date_change")
		}
	}

	if code, ok := numeric(status); ok {
		switch {
		case code == 5:
			if start != "" {
				return accept("status_code_5_with_start")
			}
			return reject("status_code_5_without_start")
		case code == 4:
			return accept("status_code_4")
		case slices.Contains(completionCodes, code):
			if strings.Contains(name, "new_booking") || start != "" {
				return accept("completion_code_with_start")
			}
			return reject("completion_code")
		}
	}

	if d, ok := classifyLegacy(env, status, completionCodes); ok {
		return d
	}

	if hasBookingData(booking) {
		if strings.Contains(name, "new") || strings.Contains(name, "created") {
			return accept("booking_data_with_creation_name")
		}
		return accept("booking_data_present")
	}
	if booking == nil {
		return reject("no_booking_data")
	}

	return accept("default_processing")
}

// classifyLegacy handles the older generic event_type/changes protocol where
// the interesting signal lives in a changes object or previous_* fields.
func classifyLegacy(env Envelope, status string, completionCodes []int) (Decision, bool) {
	eventType := strings.ToLower(str(env.Data, "event_type"))
	changes := childMap(env.Data, "changes")

	switch eventType {
	case "created", "appointment.created":
		return accept("legacy_created"), true
	case "updated", "appointment.updated":
		if changes != nil {
			if str(changes, "date") != "" || str(changes, "time") != "" {
				return accept("legacy_date_changed"), true
			}
			if str(changes, "status") != "" && isCompletionStatus(status, completionCodes) {
				return reject("legacy_status_completed"), true
			}
		}
	}

	prevDate := str(env.Data, "previous_date")
	curDate := str(env.Data, "date")
	if prevDate != "" && curDate != "" && prevDate != curDate {
		return accept("legacy_previous_date_changed"), true
	}
	prevStatus := str(env.Data, "previous_status")
	if prevStatus != "" && prevStatus != status && isCompletionStatus(status, completionCodes) {
		if prevDate == "" || prevDate == curDate {
			return reject("legacy_completed_unchanged_date"), true
		}
	}

	return Decision{}, false
}

// isCompletionStatus reports whether the stringified status means the visit
// already happened. Numeric codes count only when explicitly enumerated.
func isCompletionStatus(status string, completionCodes []int) bool {
	if status == "" {
		return false
	}
	if code, ok := numeric(status); ok {
		return slices.Contains(completionCodes, code)
	}
	lower := strings.ToLower(status)
	for _, word := range completionStatuses {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func hasBookingData(booking map[string]any) bool {
	if booking == nil {
		return false
	}
	return str(booking, bookingIDKeys...) != "" ||
		str(booking, startKeys...) != "" ||
		str(booking, "date") != ""
}

func startTime(env Envelope, booking map[string]any) string {
	if s := str(booking, startKeys...); s != "" {
		return s
	}
	return str(env.Data, startKeys...)
}

func previousStart(env Envelope, booking map[string]any) string {
	if s := str(booking, previousStartKeys...); s != "" {
		return s
	}
	return str(env.Data, previousStartKeys...)
}
