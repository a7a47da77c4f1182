package nubimed

import (
	"testing"
	"time"
)

func TestExtractPatientPriority(t *testing.T) {
	// booking.patients[0] wins over every other location.
	env := envelopeFromJSON(t, "new_booking", `{
		"patients":[{"name":"Outer"}],
		"booking":{
			"id":"B1",
			"patients":[{"name":"Ana","surname":"Ruiz","phone":"600 111 222"}],
			"patient":{"name":"Inner"}
		},
		"patient_name":"Flat"
	}`)
	p := ExtractPatient(env)
	if p.Name != "Ana" || p.Surname != "Ruiz" {
		t.Fatalf("expected booking.patients[0], got %+v", p)
	}

	// data.patients[0] next.
	env = envelopeFromJSON(t, "new_booking", `{
		"patients":[{"name":"Outer","email":"outer@example.com"}],
		"booking":{"id":"B1","patient":{"name":"Inner"}}
	}`)
	if p = ExtractPatient(env); p.Name != "Outer" {
		t.Fatalf("expected data.patients[0], got %+v", p)
	}

	// booking.patient next.
	env = envelopeFromJSON(t, "new_booking", `{
		"booking":{"id":"B1","patient":{"name":"Inner","phone":"611222333"}},
		"patient_name":"Flat"
	}`)
	if p = ExtractPatient(env); p.Name != "Inner" {
		t.Fatalf("expected booking.patient, got %+v", p)
	}

	// Flat patient_* fields last.
	env = envelopeFromJSON(t, "new_booking", `{
		"booking":{"id":"B1"},
		"patient_name":"Flat","patient_surname":"Campos","patient_email":"flat@example.com"
	}`)
	p = ExtractPatient(env)
	if p.Name != "Flat" || p.Surname != "Campos" || p.Email != "flat@example.com" {
		t.Fatalf("expected flat fields, got %+v", p)
	}
}

func TestExtractPatientSkipsEmptyCandidates(t *testing.T) {
	// An empty patients array must not mask later locations.
	env := envelopeFromJSON(t, "new_booking", `{
		"booking":{"id":"B1","patients":[],"patient":{"name":"Inner"}}
	}`)
	if p := ExtractPatient(env); p.Name != "Inner" {
		t.Fatalf("expected booking.patient, got %+v", p)
	}
}

func TestExtractPatientSpanishAliases(t *testing.T) {
	env := envelopeFromJSON(t, "new_booking", `{
		"booking":{"id":"B1","patients":[{
			"nombre":"María","apellidos":"García López","telefono":"+34 600-11-22-33",
			"dni":"12345678Z","sexo":"mujer","pais":"España"
		}]}
	}`)
	p := ExtractPatient(env)
	if p.Name != "María" || p.Surname != "García López" {
		t.Fatalf("expected alias mapping, got %+v", p)
	}
	if p.NIN != "12345678Z" || p.Sex != "mujer" {
		t.Fatalf("expected nin/sex extraction, got %+v", p)
	}
	if got := NormalizePhone(p.Phone); got != "+34600112233" {
		t.Fatalf("unexpected phone normalization: %q", got)
	}
}

func TestExtractBooking(t *testing.T) {
	env := envelopeFromJSON(t, "new_booking", `{
		"booking":{
			"id":"B7","start_at":"2025-01-10T09:00:00Z","end_at":"2025-01-10T09:45:00Z",
			"status":"pendiente","comment":"primera visita",
			"doctor":{"name":"Jorge","surname":"Santos"}
		}
	}`)
	b := ExtractBooking(env)
	if b.ID != "B7" || b.StartAt != "2025-01-10T09:00:00Z" || b.EndAt != "2025-01-10T09:45:00Z" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.Doctor != "Jorge Santos" {
		t.Fatalf("expected doctor name, got %q", b.Doctor)
	}

	// Flat shape with numeric id and date-only start.
	env = envelopeFromJSON(t, "", `{"booking_id":12345,"start_at":"2025-01-10 09:00","doctor_name":"Dra. Vidal"}`)
	b = ExtractBooking(env)
	if b.ID != "12345" {
		t.Fatalf("expected stringified numeric id, got %q", b.ID)
	}
	if b.Doctor != "Dra. Vidal" {
		t.Fatalf("expected flat doctor name, got %q", b.Doctor)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"600111222", "+600111222"},
		{"+34 600 111 222", "+34600111222"},
		{"(600) 111-222", "+600111222"},
		{"  +34600111222  ", "+34600111222"},
		{"", ""},
		{"abc", ""},
		{"+", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Fatalf("NormalizePhone(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountryCode(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		recognized bool
	}{
		{"España", "ES", true},
		{"MEXICO", "MX", true},
		{"república dominicana", "DO", true},
		{"fr", "FR", true},
		{"Atlantis", "ES", false},
		{"", "ES", false},
	}
	for _, tt := range tests {
		got, ok := CountryCode(tt.in)
		if got != tt.want || ok != tt.recognized {
			t.Fatalf("CountryCode(%q)=(%q,%v) want (%q,%v)", tt.in, got, ok, tt.want, tt.recognized)
		}
	}
}

func TestDateRendering(t *testing.T) {
	// A UTC instant renders in clinic-local time for both formats.
	ts, err := ParseTime("2025-01-10T09:00:00Z")
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if got := CivilDate(ts); got != "2025-01-10" {
		t.Fatalf("CivilDate=%q", got)
	}
	if got := HumanDate(ts); got != "10/01/2025 a las 10:00" {
		t.Fatalf("HumanDate=%q", got)
	}

	// Zone-less input is clinic-local already.
	ts, err = ParseTime("2025-06-10 16:30")
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if got := HumanDate(ts); got != "10/06/2025 a las 16:30" {
		t.Fatalf("HumanDate=%q", got)
	}
	if !ts.Equal(time.Date(2025, 6, 10, 16, 30, 0, 0, clinicZone)) {
		t.Fatalf("expected clinic-local parse, got %v", ts)
	}

	if _, err := ParseTime("not a date"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}
