package nubimed

import "strings"

// PatientRecord is the patient projection extracted from an envelope.
// Exactly one of the candidate source locations is selected per extraction.
type PatientRecord struct {
	Name       string
	Surname    string
	Phone      string
	Email      string
	Address    string
	City       string
	Province   string
	PostalCode string
	Country    string
	BirthDate  string
	NIN        string
	Sex        string
}

// Empty reports whether the extraction yielded no usable identity at all.
func (p PatientRecord) Empty() bool {
	return p.Name == "" && p.Surname == "" && p.Phone == "" && p.Email == ""
}

// FullName joins name and surname, tolerating either being absent.
func (p PatientRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.Name) + " " + strings.TrimSpace(p.Surname))
}

// BookingRecord is the read-only booking projection, reconstructed per
// request and never persisted.
type BookingRecord struct {
	ID      string
	StartAt string
	EndAt   string
	Status  string
	Comment string
	Doctor  string
}

// ExtractPatient resolves the patient sub-record by trying, in strict
// priority order: booking.patients[0], data.patients[0], booking.patient,
// then flat top-level patient_* fields. The first location yielding a
// non-empty record wins.
func ExtractPatient(env Envelope) PatientRecord {
	booking := env.booking()

	if m := firstOfSlice(booking, "patients"); m != nil {
		if p := patientFromMap(m); !p.Empty() {
			return p
		}
	}
	if m := firstOfSlice(env.Data, "patients"); m != nil {
		if p := patientFromMap(m); !p.Empty() {
			return p
		}
	}
	if m := childMap(booking, "patient"); m != nil {
		if p := patientFromMap(m); !p.Empty() {
			return p
		}
	}
	return patientFromFlatFields(env.Data)
}

func patientFromMap(m map[string]any) PatientRecord {
	return PatientRecord{
		Name:       str(m, "name", "first_name", "nombre"),
		Surname:    str(m, "surname", "last_name", "apellidos"),
		Phone:      str(m, "phone", "mobile", "phone_number", "telefono"),
		Email:      str(m, "email"),
		Address:    str(m, "address", "direccion"),
		City:       str(m, "city", "ciudad"),
		Province:   str(m, "province", "provincia", "state"),
		PostalCode: str(m, "postal_code", "zip", "codigo_postal"),
		Country:    str(m, "country", "pais"),
		BirthDate:  str(m, "birth_date", "birthdate", "date_of_birth", "fecha_nacimiento"),
		NIN:        str(m, "nin", "dni", "nif", "document"),
		Sex:        str(m, "sex", "gender", "sexo"),
	}
}

func patientFromFlatFields(data map[string]any) PatientRecord {
	return PatientRecord{
		Name:       str(data, "patient_name", "patient_first_name"),
		Surname:    str(data, "patient_surname", "patient_last_name"),
		Phone:      str(data, "patient_phone", "patient_mobile"),
		Email:      str(data, "patient_email"),
		Address:    str(data, "patient_address"),
		City:       str(data, "patient_city"),
		Province:   str(data, "patient_province"),
		PostalCode: str(data, "patient_postal_code"),
		Country:    str(data, "patient_country"),
		BirthDate:  str(data, "patient_birth_date"),
		NIN:        str(data, "patient_nin", "patient_dni"),
		Sex:        str(data, "patient_sex"),
	}
}

// ExtractBooking resolves the booking projection from the envelope's many
// possible nesting shapes.
func ExtractBooking(env Envelope) BookingRecord {
	booking := env.booking()
	rec := BookingRecord{
		ID:      str(booking, bookingIDKeys...),
		StartAt: str(booking, startKeys...),
		EndAt:   str(booking, endKeys...),
		Status:  str(booking, statusKeys...),
		Comment: str(booking, "comment", "notes", "observations"),
		Doctor:  extractDoctor(env, booking),
	}
	if rec.ID == "" {
		rec.ID = str(env.Data, "booking_id", "deleted_booking_id")
	}
	if rec.StartAt == "" {
		rec.StartAt = str(env.Data, startKeys...)
	}
	if rec.StartAt == "" {
		rec.StartAt = str(booking, "date")
	}
	return rec
}

// extractDoctor returns the doctor's display name from the booking's doctor
// object, a plain string field, or the flat doctor_name fallback.
func extractDoctor(env Envelope, booking map[string]any) string {
	for _, key := range doctorAliases {
		if m := childMap(booking, key); m != nil {
			full := strings.TrimSpace(str(m, "name", "first_name") + " " + str(m, "surname", "last_name"))
			if full != "" {
				return full
			}
		}
		if s := str(booking, key); s != "" {
			return s
		}
	}
	return str(env.Data, "doctor_name")
}

// NormalizePhone strips every character except digits and a leading plus,
// then prefixes a plus when absent.
func NormalizePhone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out == "+" {
		return ""
	}
	if !strings.HasPrefix(out, "+") {
		out = "+" + out
	}
	return out
}
