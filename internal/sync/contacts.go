package sync

import (
	"context"
	"strings"

	"github.com/clinicsync/nubimed-ghl-bridge/internal/config"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/ghl"
	"github.com/clinicsync/nubimed-ghl-bridge/internal/nubimed"
	"github.com/clinicsync/nubimed-ghl-bridge/pkg/logging"
)

// contactSource is the fixed source tag stamped on every upserted contact.
const contactSource = "nubimed"

// sexVocabulary translates the values Nubimed sends into the CRM's gender
// vocabulary.
var sexVocabulary = map[string]string{
	"hombre": "male",
	"mujer":  "female",
}

type contactAPI interface {
	LookupContact(ctx context.Context, contactID string) (*ghl.Contact, error)
	UpsertContact(ctx context.Context, req ghl.UpsertContactRequest) (*ghl.UpsertContactResult, error)
}

// ContactSyncer upserts CRM contacts from extracted patient fields.
type ContactSyncer struct {
	api    contactAPI
	cfg    *config.Config
	logger *logging.Logger
}

// NewContactSyncer creates a contact syncer.
func NewContactSyncer(api contactAPI, cfg *config.Config, logger *logging.Logger) *ContactSyncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContactSyncer{api: api, cfg: cfg, logger: logger}
}

// ContactResult reports the CRM contact an envelope resolved to.
type ContactResult struct {
	ContactID string
	IsNew     bool
}

// Sync resolves the envelope to a CRM contact. When the payload already
// carries a known contact id that verifies remotely, extraction and upsert
// are skipped entirely.
func (s *ContactSyncer) Sync(ctx context.Context, env nubimed.Envelope) (*ContactResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	if id := env.ContactID(); id != "" {
		contact, err := s.api.LookupContact(ctx, id)
		if err == nil && contact.ID != "" {
			s.logger.Info("contact verified, skipping upsert", "contact_id", contact.ID)
			return &ContactResult{ContactID: contact.ID}, nil
		}
		s.logger.Warn("carried contact id did not verify, falling back to upsert",
			"contact_id", id, "error", err)
	}

	patient := nubimed.ExtractPatient(env)
	phone := nubimed.NormalizePhone(patient.Phone)
	email := strings.TrimSpace(patient.Email)
	if phone == "" && email == "" {
		return nil, ErrMissingContactInfo
	}

	booking := nubimed.ExtractBooking(env)
	if booking.StartAt == "" {
		return nil, ErrMissingAppointmentDate
	}
	start, err := nubimed.ParseTime(booking.StartAt)
	if err != nil {
		return nil, ErrMissingAppointmentDate
	}

	req := ghl.UpsertContactRequest{
		LocationID: s.cfg.GHLLocationID,
		FirstName:  strings.TrimSpace(patient.Name),
		LastName:   strings.TrimSpace(patient.Surname),
		Phone:      phone,
		Email:      email,
		Address1:   strings.TrimSpace(patient.Address),
		City:       strings.TrimSpace(patient.City),
		State:      strings.TrimSpace(patient.Province),
		PostalCode: strings.TrimSpace(patient.PostalCode),
		Source:     contactSource,
	}
	if dob := strings.TrimSpace(patient.BirthDate); dob != "" {
		req.DateOfBirth = dob
	}
	if patient.Country != "" {
		code, recognized := nubimed.CountryCode(patient.Country)
		if !recognized {
			s.logger.Warn("unrecognized country, defaulting", "country", patient.Country, "code", code)
		}
		req.Country = code
	}

	fields := []ghl.CustomFieldInput{
		{ID: s.cfg.ApptDateFieldID, Value: nubimed.CivilDate(start)},
		{ID: s.cfg.ApptDateTextFieldID, Value: nubimed.HumanDate(start)},
	}
	if nin := strings.TrimSpace(patient.NIN); nin != "" {
		fields = append(fields, ghl.CustomFieldInput{ID: s.cfg.NINFieldID, Value: nin})
	}
	if sex := strings.ToLower(strings.TrimSpace(patient.Sex)); sex != "" {
		if mapped, ok := sexVocabulary[sex]; ok {
			sex = mapped
		}
		fields = append(fields, ghl.CustomFieldInput{ID: s.cfg.SexFieldID, Value: sex})
	}
	req.CustomFields = fields

	res, err := s.api.UpsertContact(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("contact upserted",
		"contact_id", res.Contact.ID,
		"is_new", res.New,
		"phone", phone,
	)
	return &ContactResult{ContactID: res.Contact.ID, IsNew: res.New}, nil
}
