package webhook

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/clinicsync/nubimed-ghl-bridge/internal/nubimed"
)

// errInvalidBody marks a terminal client error: the request body could not be
// turned into a canonical envelope. Everything else the normalizer tolerates.
var errInvalidBody = errors.New("webhook: invalid request body")

// ParseEnvelope canonicalizes the inbound encodings Nubimed uses into one
// envelope. JSON bodies are taken as-is; form-encoded bodies carry the event
// data as a nested JSON string under the data field.
func ParseEnvelope(contentType string, body []byte) (nubimed.Envelope, error) {
	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		return parseFormEnvelope(body)
	}
	return parseJSONEnvelope(body)
}

func parseJSONEnvelope(body []byte) (nubimed.Envelope, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil || m == nil {
		return nubimed.Envelope{}, errInvalidBody
	}
	name, _ := m["name"].(string)

	// A wrapped payload carries the event data one level down; a flat one is
	// its own data object.
	if data, ok := m["data"].(map[string]any); ok {
		if name == "" {
			name, _ = data["name"].(string)
		}
		return nubimed.Envelope{Name: name, Data: data}, nil
	}
	return nubimed.Envelope{Name: name, Data: m}, nil
}

func parseFormEnvelope(body []byte) (nubimed.Envelope, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil || len(values) == 0 {
		return nubimed.Envelope{}, errInvalidBody
	}

	fields := make(map[string]any, len(values))
	for key := range values {
		fields[key] = values.Get(key)
	}
	name, _ := fields["name"].(string)

	raw, hasData := fields["data"].(string)
	if !hasData {
		// No data field at all: the form fields pass through unchanged.
		return nubimed.Envelope{Name: name, Data: fields}, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err == nil && data != nil {
		if name == "" {
			name, _ = data["name"].(string)
		}
		return nubimed.Envelope{Name: name, Data: data}, nil
	}

	// Unparseable data is kept as the raw string, not treated as an error;
	// classification will reject it downstream if nothing usable remains.
	return nubimed.Envelope{Name: name, Data: fields}, nil
}
