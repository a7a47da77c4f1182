package webhook

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookingJSON = `{"name":"new_booking","data":{"booking":{"id":"B1","start_at":"2025-01-10T09:00:00Z"}}}`

func TestParseEnvelopeJSON(t *testing.T) {
	env, err := ParseEnvelope("application/json", []byte(bookingJSON))
	require.NoError(t, err)
	assert.Equal(t, "new_booking", env.Name)
	require.NotNil(t, env.Data)
	booking, ok := env.Data["booking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "B1", booking["id"])
}

func TestParseEnvelopeJSONFlat(t *testing.T) {
	env, err := ParseEnvelope("application/json", []byte(`{"name":"booking_updated","booking_id":"B2","start_at":"2025-01-10 09:00"}`))
	require.NoError(t, err)
	assert.Equal(t, "booking_updated", env.Name)
	assert.Equal(t, "B2", env.Data["booking_id"])
}

func TestParseEnvelopeInvalidJSON(t *testing.T) {
	_, err := ParseEnvelope("application/json", []byte("not json"))
	require.ErrorIs(t, err, errInvalidBody)

	// A valid JSON scalar is still not an envelope.
	_, err = ParseEnvelope("application/json", []byte(`"just a string"`))
	require.ErrorIs(t, err, errInvalidBody)

	_, err = ParseEnvelope("application/json", []byte(`null`))
	require.ErrorIs(t, err, errInvalidBody)
}

func TestParseEnvelopeFormWithJSONString(t *testing.T) {
	form := url.Values{}
	form.Set("name", "new_booking")
	form.Set("data", `{"booking":{"id":"B1","start_at":"2025-01-10T09:00:00Z"}}`)

	env, err := ParseEnvelope("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, "new_booking", env.Name)
	booking, ok := env.Data["booking"].(map[string]any)
	require.True(t, ok, "data must be the parsed object, not the raw string")
	assert.Equal(t, "B1", booking["id"])
}

func TestParseEnvelopeFormNameFromData(t *testing.T) {
	form := url.Values{}
	form.Set("data", `{"name":"booking_updated","booking":{"id":"B1"}}`)

	env, err := ParseEnvelope("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, "booking_updated", env.Name,
		"name must default to the parsed object's own name field")
}

func TestParseEnvelopeFormUnparseableData(t *testing.T) {
	form := url.Values{}
	form.Set("name", "new_booking")
	form.Set("data", "{{{not json")

	env, err := ParseEnvelope("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err, "unparseable data field is tolerated, not an error")
	assert.Equal(t, "new_booking", env.Name)
	assert.Equal(t, "{{{not json", env.Data["data"], "raw string is retained")
}

func TestParseEnvelopeFormWithoutData(t *testing.T) {
	form := url.Values{}
	form.Set("name", "booking_updated")
	form.Set("booking_id", "B3")
	form.Set("start_at", "2025-01-10 09:00")

	env, err := ParseEnvelope("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, "booking_updated", env.Name)
	assert.Equal(t, "B3", env.Data["booking_id"], "form fields pass through unchanged")
}

func TestParseEnvelopeEquivalence(t *testing.T) {
	// The same logical payload must normalize identically from both
	// encodings.
	jsonEnv, err := ParseEnvelope("application/json", []byte(bookingJSON))
	require.NoError(t, err)

	form := url.Values{}
	form.Set("name", "new_booking")
	form.Set("data", `{"booking":{"id":"B1","start_at":"2025-01-10T09:00:00Z"}}`)
	formEnv, err := ParseEnvelope("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)

	assert.Equal(t, jsonEnv.Name, formEnv.Name)
	assert.Equal(t, jsonEnv.Data, formEnv.Data)
}
