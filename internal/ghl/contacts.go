package ghl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LookupContact fetches a contact by id, including its custom-field values.
func (c *Client) LookupContact(ctx context.Context, contactID string) (*Contact, error) {
	if contactID == "" {
		return nil, fmt.Errorf("ghl: contact id required")
	}
	var out struct {
		Contact Contact `json:"contact"`
	}
	if err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Contact, nil
}

// UpsertContact creates or updates a contact. The remote system deduplicates
// by phone/email, which makes the call idempotent by construction.
func (c *Client) UpsertContact(ctx context.Context, req UpsertContactRequest) (*UpsertContactResult, error) {
	if req.LocationID == "" {
		req.LocationID = c.locationID
	}
	var out UpsertContactResult
	if err := c.do(ctx, http.MethodPost, "/contacts/upsert", req, &out); err != nil {
		return nil, err
	}
	if out.Contact.ID == "" {
		return nil, fmt.Errorf("ghl: upsert returned empty contact id")
	}
	return &out, nil
}

// UpdateContactCustomFields rewrites the given custom fields on a contact.
// The correlation slots are always written together in full; there is no
// partial-field API for them.
func (c *Client) UpdateContactCustomFields(ctx context.Context, contactID string, fields []CustomFieldInput) error {
	if contactID == "" {
		return fmt.Errorf("ghl: contact id required")
	}
	payload := struct {
		CustomFields []CustomFieldInput `json:"customFields"`
	}{CustomFields: fields}
	return c.do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(contactID), payload, nil)
}
