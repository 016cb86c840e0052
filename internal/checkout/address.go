package checkout

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/osikani/kente-storefront-api/internal/currency"
)

// Address is the structured shipping form. Orders persist only the flattened
// String() of it; old records stay opaque strings and are never re-parsed.
type Address struct {
	FullName   string
	Email      string
	Line1      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// FieldErrors maps form field names to messages so the client can render
// them inline.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Validate checks the field set that is active for the given currency.
// Ghana shipments (GHS) use region instead of a postal code; everywhere else
// gets the generic international set with a required postal code.
func (a Address) Validate(code currency.Code) error {
	errs := FieldErrors{}
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = "required"
		}
	}

	require("full_name", a.FullName)
	require("email", a.Email)
	require("line1", a.Line1)
	require("city", a.City)
	require("country", a.Country)

	if code == currency.GHS {
		require("region", a.Region)
	} else {
		require("postal_code", a.PostalCode)
	}

	if _, ok := errs["email"]; !ok {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			errs["email"] = "must be a valid email address"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// String flattens to the persisted single-line form. The order of parts is
// fixed so the same input always produces the same stored address.
func (a Address) String() string {
	parts := []string{a.FullName, a.Line1, a.City}
	if a.Region != "" {
		parts = append(parts, a.Region)
	}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}
	parts = append(parts, a.Country)

	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, ", ")
}
