package nubimed

import (
	"fmt"
	"strings"
	"time"
)

// All date rendering happens in the clinic's reference timezone regardless of
// where the server runs.
var clinicZone = loadClinicZone()

func loadClinicZone() *time.Location {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}

// Input layouts observed across Nubimed callback variants. Zone-less layouts
// are interpreted as clinic-local time.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses a Nubimed timestamp string in any of the accepted layouts.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("nubimed: empty timestamp")
	}
	for _, layout := range inputLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, clinicZone)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("nubimed: unrecognized timestamp %q", value)
}

// CivilDate renders the instant as a clinic-local YYYY-MM-DD date.
func CivilDate(t time.Time) string {
	return t.In(clinicZone).Format("2006-01-02")
}

// HumanDate renders the instant as the localized human string used in CRM
// custom fields, e.g. "10/01/2025 a las 09:30".
func HumanDate(t time.Time) string {
	return t.In(clinicZone).Format("02/01/2006 a las 15:04")
}
