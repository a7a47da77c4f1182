package nubimed

import "strings"

// DefaultCountry is used when the source country cannot be recognized.
const DefaultCountry = "ES"

// countryCodes maps the country names Nubimed sends (Spanish-speaking
// countries plus the handful seen in real payloads) onto ISO 3166-1 alpha-2.
var countryCodes = map[string]string{
	"españa":               "ES",
	"espana":               "ES",
	"spain":                "ES",
	"méxico":               "MX",
	"mexico":               "MX",
	"argentina":            "AR",
	"colombia":             "CO",
	"chile":                "CL",
	"perú":                 "PE",
	"peru":                 "PE",
	"venezuela":            "VE",
	"ecuador":              "EC",
	"bolivia":              "BO",
	"uruguay":              "UY",
	"paraguay":             "PY",
	"cuba":                 "CU",
	"república dominicana": "DO",
	"republica dominicana": "DO",
	"guatemala":            "GT",
	"honduras":             "HN",
	"el salvador":          "SV",
	"nicaragua":            "NI",
	"costa rica":           "CR",
	"panamá":               "PA",
	"panama":               "PA",
	"andorra":              "AD",
	"portugal":             "PT",
	"francia":              "FR",
	"france":               "FR",
	"italia":               "IT",
	"italy":                "IT",
	"alemania":             "DE",
	"germany":              "DE",
	"reino unido":          "GB",
	"united kingdom":       "GB",
	"estados unidos":       "US",
	"united states":        "US",
	"marruecos":            "MA",
	"rumanía":              "RO",
	"rumania":              "RO",
}

// CountryCode normalizes a country name to its 2-letter uppercase code.
// Already-normalized 2-letter codes pass through. The second return reports
// whether the input was recognized; unrecognized input falls back to ES and
// callers are expected to log a warning.
func CountryCode(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultCountry, false
	}
	if len(trimmed) == 2 && isAlpha(trimmed) {
		return strings.ToUpper(trimmed), true
	}
	if code, ok := countryCodes[strings.ToLower(trimmed)]; ok {
		return code, true
	}
	return DefaultCountry, false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
