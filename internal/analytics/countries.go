package analytics

import (
	"strings"

	"github.com/biter777/countries"
)

// CountryName returns the English name for an ISO alpha-2 code.
func CountryName(code string) (string, bool) {
	c, ok := lookupCountry(code)
	if !ok {
		return "", false
	}
	return c.String(), true
}

// CountryCode returns the canonical upper-case alpha-2 form of code.
// Codes that are not ISO alpha-2, such as "UK", are rejected.
func CountryCode(code string) (string, bool) {
	c, ok := lookupCountry(code)
	if !ok {
		return "", false
	}
	return c.Alpha2(), true
}

// lookupCountry accepts only exact alpha-2 codes in any case. ByName also
// matches names, alpha-3 codes and common aliases.
func lookupCountry(code string) (countries.CountryCode, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return countries.Unknown, false
	}
	c := countries.ByName(code)
	if c == countries.Unknown || c.Alpha2() != code {
		return countries.Unknown, false
	}
	return c, true
}
