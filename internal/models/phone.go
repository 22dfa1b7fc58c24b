package models

import (
	"regexp"
	"strings"
)

// Iraqi mobile numbers start with 7 and carry 10 national digits. The +964
// country prefix is accepted but optional; the delivery company receives the
// number without it.
var iraqiMobilePattern = regexp.MustCompile(`^(\+964)?7\d{9}$`)

// ValidIraqiMobile reports whether phone is a well-formed Iraqi mobile
// number, with or without the +964 prefix.
func ValidIraqiMobile(phone string) bool {
	return iraqiMobilePattern.MatchString(strings.TrimSpace(phone))
}

// StripCountryCode removes the +964 prefix from a phone number, if present.
func StripCountryCode(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "+964")
}
