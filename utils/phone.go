package utils

import (
	"fmt"
	"sort"
	"strings"
)

// Ghanaian carrier names as exposed in the product catalogue.
const (
	NetworkMTN        = "MTN"
	NetworkTelecel    = "Telecel"
	NetworkAirtelTigo = "AirtelTigo"
)

// networkPrefixes maps the 3-digit local prefix of a normalized number to its
// carrier. Telecel covers the former Vodafone Ghana prefixes.
var networkPrefixes = map[string]string{
	"024": NetworkMTN,
	"025": NetworkMTN,
	"053": NetworkMTN,
	"054": NetworkMTN,
	"055": NetworkMTN,
	"059": NetworkMTN,

	"020": NetworkTelecel,
	"050": NetworkTelecel,

	"026": NetworkAirtelTigo,
	"027": NetworkAirtelTigo,
	"056": NetworkAirtelTigo,
	"057": NetworkAirtelTigo,
}

// NormalizePhoneNumber converts free-form input to the local 10-digit form:
// non-digits are stripped, a leading 233 country code becomes a leading 0, and
// a missing leading 0 is prepended. Returns an error when the result is not
// exactly 10 digits.
func NormalizePhoneNumber(input string) (string, error) {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("phone number contains no digits")
	}

	if strings.HasPrefix(digits, "233") {
		digits = "0" + digits[3:]
	}
	if !strings.HasPrefix(digits, "0") {
		digits = "0" + digits
	}

	if len(digits) != 10 {
		return "", fmt.Errorf("invalid phone number: expected 10 digits after normalization, got %d", len(digits))
	}
	return digits, nil
}

// DetectNetwork normalizes the input and classifies it by prefix. The second
// return value is false when the number is invalid or the prefix is unknown.
func DetectNetwork(input string) (string, bool) {
	normalized, err := NormalizePhoneNumber(input)
	if err != nil {
		return "", false
	}
	network, ok := networkPrefixes[normalized[:3]]
	return network, ok
}

// PrefixesFor returns the sorted list of valid prefixes for a carrier.
func PrefixesFor(network string) []string {
	var out []string
	for p, n := range networkPrefixes {
		if n == network {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// ValidateNetworkForBundle checks that the destination number belongs to the
// carrier of the bundle being purchased. The error message names the expected
// carrier and its valid prefixes so the storefront can show it verbatim.
func ValidateNetworkForBundle(phone, network string) (string, error) {
	normalized, err := NormalizePhoneNumber(phone)
	if err != nil {
		return "", err
	}
	detected, ok := networkPrefixes[normalized[:3]]
	if !ok {
		return "", fmt.Errorf("unrecognized number %s: valid %s prefixes are %s",
			normalized, network, strings.Join(PrefixesFor(network), ", "))
	}
	if detected != network {
		return "", fmt.Errorf("%s is a %s number, not %s: valid %s prefixes are %s",
			normalized, detected, network, network, strings.Join(PrefixesFor(network), ", "))
	}
	return normalized, nil
}
