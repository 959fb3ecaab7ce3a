package valueobject

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used when a number is entered without an international prefix.
const DefaultRegion = "TN"

// ErrInvalidPhone is returned for numbers that do not parse or are not valid for the region.
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone parses raw in region and returns it in E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	if region == "" {
		region = DefaultRegion
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// IsValidPhone reports whether raw is a valid number for region.
func IsValidPhone(raw, region string) bool {
	_, err := NormalizePhone(raw, region)
	return err == nil
}
