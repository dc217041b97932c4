package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize rewrites a locally formatted Ghanaian phone number into the
// international digit string Paystack and Arkesel expect: all whitespace
// stripped, no leading "+", and the national trunk "0" replaced by "233".
//
// The function is a pure rewrite rule, not a validator: malformed input
// passes through unchanged apart from the rewrites above. It is idempotent,
// so normalizing an already normalized number is a no-op.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()

	out = strings.TrimPrefix(out, "+")
	if strings.HasPrefix(out, "0") {
		out = "233" + out[1:]
	}
	return out
}

// LikelyValid reports whether a normalized number parses as a valid phone
// number. It is advisory only: callers log a warning for implausible numbers
// but never reject them, since the SMS provider is the real authority.
func LikelyValid(normalized string) bool {
	num, err := phonenumbers.Parse("+"+normalized, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// IsGhanaMobile reports whether a normalized number is a valid Ghanaian
// mobile number, the only kind that can receive voucher SMS.
func IsGhanaMobile(normalized string) bool {
	num, err := phonenumbers.Parse("+"+normalized, "")
	if err != nil {
		return false
	}
	if !phonenumbers.IsValidNumberForRegion(num, "GH") {
		return false
	}
	t := phonenumbers.GetNumberType(num)
	return t == phonenumbers.MOBILE || t == phonenumbers.FIXED_LINE_OR_MOBILE
}
