package outlit

import (
	"regexp"
	"strings"
)

// defaultFieldDenylist matches form field names that must never be
// captured, regardless of configuration.
var defaultFieldDenylist = []string{
	"password", "passwd", "pwd",
	"secret", "token", "apikey", "api_key",
	"card", "cardnumber", "card_number", "cvv", "cvc", "expiry",
	"ssn", "social_security",
	"auth", "credential",
}

// cardlikeValue matches values that look like payment card numbers.
var cardlikeValue = regexp.MustCompile(`^[\d\s-]{12,23}$`)

// RedactFormFields is the pure, stateless filter applied to captured form
// fields before a form event is built. Fields whose name matches the
// built-in or configured denylist (case-insensitive substring match), or
// whose value looks like a card number, are dropped entirely rather than
// masked. Returns nil when nothing survives.
func RedactFormFields(fields map[string]string, denylist []string) map[string]string {
	if len(fields) == 0 {
		return nil
	}

	retained := make(map[string]string, len(fields))
	for name, value := range fields {
		if deniedFieldName(name, denylist) {
			continue
		}
		if cardlikeValue.MatchString(value) {
			continue
		}
		retained[name] = value
	}
	if len(retained) == 0 {
		return nil
	}
	return retained
}

func deniedFieldName(name string, denylist []string) bool {
	lower := strings.ToLower(name)
	for _, denied := range defaultFieldDenylist {
		if strings.Contains(lower, denied) {
			return true
		}
	}
	for _, denied := range denylist {
		if denied != "" && strings.Contains(lower, strings.ToLower(denied)) {
			return true
		}
	}
	return false
}
