package handler

import (
	netmail "net/mail"
)

// rule pairs a constraint with the message reported when it is violated.
// Rules are listed in request-field order and evaluated top to bottom; the
// response carries only the first violated rule's message.
type rule struct {
	ok  bool
	msg string
}

// firstViolation returns the message of the first violated rule, or the
// empty string when every rule holds.
func firstViolation(rules []rule) string {
	for _, r := range rules {
		if !r.ok {
			return r.msg
		}
	}
	return ""
}

// validEmail accepts bare addresses only. ParseAddress also permits
// name-addr forms like "Alice <a@x.com>"; requiring the parsed address to
// round-trip to the input rejects those.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := netmail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// emailRules is the shared required+format pair applied to every
// email-keyed request.
func emailRules(email string) []rule {
	return []rule{
		{email != "", "The email field is required."},
		{validEmail(email), "The email field must be a valid email address."},
	}
}
