package purchase

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern      = regexp.MustCompile(`\S+@\S+\.\S+`)
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// Validate checks every rule independently and reports all violations at
// once.  Card fields are only examined while the override flag is set.
func Validate(f Form) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.CustomerName) == "" {
		errs[FieldCustomerName] = "Name is required"
	}
	switch {
	case strings.TrimSpace(f.CustomerEmail) == "":
		errs[FieldCustomerEmail] = "Email is required"
	case !emailPattern.MatchString(f.CustomerEmail):
		errs[FieldCustomerEmail] = "Email is invalid"
	}
	if _, ok := f.TicketRef(); !ok {
		errs[FieldTicketID] = "Please select a ticket"
	}

	if f.UseCustomPayment {
		switch {
		case strings.TrimSpace(f.CardNumber) == "":
			errs[FieldCardNumber] = "Card number is required"
		case !cardNumberPattern.MatchString(StripSpaces(f.CardNumber)):
			errs[FieldCardNumber] = "Card number must be 16 digits"
		}
		if strings.TrimSpace(f.CardHolder) == "" {
			errs[FieldCardHolder] = "Card holder name is required"
		}
		switch {
		case strings.TrimSpace(f.CardExpiry) == "":
			errs[FieldCardExpiry] = "Expiry date is required"
		case !expiryPattern.MatchString(f.CardExpiry):
			errs[FieldCardExpiry] = "Format must be MM/YY"
		}
	}
	return errs
}

// Submittable reports whether f passes every rule.
func Submittable(f Form) bool {
	return len(Validate(f)) == 0
}

// StripSpaces removes all whitespace from s.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
