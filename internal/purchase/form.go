// Package purchase implements the purchase screen: the draft form, its
// validation rules, the mapping to an order request and the per-visit
// state machine that drives submission.
package purchase

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names one input of the purchase form.  The set is closed; the
// string values double as the keys used on the wire.
type Field string

const (
	FieldTicketID         Field = "ticketId"
	FieldCustomerName     Field = "customerName"
	FieldCustomerEmail    Field = "customerEmail"
	FieldCustomerPhone    Field = "customerPhone"
	FieldUseCustomPayment Field = "useCustomPayment"
	FieldCardNumber       Field = "customCardNumber"
	FieldCardHolder       Field = "customCardHolder"
	FieldCardExpiry       Field = "customCardExpiry"
)

var fields = map[Field]struct{}{
	FieldTicketID:         {},
	FieldCustomerName:     {},
	FieldCustomerEmail:    {},
	FieldCustomerPhone:    {},
	FieldUseCustomPayment: {},
	FieldCardNumber:       {},
	FieldCardHolder:       {},
	FieldCardExpiry:       {},
}

// ParseField maps a wire key to a Field.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	_, ok := fields[f]
	return f, ok
}

// Form is the mutable purchase draft for one checkout attempt.  The card
// fields only matter while UseCustomPayment is set.
type Form struct {
	TicketID         string `json:"ticketId"`
	CustomerName     string `json:"customerName"`
	CustomerEmail    string `json:"customerEmail"`
	CustomerPhone    string `json:"customerPhone"`
	UseCustomPayment bool   `json:"useCustomPayment"`
	CardNumber       string `json:"customCardNumber"`
	CardHolder       string `json:"customCardHolder"`
	CardExpiry       string `json:"customCardExpiry"`
}

// Set assigns value to field f.  The override flag accepts the usual
// boolean spellings; the card number and expiry are reformatted the way
// the input boxes display them.
func (f *Form) Set(field Field, value string) error {
	switch field {
	case FieldTicketID:
		f.TicketID = strings.TrimSpace(value)
	case FieldCustomerName:
		f.CustomerName = value
	case FieldCustomerEmail:
		f.CustomerEmail = value
	case FieldCustomerPhone:
		f.CustomerPhone = value
	case FieldUseCustomPayment:
		on, err := parseFlag(value)
		if err != nil {
			return err
		}
		f.UseCustomPayment = on
	case FieldCardNumber:
		f.CardNumber = FormatCardNumber(value)
	case FieldCardHolder:
		f.CardHolder = value
	case FieldCardExpiry:
		f.CardExpiry = FormatExpiry(value)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func parseFlag(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

// TicketRef parses the selected ticket id.  ok is false when nothing valid
// is selected.
func (f Form) TicketRef() (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(f.TicketID), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// FormatCardNumber keeps only digits and groups them in fours, as the card
// number box shows them ("1234 5678 9012 3456").  Input is capped at 16
// digits.
func FormatCardNumber(v string) string {
	digits := onlyDigits(v)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps only digits and inserts the slash after the month:
// "1225" becomes "12/25".
func FormatExpiry(v string) string {
	digits := onlyDigits(v)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

func onlyDigits(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FieldErrors maps a form field to the message describing its violation.
// It is recomputed wholesale by Validate.
type FieldErrors map[Field]string

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
