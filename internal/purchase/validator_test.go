package purchase

import (
	"reflect"
	"testing"
)

func validForm() Form {
	return Form{
		TicketID:      "11",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(f *Form)
		want FieldErrors
	}{
		{"valid", func(f *Form) {}, FieldErrors{}},
		{"blank name", func(f *Form) { f.CustomerName = "   " }, FieldErrors{FieldCustomerName: "Name is required"}},
		{"missing email", func(f *Form) { f.CustomerEmail = "" }, FieldErrors{FieldCustomerEmail: "Email is required"}},
		{"malformed email", func(f *Form) { f.CustomerEmail = "ada@example" }, FieldErrors{FieldCustomerEmail: "Email is invalid"}},
		{"no ticket", func(f *Form) { f.TicketID = "" }, FieldErrors{FieldTicketID: "Please select a ticket"}},
		{"override without card", func(f *Form) { f.UseCustomPayment = true }, FieldErrors{
			FieldCardNumber: "Card number is required",
			FieldCardHolder: "Card holder name is required",
			FieldCardExpiry: "Expiry date is required",
		}},
		{"short card and bad expiry", func(f *Form) {
			f.UseCustomPayment = true
			f.CardNumber = "1234 5678 9012 345"
			f.CardHolder = "Ada"
			f.CardExpiry = "1225"
		}, FieldErrors{
			FieldCardNumber: "Card number must be 16 digits",
			FieldCardExpiry: "Format must be MM/YY",
		}},
		{"valid override", func(f *Form) {
			f.UseCustomPayment = true
			f.CardNumber = "1234 5678 9012 3456"
			f.CardHolder = "Ada"
			f.CardExpiry = "12/25"
		}, FieldErrors{}},
		{"impossible month passes", func(f *Form) {
			f.UseCustomPayment = true
			f.CardNumber = "1234567890123456"
			f.CardHolder = "Ada"
			f.CardExpiry = "13/99"
		}, FieldErrors{}},
		{"card fields ignored without override", func(f *Form) {
			f.CardNumber = "12"
			f.CardExpiry = "x"
		}, FieldErrors{}},
		{"everything wrong", func(f *Form) { *f = Form{} }, FieldErrors{
			FieldCustomerName:  "Name is required",
			FieldCustomerEmail: "Email is required",
			FieldTicketID:      "Please select a ticket",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)
			got := Validate(f)
			if len(got) != len(tt.want) {
				t.Fatalf("Validate = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s: got %q, want %q", k, got[k], v)
				}
			}
			if Submittable(f) != (len(tt.want) == 0) {
				t.Errorf("Submittable disagrees with Validate")
			}
		})
	}
}

func TestValidateNeverChecksCardsWithoutOverride(t *testing.T) {
	for _, tc := range []Form{
		{CardNumber: "abc"},
		{CardHolder: ""},
		{CardExpiry: "2025-12"},
		{CardNumber: "1", CardHolder: "", CardExpiry: "1/1"},
	} {
		errs := Validate(tc)
		for _, f := range []Field{FieldCardNumber, FieldCardHolder, FieldCardExpiry} {
			if _, ok := errs[f]; ok {
				t.Errorf("Validate(%+v) reported %s", tc, f)
			}
		}
	}
}

func TestValidateIgnoresCardSeparators(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"grouped by four", "1234 5678 9012 3456", true},
		{"tabs", "1234\t5678\t9012\t3456", true},
		{"mixed grouping", " 12 345678  9012345 6", true},
		{"newline", "12345678\n90123456", true},
		{"plain", "1234567890123456", true},
		{"fifteen grouped", "1234 5678 9012 345", false},
		{"seventeen grouped", "1234 5678 9012 3456 7", false},
		{"letters grouped", "1234 5678 9012 34ab", false},
		{"only spaces", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validForm()
			raw.UseCustomPayment = true
			raw.CardHolder = "Ada"
			raw.CardExpiry = "12/25"
			raw.CardNumber = tt.number
			stripped := raw
			stripped.CardNumber = StripSpaces(tt.number)

			got, want := Validate(raw), Validate(stripped)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Validate(%q) = %v, Validate(%q) = %v", raw.CardNumber, got, stripped.CardNumber, want)
			}
			if _, bad := got[FieldCardNumber]; bad == tt.valid {
				t.Errorf("card number %q valid = %v, want %v", tt.number, !bad, tt.valid)
			}
		})
	}
}

func TestStripSpaces(t *testing.T) {
	if got := StripSpaces(" 1234 5678\t9012\n3456 "); got != "1234567890123456" {
		t.Errorf("StripSpaces = %q", got)
	}
}
