package validation

import (
	"strings"
	"testing"
)

func TestIsValidZipCode(t *testing.T) {
	tests := []struct {
		name  string
		zip   string
		valid bool
	}{
		{name: "five digits", zip: "12345", valid: true},
		{name: "zip plus four", zip: "12345-6789", valid: true},
		{name: "too short", zip: "1234", valid: false},
		{name: "letters", zip: "12a45", valid: false},
		{name: "bad suffix", zip: "12345-67", valid: false},
		{name: "empty string", zip: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidZipCode(tt.zip)
			if got != tt.valid {
				t.Fatalf("IsValidZipCode(%q) = %v, want %v", tt.zip, got, tt.valid)
			}
		})
	}
}

func TestIsValidTelephone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{phone: "+11234567890", valid: true},
		{phone: "1234567890", valid: true},
		{phone: "123456789", valid: false},
		{phone: "+1-234-567-890", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			got := IsValidTelephone(tt.phone)
			if got != tt.valid {
				t.Fatalf("IsValidTelephone(%q) = %v, want %v", tt.phone, got, tt.valid)
			}
		})
	}
}

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Zip   string `json:"zip_code" validate:"required,zipcode"`
	State string `json:"state" validate:"required,len=2"`
	Kind  string `json:"order_type" validate:"required,oneof=in_store online"`
}

func TestStruct(t *testing.T) {
	if err := Struct(sample{Email: "a@b.co", Zip: "12345", State: "NY", Kind: "online"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Struct(sample{Email: "nope", Zip: "1", State: "NYC", Kind: "mail"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, field := range []string{"email", "zip_code", "state", "order_type"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q does not mention %s", err, field)
		}
	}
}
