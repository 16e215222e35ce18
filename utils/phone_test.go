package utils

import (
	"strings"
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0241234567", "0241234567", false},
		{"233241234567", "0241234567", false},
		{"+233 24 123 4567", "0241234567", false},
		{"024-123-4567", "0241234567", false},
		{"241234567", "0241234567", false},
		{"02412345", "", true},      // too short
		{"02412345678", "", true},   // too long
		{"not a number", "", true},  // no digits
		{"", "", true},
	}

	for _, c := range cases {
		got, err := NormalizePhoneNumber(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("NormalizePhoneNumber(%q) = %q, want error", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePhoneNumber(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDetectNetwork(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0241234567", NetworkMTN, true},
		{"0551234567", NetworkMTN, true},
		{"0591234567", NetworkMTN, true},
		{"0201234567", NetworkTelecel, true},
		{"0501234567", NetworkTelecel, true},
		{"0261234567", NetworkAirtelTigo, true},
		{"0571234567", NetworkAirtelTigo, true},
		{"233541234567", NetworkMTN, true}, // country code form
		{"0991234567", "", false},          // unknown prefix
		{"024123", "", false},              // invalid number
	}

	for _, c := range cases {
		got, ok := DetectNetwork(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("DetectNetwork(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestValidateNetworkForBundle(t *testing.T) {
	normalized, err := ValidateNetworkForBundle("+233551234567", NetworkMTN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if normalized != "0551234567" {
		t.Fatalf("normalized = %q, want 0551234567", normalized)
	}
}

func TestValidateNetworkForBundleWrongCarrier(t *testing.T) {
	_, err := ValidateNetworkForBundle("0241234567", NetworkTelecel)
	if err == nil {
		t.Fatal("expected error for MTN number on Telecel bundle")
	}
	msg := err.Error()
	if !strings.Contains(msg, NetworkMTN) || !strings.Contains(msg, NetworkTelecel) {
		t.Errorf("error should name both carriers, got %q", msg)
	}
	if !strings.Contains(msg, "020") || !strings.Contains(msg, "050") {
		t.Errorf("error should list the valid Telecel prefixes, got %q", msg)
	}
}

func TestValidateNetworkForBundleUnknownPrefix(t *testing.T) {
	_, err := ValidateNetworkForBundle("0991234567", NetworkMTN)
	if err == nil {
		t.Fatal("expected error for unknown prefix")
	}
	if !strings.Contains(err.Error(), "024") {
		t.Errorf("error should list valid MTN prefixes, got %q", err.Error())
	}
}
