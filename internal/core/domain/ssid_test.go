package domain

import "testing"

func TestDecodeSSID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"HomeNetwork", "HomeNetwork"},
		{"  Office  ", "  Office  "},
		{"Office", "Office"},
		{` Caf\xc3\xa9 `, " Café "},
		{`\xd0\x94\xd0\xbe\xd0\xbc`, "Дом"},
		{`Caf\xc3\xa9 Guest`, "Café Guest"},
		{`bad\xzz`, `bad\xzz`},
		{`\xff\xfe`, `\xff\xfe`},
		{`trailing\x4`, `trailing\x4`},
	}

	for _, tt := range tests {
		if got := DecodeSSID(tt.raw); got != tt.want {
			t.Errorf("DecodeSSID(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
