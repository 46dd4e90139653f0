package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeSSID turns an SSID as printed by scan tools, where non-printable
// bytes are escaped as \xNN, back into its UTF-8 form. Input without escapes,
// or whose decoded bytes are not valid UTF-8, is returned unchanged.
// Surrounding spaces are part of the SSID and are kept.
func DecodeSSID(raw string) string {
	if !strings.Contains(strings.TrimSpace(raw), `\x`) {
		return raw
	}
	s := raw

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) && s[i+1] == 'x' {
			if b, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				out = append(out, byte(b))
				i += 3
				continue
			}
		}
		out = append(out, s[i])
	}

	if !utf8.Valid(out) {
		return s
	}
	return string(out)
}
