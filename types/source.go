package types

import (
	"strings"
)

// NormalizeAlarmSource reduces the vendor spellings of an ONU address to one
// canonical slash-separated form so alarm sources and query identifiers can
// be compared. Inputs like "gpon-olt_1/1/3:116", "gpon-onu_1/1/3:116",
// "1/1/3:116" and "1/1/3/116" all normalize to "1/1/3/116". The function is
// idempotent: normalizing an already-normalized value is a no-op.
func NormalizeAlarmSource(source string) string {
	s := strings.TrimSpace(strings.ToLower(source))
	if s == "" {
		return ""
	}

	// Drop vendor-specific prefixes such as "gpon-olt_" and "gpon_onu:".
	if i := strings.LastIndexAny(s, "_ "); i >= 0 {
		s = s[i+1:]
	}

	// Vendors mix ':' and '.' as the port/onu separator.
	s = strings.ReplaceAll(s, ":", "/")
	s = strings.ReplaceAll(s, ".", "/")

	// Collapse accidental double separators and trim the edges.
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return strings.Trim(s, "/")
}

// NormalizeVendor lowercases and trims a vendor identifier for registry
// lookups.
func NormalizeVendor(v Vendor) Vendor {
	return Vendor(strings.ToLower(strings.TrimSpace(string(v))))
}
