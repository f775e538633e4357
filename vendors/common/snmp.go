package common

import "strconv"

// SNMPInvalidValue marks an offline/unreadable optical value. Huawei, V-SOL
// and several others return 0x7FFFFFFF when the ONU is dark.
const SNMPInvalidValue int64 = 2147483647

// ParseInt64 converts a collector string value, reporting failure instead of
// defaulting to zero (zero is meaningful for optical readings).
func ParseInt64(value string) (int64, bool) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DecodeHexSerial converts a hex-encoded ONU serial ("485754430011D168") to
// its readable form ("HWTC0011D168"). Already-readable serials pass through.
func DecodeHexSerial(serial string) string {
	if len(serial) != 16 {
		return serial
	}
	vendorID := make([]byte, 0, 4)
	for i := 0; i < 8; i += 2 {
		b, err := strconv.ParseUint(serial[i:i+2], 16, 8)
		if err != nil || b < 'A' || b > 'z' {
			return serial
		}
		vendorID = append(vendorID, byte(b))
	}
	return string(vendorID) + serial[8:]
}
