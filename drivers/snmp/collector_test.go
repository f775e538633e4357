package snmp

import (
	"testing"

	"github.com/gosnmp/gosnmp"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name   string
		pdu    gosnmp.SnmpPDU
		want   string
		wantOK bool
	}{
		{
			name:   "octet string",
			pdu:    gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("GigabitEthernet0/0/1")},
			want:   "GigabitEthernet0/0/1",
			wantOK: true,
		},
		{
			name:   "integer",
			pdu:    gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: -2150},
			want:   "-2150",
			wantOK: true,
		},
		{
			name:   "gauge",
			pdu:    gosnmp.SnmpPDU{Type: gosnmp.Gauge32, Value: uint(100000)},
			want:   "100000",
			wantOK: true,
		},
		{
			name:   "no such instance",
			pdu:    gosnmp.SnmpPDU{Type: gosnmp.NoSuchInstance},
			wantOK: false,
		},
		{
			name:   "end of mib view",
			pdu:    gosnmp.SnmpPDU{Type: gosnmp.EndOfMibView},
			wantOK: false,
		},
		{
			name:   "null",
			pdu:    gosnmp.SnmpPDU{Type: gosnmp.Null},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeValue(tt.pdu)
			if ok != tt.wantOK {
				t.Fatalf("DecodeValue() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DecodeValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexFromOID(t *testing.T) {
	tests := []struct {
		name   string
		oid    string
		base   string
		want   int
		wantOK bool
	}{
		{
			name:   "simple instance",
			oid:    "1.3.6.1.2.1.2.2.1.2.42",
			base:   "1.3.6.1.2.1.2.2.1.2",
			want:   42,
			wantOK: true,
		},
		{
			name:   "leading dot",
			oid:    ".1.3.6.1.2.1.2.2.1.2.7",
			base:   "1.3.6.1.2.1.2.2.1.2",
			want:   7,
			wantOK: true,
		},
		{
			name:   "multi part instance keeps last",
			oid:    "1.3.6.1.4.1.3902.1082.500.20.2.2.2.1.10.32769.5",
			base:   "1.3.6.1.4.1.3902.1082.500.20.2.2.2.1.10",
			want:   5,
			wantOK: true,
		},
		{
			name:   "no instance",
			oid:    "1.3.6.1.2.1.2.2.1.2",
			base:   "1.3.6.1.2.1.2.2.1.2",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := indexFromOID(tt.oid, tt.base)
			if ok != tt.wantOK {
				t.Fatalf("indexFromOID(%q) ok = %v, want %v", tt.oid, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("indexFromOID(%q) = %d, want %d", tt.oid, got, tt.want)
			}
		})
	}
}
