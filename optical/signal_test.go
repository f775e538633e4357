package optical

import (
	"testing"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/vendors/common"
)

func TestConversionApply(t *testing.T) {
	tests := []struct {
		name   string
		conv   Conversion
		raw    int64
		want   float64
		wantOK bool
	}{
		{
			name:   "centi dBm",
			conv:   Conversion{Divisor: 100},
			raw:    -2150,
			want:   -21.5,
			wantOK: true,
		},
		{
			name:   "deci dBm",
			conv:   Conversion{Divisor: 10},
			raw:    -185,
			want:   -18.5,
			wantOK: true,
		},
		{
			name:   "offset and divisor",
			conv:   Conversion{Divisor: 500, Offset: 15000},
			raw:    12345,
			want:   -5.31,
			wantOK: true,
		},
		{
			name:   "zero divisor passes through",
			conv:   Conversion{},
			raw:    -19,
			want:   -19,
			wantOK: true,
		},
		{
			name:   "invalid marker",
			conv:   Conversion{Divisor: 100},
			raw:    common.SNMPInvalidValue,
			wantOK: false,
		},
		{
			name:   "exact zero is offline",
			conv:   Conversion{Divisor: 100},
			raw:    0,
			wantOK: false,
		},
		{
			name:   "offset landing on zero is offline",
			conv:   Conversion{Divisor: 500, Offset: 15000},
			raw:    15000,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.conv.Apply(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Apply(%d) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Apply(%d) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormulaRegistryFallback(t *testing.T) {
	registry := NewFormulaRegistry(map[types.Vendor]IndexFormula{
		types.VendorZTE: func(c types.OnuCoordinates) string { return "zte-index" },
	})

	coords := types.OnuCoordinates{Slot: 2, Port: 7, OnuID: 31}

	if got := registry.ComputeIndex(types.VendorZTE, coords); got != "zte-index" {
		t.Errorf("ComputeIndex(zte) = %q", got)
	}
	// Unknown vendors fall back to the dotted generic form.
	if got := registry.ComputeIndex("acme", coords); got != "2.7.31" {
		t.Errorf("ComputeIndex(acme) = %q, want 2.7.31", got)
	}
	if registry.Known("acme") {
		t.Error("Known(acme) = true, want false")
	}
	if !registry.Known("ZTE") {
		t.Error("Known(ZTE) = false, vendor lookup should be case-insensitive")
	}
}
