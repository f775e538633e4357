package optical

import "testing"

func TestParsePortString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		slot    int
		module  int
		port    int
		wantErr bool
	}{
		{name: "three parts", input: "3/2/5", slot: 3, module: 2, port: 5},
		{name: "two parts default module", input: "1/24", slot: 1, module: 0, port: 24},
		{name: "surrounding whitespace", input: " 1 / 2 / 3 ", slot: 1, module: 2, port: 3},
		{name: "one part", input: "5", wantErr: true},
		{name: "four parts", input: "1/2/3/4", wantErr: true},
		{name: "non numeric", input: "a/b/c", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, module, port, err := ParsePortString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePortString(%q) = %d/%d/%d, want error", tt.input, slot, module, port)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePortString(%q): %v", tt.input, err)
			}
			if slot != tt.slot || module != tt.module || port != tt.port {
				t.Errorf("ParsePortString(%q) = %d/%d/%d, want %d/%d/%d",
					tt.input, slot, module, port, tt.slot, tt.module, tt.port)
			}
		})
	}
}

func TestPortTemplateResolve(t *testing.T) {
	template := PortTemplate{
		RxPowerOID: "1.3.6.1.4.1.9.9.91.1.1.1.1.4.{portIndex}",
		TxPowerOID: "1.3.6.1.4.1.9.9.91.1.1.1.1.5.{ifIndex}",
		IndexExpr:  "(slot-1)*64 + (module-1)*16 + port",
	}

	oid, err := template.resolve(template.RxPowerOID, "3/2/5", 0)
	if err != nil {
		t.Fatalf("resolve rx: %v", err)
	}
	if want := "1.3.6.1.4.1.9.9.91.1.1.1.1.4.149"; oid != want {
		t.Errorf("resolve rx = %q, want %q", oid, want)
	}

	oid, err = template.resolve(template.TxPowerOID, "3/2/5", 10101)
	if err != nil {
		t.Fatalf("resolve tx: %v", err)
	}
	if want := "1.3.6.1.4.1.9.9.91.1.1.1.1.5.10101"; oid != want {
		t.Errorf("resolve tx = %q, want %q", oid, want)
	}

	// An empty template means the metric is not exposed.
	oid, err = template.resolve("", "3/2/5", 0)
	if err != nil || oid != "" {
		t.Errorf("resolve empty = %q, %v", oid, err)
	}

	// Bad port references surface instead of producing a bogus OID.
	if _, err := template.resolve(template.RxPowerOID, "not-a-port", 0); err == nil {
		t.Error("resolve with bad port reference should fail")
	}
}
