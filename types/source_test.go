package types

import "testing"

func TestNormalizeAlarmSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "zte olt spelling",
			input: "gpon-olt_1/1/3:116",
			want:  "1/1/3/116",
		},
		{
			name:  "zte onu spelling",
			input: "gpon-onu_1/1/3:116",
			want:  "1/1/3/116",
		},
		{
			name:  "dotted index",
			input: "1/1/3.116",
			want:  "1/1/3/116",
		},
		{
			name:  "already canonical",
			input: "1/1/3/116",
			want:  "1/1/3/116",
		},
		{
			name:  "uppercase with spaces",
			input: "  GPON-OLT_1/2/8:42  ",
			want:  "1/2/8/42",
		},
		{
			name:  "space separated prefix",
			input: "pon 1/3:21",
			want:  "1/3/21",
		},
		{
			name:  "double separators collapse",
			input: "1//3:21",
			want:  "1/3/21",
		},
		{
			name:  "trailing separator trimmed",
			input: "1/1/3:",
			want:  "1/1/3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAlarmSource(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeAlarmSource(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Normalization must be idempotent.
			if again := NormalizeAlarmSource(got); again != got {
				t.Errorf("not idempotent: NormalizeAlarmSource(%q) = %q", got, again)
			}
		})
	}
}

func TestNormalizeVendor(t *testing.T) {
	if got := NormalizeVendor(" ZTE "); got != VendorZTE {
		t.Errorf("NormalizeVendor( ZTE ) = %q, want %q", got, VendorZTE)
	}
	if got := NormalizeVendor("Huawei"); got != VendorHuawei {
		t.Errorf("NormalizeVendor(Huawei) = %q, want %q", got, VendorHuawei)
	}
}

func TestStatusFromCode(t *testing.T) {
	if got := AdminStatusFromCode(1); got != AdminUp {
		t.Errorf("AdminStatusFromCode(1) = %q", got)
	}
	if got := AdminStatusFromCode(99); got != AdminTesting {
		t.Errorf("AdminStatusFromCode(99) = %q, want testing", got)
	}
	if got := OperStatusFromCode(7); got != OperLowerLayerDown {
		t.Errorf("OperStatusFromCode(7) = %q", got)
	}
	if got := OperStatusFromCode(99); got != OperUnknown {
		t.Errorf("OperStatusFromCode(99) = %q, want unknown", got)
	}
}

func TestDeviceProfileDefaults(t *testing.T) {
	tests := []struct {
		name     string
		profile  DeviceProfile
		wantPort int
	}{
		{name: "snmp default", profile: DeviceProfile{Transport: TransportSNMPv2c}, wantPort: 161},
		{name: "ssh default", profile: DeviceProfile{Transport: TransportSSH}, wantPort: 22},
		{name: "telnet default", profile: DeviceProfile{Transport: TransportTelnet}, wantPort: 23},
		{name: "explicit override", profile: DeviceProfile{Transport: TransportSSH, Port: 2222}, wantPort: 2222},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.EffectivePort(); got != tt.wantPort {
				t.Errorf("EffectivePort() = %d, want %d", got, tt.wantPort)
			}
		})
	}
}
