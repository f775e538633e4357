package discovery

import "testing"

func TestClassifySensor(t *testing.T) {
	tests := []struct {
		name   string
		sensor string
		want   string
	}{
		{name: "receive power", sensor: "Ethernet1/1 Receive Power Sensor", want: "rx"},
		{name: "transmit power", sensor: "Ethernet1/1 Transmit Power Sensor", want: "tx"},
		{name: "temperature", sensor: "Ethernet1/1 Temperature Sensor", want: "temp"},
		{name: "not a sensor", sensor: "Ethernet1/1 Bias Current Sensor", want: ""},
		{name: "chassis component", sensor: "Chassis Fan Tray 1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySensor(tt.sensor); got != tt.want {
				t.Errorf("classifySensor(%q) = %q, want %q", tt.sensor, got, tt.want)
			}
		})
	}
}

func TestLanePattern(t *testing.T) {
	m := laneRE.FindStringSubmatch("Ethernet1/49 Lane 3 Receive Power Sensor")
	if m == nil || m[1] != "3" {
		t.Fatalf("lane match = %v", m)
	}
	if laneRE.MatchString("Ethernet1/49 Receive Power Sensor") {
		t.Error("lane pattern matched a non-breakout sensor")
	}
}
