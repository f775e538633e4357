package zte

import (
	"testing"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/diagnosis"
	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

func linkData(shelf, slot, port, onuID int) diagnosis.LinkData {
	return diagnosis.LinkData{
		Coords: types.OnuCoordinates{Shelf: shelf, Slot: slot, Port: port, OnuID: onuID},
	}
}

func TestIndexFormula(t *testing.T) {
	tests := []struct {
		name   string
		coords types.OnuCoordinates
		want   string
	}{
		{name: "slot 1 port 1 onu 5", coords: types.OnuCoordinates{Slot: 1, Port: 1, OnuID: 5}, want: "32769.5"},
		{name: "slot 2 port 3 onu 17", coords: types.OnuCoordinates{Slot: 2, Port: 3, OnuID: 17}, want: "65539.17"},
		{name: "onu zero", coords: types.OnuCoordinates{Slot: 1, Port: 2, OnuID: 0}, want: "32770.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndexFormula(tt.coords); got != tt.want {
				t.Errorf("IndexFormula(%+v) = %q, want %q", tt.coords, got, tt.want)
			}
		})
	}
}

const alarmFixture = `ZXAN#show alarm active
Date       Time      Severity  State   Source              Code  Description
---------- --------- --------- ------- ------------------- ----- -----------
2024-06-01 10:22:01  CRITICAL  Active  gpon-olt_1/1/3:116  LOS   Loss of signal
2024-06-01 09:15:44  MAJOR     Active  gpon-olt_1/2/8:42   DGI   Dying gasp received
2024-05-31 23:01:02  MINOR     Cleared gpon-olt_1/1/3:20   SDI   Signal degraded
ZXAN#`

func TestParseAlarms(t *testing.T) {
	alarms := ParseAlarms(alarmFixture)

	if len(alarms) != 3 {
		t.Fatalf("got %d alarms, want 3", len(alarms))
	}

	first := alarms[0]
	if first.Source != "gpon-olt_1/1/3:116" {
		t.Errorf("Source = %q", first.Source)
	}
	if first.Name != "LOS" || first.Status != types.AlarmActive {
		t.Errorf("Name/Status = %q/%q", first.Name, first.Status)
	}
	if first.Severity != "CRITICAL" {
		t.Errorf("Severity = %q", first.Severity)
	}
	if first.Description != "Loss of signal" {
		t.Errorf("Description = %q", first.Description)
	}
	if first.Raw == "" {
		t.Error("Raw not preserved")
	}
	if first.Timestamp.IsZero() {
		t.Error("Timestamp not parsed")
	}

	if alarms[2].Status != types.AlarmCleared {
		t.Errorf("alarms[2].Status = %q", alarms[2].Status)
	}
}

func TestParseSearch(t *testing.T) {
	raw := "SearchResult: gpon-onu_1/2/3:45\nAdmin state: enable\n"

	hits := ParseSearch(raw)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	want := types.OnuCoordinates{Shelf: 1, Slot: 2, Port: 3, OnuID: 45}
	if hits[0].Coords != want {
		t.Errorf("Coords = %+v, want %+v", hits[0].Coords, want)
	}

	if hits := ParseSearch("%Error: No related information to show\n"); len(hits) != 0 {
		t.Errorf("miss produced %d hits", len(hits))
	}
}

func TestConfigDefaultKey(t *testing.T) {
	config := Config()

	key := config.DefaultKey(linkData(1, 1, 3, 116))
	if key != "gpon-onu_1/1/3:116" {
		t.Errorf("DefaultKey = %q", key)
	}

	// The key must normalize to the same canonical form as alarm sources.
	if types.NormalizeAlarmSource(key) != types.NormalizeAlarmSource("gpon-olt_1/1/3:116") {
		t.Errorf("key %q does not line up with alarm sources", key)
	}
}
