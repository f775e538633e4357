package huawei

import (
	"testing"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

func TestIndexFormula(t *testing.T) {
	coords := types.OnuCoordinates{Slot: 1, Port: 3, OnuID: 116}
	if got, want := IndexFormula(coords), "4194312960.116"; got != want {
		t.Errorf("IndexFormula(%+v) = %q, want %q", coords, got, want)
	}
}

const alarmFixture = `MA5800-X7#display alarm active all
ALARM 1234 FAULT MAJOR 2024-06-01 10:22:01
ALARM NAME : LOS
PARAMETERS : FrameID: 0, SlotID: 1, PortID: 3, ONTID: 116
DESCRIPTION: The loss of signal occurs
---------------------------------------------------------
ALARM 1235 FAULT CRITICAL 2024-06-01 10:25:30
ALARM NAME : Dying Gasp
PARAMETERS : FrameID: 0, SlotID: 2, PortID: 8, ONTID: 42
MA5800-X7#`

func TestParseAlarms(t *testing.T) {
	alarms := ParseAlarms(alarmFixture)

	if len(alarms) != 2 {
		t.Fatalf("got %d alarms, want 2", len(alarms))
	}

	first := alarms[0]
	if first.Name != "LOS" || first.Severity != "MAJOR" {
		t.Errorf("first = %+v", first)
	}
	if first.Source != "0/1/3:116" {
		t.Errorf("first.Source = %q", first.Source)
	}
	if first.Status != types.AlarmActive {
		t.Errorf("first.Status = %q", first.Status)
	}

	second := alarms[1]
	if second.Name != "DYING GASP" || second.Source != "0/2/8:42" {
		t.Errorf("second = %+v", second)
	}
}

const ontInfoFixture = `MA5800-X7(config)#display ont info by-sn 48575443AB120815
  -----------------------------------------------------------------------------
  F/S/P               : 0/1/3
  ONT-ID              : 116
  Control flag        : active
  Run state           : offline
  Last down cause     : dying-gasp
  Last down time      : 2024-06-01 10:25:28
  -----------------------------------------------------------------------------
MA5800-X7(config)#`

func TestParseOntDiag(t *testing.T) {
	records := ParseOntDiag(ontInfoFixture)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Name != "DYING-GASP" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Source != "0/1/3:116" {
		t.Errorf("Source = %q", r.Source)
	}
	if r.Status != types.AlarmActive {
		t.Errorf("Status = %q", r.Status)
	}

	if records := ParseOntDiag("The required ONT does not exist\n"); records != nil {
		t.Errorf("miss produced %d records", len(records))
	}
}

func TestParseSearch(t *testing.T) {
	hits := ParseSearch(ontInfoFixture)

	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	want := types.OnuCoordinates{Shelf: 0, Slot: 1, Port: 3, OnuID: 116}
	if hits[0].Coords != want {
		t.Errorf("Coords = %+v, want %+v", hits[0].Coords, want)
	}
	if hits[0].LastDownReason != "GPON_DYING_GASP" {
		t.Errorf("LastDownReason = %q", hits[0].LastDownReason)
	}
}
