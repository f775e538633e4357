package discovery

import (
	"fmt"
	"testing"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

func testRecords() []types.InterfaceRecord {
	return []types.InterfaceRecord{
		{IfIndex: 1, Name: "GigabitEthernet0/0/1", Descr: "GigabitEthernet0/0/1", Alias: "uplink-core"},
		{IfIndex: 2, Name: "GigabitEthernet0/0/2", Descr: "GigabitEthernet0/0/2", Alias: "customer-acme"},
		{IfIndex: 3, Name: "gpon 0/1/0", Descr: "GPON port 0/1/0", Alias: ""},
		{IfIndex: 4, Name: "gpon 0/1/1", Descr: "GPON port 0/1/1", Alias: ""},
	}
}

func TestFindByNameExact(t *testing.T) {
	records := testRecords()

	// Exact name, case-insensitive.
	match := FindByName(records, "gigabitethernet0/0/2", "", "")
	if match.Match == nil || match.Match.IfIndex != 2 {
		t.Fatalf("exact name match = %+v", match)
	}

	// Exact alias.
	match = FindByName(records, "", "", "uplink-core")
	if match.Match == nil || match.Match.IfIndex != 1 {
		t.Fatalf("exact alias match = %+v", match)
	}

	// An exact name hit beats a partial hit on another field even when both
	// queries are set.
	match = FindByName(records, "gpon 0/1/1", "GPON port", "")
	if match.Match == nil || match.Match.IfIndex != 4 {
		t.Fatalf("exact-over-partial = %+v", match)
	}
}

func TestFindByNamePartial(t *testing.T) {
	records := testRecords()

	// Unique partial match resolves.
	match := FindByName(records, "0/0/2", "", "")
	if match.Match == nil || match.Match.IfIndex != 2 {
		t.Fatalf("unique partial = %+v", match)
	}

	// Ambiguous partial match surfaces all hits, never a silent pick.
	match = FindByName(records, "gpon", "", "")
	if match.Match != nil {
		t.Fatalf("ambiguous partial resolved to %+v", match.Match)
	}
	if len(match.Candidates) != 2 {
		t.Fatalf("ambiguous partial candidates = %d, want 2", len(match.Candidates))
	}
}

func TestFindByNameMiss(t *testing.T) {
	var records []types.InterfaceRecord
	for i := 1; i <= 25; i++ {
		records = append(records, types.InterfaceRecord{IfIndex: i, Name: fmt.Sprintf("eth%d", i)})
	}

	match := FindByName(records, "xe-0/0/0", "", "")
	if match.Match != nil {
		t.Fatalf("miss resolved to %+v", match.Match)
	}
	if len(match.Candidates) != 10 {
		t.Fatalf("miss candidates = %d, want capped at 10", len(match.Candidates))
	}
}
