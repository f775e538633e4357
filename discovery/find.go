package discovery

import (
	"strings"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// maxCandidates caps the list handed back for manual operator resolution.
const maxCandidates = 10

// FindByName resolves an interface from operator-supplied identifiers.
// Precedence: exact name, exact alias, exact description, then unique
// partial matches in the same order. An ambiguous partial match is never
// silently resolved; the candidates come back instead so the operator can
// pick. All matching is case-insensitive.
func FindByName(records []types.InterfaceRecord, name, descr, alias string) types.InterfaceMatch {
	name = strings.ToLower(strings.TrimSpace(name))
	descr = strings.ToLower(strings.TrimSpace(descr))
	alias = strings.ToLower(strings.TrimSpace(alias))

	type accessor struct {
		query string
		field func(*types.InterfaceRecord) string
	}
	accessors := []accessor{
		{name, func(r *types.InterfaceRecord) string { return r.Name }},
		{alias, func(r *types.InterfaceRecord) string { return r.Alias }},
		{descr, func(r *types.InterfaceRecord) string { return r.Descr }},
	}

	// Exact passes first: an exact name hit always beats any partial match
	// on another field.
	for _, a := range accessors {
		if a.query == "" {
			continue
		}
		for i := range records {
			if strings.ToLower(a.field(&records[i])) == a.query {
				return types.InterfaceMatch{Match: &records[i]}
			}
		}
	}

	var partialNameHits []types.InterfaceRecord
	for _, a := range accessors {
		if a.query == "" {
			continue
		}
		var hits []types.InterfaceRecord
		for i := range records {
			if strings.Contains(strings.ToLower(a.field(&records[i])), a.query) {
				hits = append(hits, records[i])
			}
		}
		if len(hits) == 1 {
			match := hits[0]
			return types.InterfaceMatch{Match: &match}
		}
		if partialNameHits == nil && len(hits) > 1 {
			partialNameHits = hits
		}
	}

	// Not found or ambiguous: surface candidates for the operator. All
	// partial-name hits are shown when they exist, otherwise the first few
	// table rows give the operator something to orient by.
	if partialNameHits != nil {
		return types.InterfaceMatch{Candidates: partialNameHits}
	}
	candidates := records
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return types.InterfaceMatch{Candidates: candidates}
}
