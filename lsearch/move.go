package lsearch

import (
	"github.com/lvlath-vrp/alns/problem"
)

// Move is the contract every local-search operator exposes: its exact
// effect on the soft score, whether committing it would leave the
// route(s) feasible, how to commit it, and which routes it touches.
type Move interface {
	Delta() float64
	IsValid() bool
	Apply() error
	UpdatedRoutes() []problem.RouteIdx
}

// reverseInclusive returns ids[from..=to] reversed, matching 2-Opt's
// `reverse activities[from..=to]` wording exactly (from<=to required).
func reverseInclusive(ids []problem.ActivityID, from, to int) []problem.ActivityID {
	seg := append([]problem.ActivityID(nil), ids[from:to+1]...)
	for i, j := 0, len(seg)-1; i < j; i, j = i+1, j-1 {
		seg[i], seg[j] = seg[j], seg[i]
	}

	return seg
}

// moveSegment relocates ids[segStart:segStart+segLen) so it immediately
// precedes whatever activity originally sat at destPos (or appends at
// the end when destPos >= len(ids)), mirroring routestate.State.Move's
// original-indexing contract generalized from a single activity to a
// contiguous chain (Or-Opt's "move a segment to position N").
func moveSegment(ids []problem.ActivityID, segStart, segLen, destPos int) []problem.ActivityID {
	seg := append([]problem.ActivityID(nil), ids[segStart:segStart+segLen]...)
	rest := make([]problem.ActivityID, 0, len(ids)-segLen)
	rest = append(rest, ids[:segStart]...)
	rest = append(rest, ids[segStart+segLen:]...)

	insertAt := len(rest)
	if destPos < len(ids) {
		target := ids[destPos]
		for i, a := range rest {
			if a == target {
				insertAt = i

				break
			}
		}
	}

	out := make([]problem.ActivityID, 0, len(ids))
	out = append(out, rest[:insertAt]...)
	out = append(out, seg...)
	out = append(out, rest[insertAt:]...)

	return out
}

// fullCandidate reconstructs the whole would-be activity sequence from
// a partial-range edit, the same way routestate.IsValidChange does
// internally, so callers needing a full-array check (shipment
// ordering) don't duplicate the edited range computation.
func fullCandidate(ids, segment []problem.ActivityID, start, end int) []problem.ActivityID {
	out := make([]problem.ActivityID, 0, len(ids)-(end-start)+len(segment))
	out = append(out, ids[:start]...)
	out = append(out, segment...)
	out = append(out, ids[end:]...)

	return out
}

// shipmentOrderValid reports whether every shipment job appearing in
// ids has its pickup strictly before its delivery. routestate's range
// edits never enforce this on their own (only IsValidChange's
// time-window/capacity checks run), so every move that can reorder
// activities re-checks it explicitly.
func shipmentOrderValid(ids []problem.ActivityID) bool {
	pickupPos := make(map[problem.JobIdx]int, len(ids))
	for i, a := range ids {
		if a.Kind != problem.ShipmentPickup {
			continue
		}
		pickupPos[a.Job] = i
	}
	for i, a := range ids {
		if a.Kind != problem.ShipmentDelivery {
			continue
		}
		p, ok := pickupPos[a.Job]
		if !ok || p >= i {
			return false
		}
	}

	return true
}

// removeAt returns ids with the element at pos deleted.
func removeAt(ids []problem.ActivityID, pos int) []problem.ActivityID {
	out := make([]problem.ActivityID, 0, len(ids)-1)
	out = append(out, ids[:pos]...)
	out = append(out, ids[pos+1:]...)

	return out
}

// insertAt returns ids with id spliced in at pos (literal post-removal
// index, not routestate.Move's original-indexing contract — used by
// the cross-route operators, whose "other" array never shifts under
// the edit being described).
func insertAt(ids []problem.ActivityID, pos int, id problem.ActivityID) []problem.ActivityID {
	out := make([]problem.ActivityID, 0, len(ids)+1)
	out = append(out, ids[:pos]...)
	out = append(out, id)
	out = append(out, ids[pos:]...)

	return out
}
