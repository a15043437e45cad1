package routestate

import "github.com/lvlath-vrp/alns/problem"

// ReplaceActivities splices newIDs into [start,end) and commits: a
// single forward pass recomputes arrival/departure/waiting and forward
// loads, and a single backward pass recomputes backward loads, peaks,
// slacks and the end load. bbox is rebuilt from scratch. version is
// bumped exactly once.
func (s *State) ReplaceActivities(newIDs []problem.ActivityID, start, end int) error {
	if err := s.validateRange(start, end); err != nil {
		return err
	}
	if err := s.checkNoDuplicates(newIDs, start, end); err != nil {
		return err
	}

	next := make([]problem.ActivityID, 0, len(s.activityIDs)-(end-start)+len(newIDs))
	next = append(next, s.activityIDs[:start]...)
	next = append(next, newIDs...)
	next = append(next, s.activityIDs[end:]...)

	s.activityIDs = next
	s.recompute()
	s.version++

	return nil
}

func (s *State) validateRange(start, end int) error {
	n := len(s.activityIDs)
	if start < 0 || end > n || start > end {
		if start > end {
			return ErrInvalidRange
		}

		return ErrRangeOutOfBounds
	}

	return nil
}

// checkNoDuplicates ensures none of newIDs already appears in the
// portion of the route outside [start,end) (invariant 5: no activity
// twice in any route).
func (s *State) checkNoDuplicates(newIDs []problem.ActivityID, start, end int) error {
	seen := make(map[problem.ActivityID]struct{}, len(newIDs))
	for _, a := range newIDs {
		if _, dup := seen[a]; dup {
			return ErrDuplicateActivity
		}
		seen[a] = struct{}{}
	}
	for i, a := range s.activityIDs {
		if i >= start && i < end {
			continue
		}
		if _, found := seen[a]; found {
			return ErrDuplicateActivity
		}
	}

	return nil
}

// Insert splices a single service activity at position pos.
func (s *State) Insert(pos int, id problem.ActivityID) error {
	return s.ReplaceActivities([]problem.ActivityID{id}, pos, pos)
}

// Remove deletes the activity at position pos.
func (s *State) Remove(pos int) error {
	return s.ReplaceActivities(nil, pos, pos+1)
}

// Swap exchanges the activities at positions i and j (i<=j).
func (s *State) Swap(i, j int) error {
	if i == j {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	segment := append([]problem.ActivityID(nil), s.activityIDs[i:j+1]...)
	segment[0], segment[len(segment)-1] = segment[len(segment)-1], segment[0]

	return s.ReplaceActivities(segment, i, j+1)
}

// Move relocates the activity at position from to position to
// (interpreted in the original, pre-move indexing: the activity lands
// immediately before the activity currently at `to`, or at the end if
// to==Len()).
func (s *State) Move(from, to int) error {
	ids := s.activityIDs
	moved := ids[from]
	rest := make([]problem.ActivityID, 0, len(ids)-1)
	rest = append(rest, ids[:from]...)
	rest = append(rest, ids[from+1:]...)

	insertAt := to
	if to > from {
		insertAt--
	}
	next := make([]problem.ActivityID, 0, len(ids))
	next = append(next, rest[:insertAt]...)
	next = append(next, moved)
	next = append(next, rest[insertAt:]...)

	s.activityIDs = next
	s.recompute()
	s.version++

	return nil
}

// Reverse reverses activities[from..=to] in place (2-Opt's core move).
func (s *State) Reverse(from, to int) error {
	if from > to {
		from, to = to, from
	}
	segment := append([]problem.ActivityID(nil), s.activityIDs[from:to+1]...)
	for i, j := 0, len(segment)-1; i < j; i, j = i+1, j-1 {
		segment[i], segment[j] = segment[j], segment[i]
	}

	return s.ReplaceActivities(segment, from, to+1)
}

// InsertShipmentAt atomically inserts a shipment's pickup at pickupPos
// and delivery at deliveryPos (pickupPos <= deliveryPos, both measured
// in the route's current indexing) as a single commit, preserving
// invariant 1 (pickup precedes delivery) at every observable state.
func (s *State) InsertShipmentAt(pickupPos, deliveryPos int, job problem.JobIdx) error {
	if pickupPos > deliveryPos {
		return ErrInvalidRange
	}
	between := append([]problem.ActivityID(nil), s.activityIDs[pickupPos:deliveryPos]...)
	segment := make([]problem.ActivityID, 0, len(between)+2)
	segment = append(segment, problem.ActivityID{Kind: problem.ShipmentPickup, Job: job})
	segment = append(segment, between...)
	segment = append(segment, problem.ActivityID{Kind: problem.ShipmentDelivery, Job: job})

	return s.ReplaceActivities(segment, pickupPos, deliveryPos)
}

// RemoveShipment atomically removes both halves of the given shipment
// job, wherever they currently sit, keeping everything between them.
func (s *State) RemoveShipment(job problem.JobIdx) error {
	p := s.IndexOf(problem.ActivityID{Kind: problem.ShipmentPickup, Job: job})
	d := s.IndexOf(problem.ActivityID{Kind: problem.ShipmentDelivery, Job: job})
	if p < 0 || d < 0 {
		return ErrActivityNotFound
	}
	between := append([]problem.ActivityID(nil), s.activityIDs[p+1:d]...)

	return s.ReplaceActivities(between, p, d+1)
}
