package earnedvalue

// IsClaimingStale reports whether the latest event lacks a progress snapshot
// while an earlier event had one. events must be filtered to one work unit
// and in chronological order; fewer than two events are never stale.
func IsClaimingStale(events []ProductionEvent) bool {
	if len(events) < 2 {
		return false
	}
	if events[len(events)-1].HasProgress() {
		return false
	}
	for _, event := range events[:len(events)-1] {
		if event.HasProgress() {
			return true
		}
	}
	return false
}
