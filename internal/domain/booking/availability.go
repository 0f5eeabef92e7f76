package booking

import "github.com/google/uuid"

// Stay is the slice of a booking the availability check needs.
type Stay struct {
	BookingID uuid.UUID
	Reference Reference
	Range     DateRange
	Status    Status
}

// FindOverlaps returns the blocking stays whose dates intersect candidate.
func FindOverlaps(candidate DateRange, existing []Stay) []Stay {
	var conflicts []Stay
	for _, s := range existing {
		if !s.Status.IsBlocking() {
			continue
		}
		if s.Range.Overlaps(candidate) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}
