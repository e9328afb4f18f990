package align

import "math"

// FindClosestSegment returns the segment whose start or end lies nearest to
// timestampSec. The first segment wins ties. ok is false when segments is
// empty.
func FindClosestSegment(timestampSec float64, segments []Segment) (closest Segment, ok bool) {
	if len(segments) == 0 {
		return Segment{}, false
	}

	best := math.Inf(1)
	for _, seg := range segments {
		if distance := Distance(timestampSec, seg); distance < best {
			best = distance
			closest = seg
		}
	}
	return closest, true
}

// Distance returns how far timestampSec lies from the nearest edge of seg.
func Distance(timestampSec float64, seg Segment) float64 {
	return math.Min(math.Abs(timestampSec-seg.Start), math.Abs(timestampSec-seg.End))
}
