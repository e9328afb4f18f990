package align

import (
	"math"
	"strings"
)

// Align attributes overlapping segments to each step and derives the step's
// end boundary. The result has one entry per step, in input order.
//
// A segment overlaps a window [stepTime, nextTime) when it starts before the
// window closes and ends after it opens; touching either edge is not enough.
// TimestampEnd is the next step's start when there is one, otherwise the end
// of the last overlapping segment, otherwise nil.
func Align(steps []Step, segments []Segment) []AlignedStep {
	if len(steps) == 0 {
		return []AlignedStep{}
	}

	results := make([]AlignedStep, 0, len(steps))
	for i, step := range steps {
		stepTime := MillisToSeconds(step.TimestampStart)
		nextTime := math.Inf(1)
		hasNext := i+1 < len(steps)
		if hasNext {
			nextTime = MillisToSeconds(steps[i+1].TimestampStart)
		}

		texts := make([]string, 0, 4)
		var last *Segment
		for j := range segments {
			seg := &segments[j]
			if seg.Start < nextTime && seg.End > stepTime {
				texts = append(texts, seg.Transcript)
				last = seg
			}
		}

		aligned := AlignedStep{
			StepID:      step.ID,
			TextContent: strings.TrimSpace(strings.Join(texts, " ")),
		}
		switch {
		case hasNext:
			end := steps[i+1].TimestampStart
			aligned.TimestampEnd = &end
		case last != nil:
			end := SecondsToMillis(last.End)
			aligned.TimestampEnd = &end
		}
		results = append(results, aligned)
	}
	return results
}
