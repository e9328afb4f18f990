package processing

import (
	"context"
	"fmt"
	"math"

	"clickscribe/internal/align"
	"clickscribe/internal/services"
)

// ClosestMatch is the transcript segment nearest to a point in time.
type ClosestMatch struct {
	Segment         align.Segment `json:"segment"`
	DistanceSeconds float64       `json:"distanceSeconds"`
}

// Closest finds the tutorial's transcript segment nearest to seconds.
func (p *Processor) Closest(ctx context.Context, tutorialID string, seconds float64) (*ClosestMatch, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, services.Wrap(services.ErrValidation, "closest", "parse time",
			fmt.Sprintf("%v is not a finite time", seconds), nil)
	}
	tutorial, err := p.store.GetTutorial(ctx, tutorialID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "closest", "load tutorial", tutorialID, err)
	}
	if tutorial == nil {
		return nil, services.Wrap(services.ErrNotFound, "closest", "load tutorial",
			fmt.Sprintf("tutorial %s does not exist", tutorialID), nil)
	}
	segments, err := p.store.ListSegments(ctx, tutorialID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "closest", "load segments", "", err)
	}
	seg, ok := align.FindClosestSegment(seconds, segments)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "closest", "find segment",
			"tutorial has no transcript segments", nil)
	}
	return &ClosestMatch{Segment: seg, DistanceSeconds: align.Distance(seconds, seg)}, nil
}
