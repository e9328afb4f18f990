package testsupport

import (
	"context"
	"testing"

	"clickscribe/internal/align"
	"clickscribe/internal/config"
	"clickscribe/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewTutorial creates a tutorial with the given step start times (ms) and
// transcript segments.
func NewTutorial(t testing.TB, st *store.Store, title string, startsMs []int64, segments []align.Segment) (*store.Tutorial, []store.Step) {
	t.Helper()

	ctx := context.Background()
	tutorial, err := st.CreateTutorial(ctx, title)
	if err != nil {
		t.Fatalf("CreateTutorial: %v", err)
	}
	var steps []store.Step
	if len(startsMs) > 0 {
		in := make([]store.NewStep, len(startsMs))
		for i, ms := range startsMs {
			in[i] = store.NewStep{TimestampStart: ms, Action: "click"}
		}
		steps, err = st.AddSteps(ctx, tutorial.ID, in)
		if err != nil {
			t.Fatalf("AddSteps: %v", err)
		}
	}
	if len(segments) > 0 {
		if err := st.ReplaceSegments(ctx, tutorial.ID, "test", segments); err != nil {
			t.Fatalf("ReplaceSegments: %v", err)
		}
	}
	return tutorial, steps
}
