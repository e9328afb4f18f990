package align

import (
	"fmt"
	"testing"
	"time"
)

func endValue(t *testing.T, got *int64) int64 {
	t.Helper()
	if got == nil {
		t.Fatal("expected timestampEnd to be set, got nil")
	}
	return *got
}

func TestAlignEmptySteps(t *testing.T) {
	got := Align(nil, []Segment{{Start: 0, End: 1, Transcript: "ignored"}})
	if got == nil {
		t.Fatal("expected non-nil empty result")
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestAlignNoSegments(t *testing.T) {
	steps := []Step{
		{ID: "a", TimestampStart: 0},
		{ID: "b", TimestampStart: 4000},
		{ID: "c", TimestampStart: 9000},
	}
	got := Align(steps, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i, res := range got {
		if res.StepID != steps[i].ID {
			t.Errorf("result %d: stepId = %q, want %q", i, res.StepID, steps[i].ID)
		}
		if res.TextContent != "" {
			t.Errorf("result %d: textContent = %q, want empty", i, res.TextContent)
		}
	}
	if v := endValue(t, got[0].TimestampEnd); v != 4000 {
		t.Errorf("step a timestampEnd = %d, want 4000", v)
	}
	if v := endValue(t, got[1].TimestampEnd); v != 9000 {
		t.Errorf("step b timestampEnd = %d, want 9000", v)
	}
	if got[2].TimestampEnd != nil {
		t.Errorf("last step timestampEnd = %d, want nil", *got[2].TimestampEnd)
	}
}

func TestAlignSingleExactOverlap(t *testing.T) {
	got := Align(
		[]Step{{ID: "only", TimestampStart: 0}},
		[]Segment{{Start: 0, End: 2.5, Transcript: "Hello world"}},
	)
	if got[0].TextContent != "Hello world" {
		t.Fatalf("textContent = %q, want %q", got[0].TextContent, "Hello world")
	}
	if v := endValue(t, got[0].TimestampEnd); v != 2500 {
		t.Fatalf("timestampEnd = %d, want 2500", v)
	}
}

func TestAlignConcatenatesSegmentsInOrder(t *testing.T) {
	steps := []Step{{ID: "s1", TimestampStart: 0}, {ID: "s2", TimestampStart: 10000}}
	segments := []Segment{
		{Start: 0.5, End: 2, Transcript: "First sentence."},
		{Start: 3, End: 5, Transcript: "Second sentence."},
		{Start: 6, End: 9.5, Transcript: "Third sentence."},
	}
	got := Align(steps, segments)
	want := "First sentence. Second sentence. Third sentence."
	if got[0].TextContent != want {
		t.Fatalf("textContent = %q, want %q", got[0].TextContent, want)
	}
	if v := endValue(t, got[0].TimestampEnd); v != 10000 {
		t.Fatalf("timestampEnd = %d, want 10000", v)
	}
	if got[1].TextContent != "" {
		t.Fatalf("second step textContent = %q, want empty", got[1].TextContent)
	}
}

func TestAlignGapLeavesMiddleStepEmpty(t *testing.T) {
	steps := []Step{
		{ID: "s1", TimestampStart: 0},
		{ID: "s2", TimestampStart: 5000},
		{ID: "s3", TimestampStart: 10000},
	}
	segments := []Segment{
		{Start: 0, End: 3, Transcript: "Open the settings page."},
		{Start: 10.5, End: 12, Transcript: "Now click save."},
	}
	got := Align(steps, segments)
	if got[0].TextContent != "Open the settings page." {
		t.Errorf("step 1 textContent = %q", got[0].TextContent)
	}
	if got[1].TextContent != "" {
		t.Errorf("step 2 textContent = %q, want empty", got[1].TextContent)
	}
	if got[2].TextContent != "Now click save." {
		t.Errorf("step 3 textContent = %q", got[2].TextContent)
	}
	if v := endValue(t, got[2].TimestampEnd); v != 12000 {
		t.Errorf("step 3 timestampEnd = %d, want 12000", v)
	}
}

func TestAlignSpanningSegmentIsShared(t *testing.T) {
	steps := []Step{{ID: "s1", TimestampStart: 0}, {ID: "s2", TimestampStart: 2000}}
	segments := []Segment{{Start: 0, End: 5, Transcript: "this segment spans both steps"}}
	got := Align(steps, segments)
	for i, res := range got {
		if res.TextContent != "this segment spans both steps" {
			t.Errorf("step %d textContent = %q", i, res.TextContent)
		}
	}
	if v := endValue(t, got[1].TimestampEnd); v != 5000 {
		t.Errorf("last step timestampEnd = %d, want 5000", v)
	}
}

func TestAlignIntermediateEndIgnoresSegmentEnd(t *testing.T) {
	steps := []Step{
		{ID: "s1", TimestampStart: 0},
		{ID: "s2", TimestampStart: 3000},
		{ID: "s3", TimestampStart: 6000},
	}
	segments := []Segment{{Start: 0, End: 10, Transcript: "long narration"}}
	got := Align(steps, segments)
	if v := endValue(t, got[0].TimestampEnd); v != 3000 {
		t.Errorf("step 1 timestampEnd = %d, want 3000", v)
	}
	if v := endValue(t, got[1].TimestampEnd); v != 6000 {
		t.Errorf("step 2 timestampEnd = %d, want 6000", v)
	}
	if v := endValue(t, got[2].TimestampEnd); v != 10000 {
		t.Errorf("step 3 timestampEnd = %d, want 10000", v)
	}
}

func TestAlignBoundariesAreStrict(t *testing.T) {
	steps := []Step{{ID: "s1", TimestampStart: 1000}, {ID: "s2", TimestampStart: 3000}}
	tests := []struct {
		name    string
		segment Segment
		want    [2]string
	}{
		{"ends exactly at step start", Segment{Start: 0, End: 1, Transcript: "x"}, [2]string{"", ""}},
		{"starts exactly at next step", Segment{Start: 3, End: 4, Transcript: "x"}, [2]string{"", "x"}},
		{"ends exactly at next step", Segment{Start: 2, End: 3, Transcript: "x"}, [2]string{"x", ""}},
		{"straddles step start", Segment{Start: 0.5, End: 1.01, Transcript: "x"}, [2]string{"x", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(steps, []Segment{tt.segment})
			for i := range got {
				if got[i].TextContent != tt.want[i] {
					t.Errorf("step %d textContent = %q, want %q", i, got[i].TextContent, tt.want[i])
				}
			}
		})
	}
}

func TestAlignLastStepUsesLastOverlapInInputOrder(t *testing.T) {
	steps := []Step{{ID: "s1", TimestampStart: 0}}
	segments := []Segment{
		{Start: 5, End: 8.2, Transcript: "later"},
		{Start: 1, End: 2.0004, Transcript: "earlier"},
	}
	got := Align(steps, segments)
	if got[0].TextContent != "later earlier" {
		t.Fatalf("textContent = %q, want %q", got[0].TextContent, "later earlier")
	}
	if v := endValue(t, got[0].TimestampEnd); v != 2000 {
		t.Fatalf("timestampEnd = %d, want 2000", v)
	}
}

func TestAlignTrimsJoinedText(t *testing.T) {
	steps := []Step{{ID: "s1", TimestampStart: 0}}
	segments := []Segment{
		{Start: 0, End: 1, Transcript: " "},
		{Start: 1, End: 2, Transcript: "spoken "},
	}
	got := Align(steps, segments)
	if got[0].TextContent != "spoken" {
		t.Fatalf("textContent = %q, want %q", got[0].TextContent, "spoken")
	}
}

func TestAlignDoesNotMutateInputs(t *testing.T) {
	steps := []Step{{ID: "s1", TimestampStart: 0}, {ID: "s2", TimestampStart: 1000}}
	segments := []Segment{{Start: 0.2, End: 0.4, Transcript: "hi"}}
	stepsCopy := append([]Step(nil), steps...)
	segmentsCopy := append([]Segment(nil), segments...)

	_ = Align(steps, segments)

	for i := range steps {
		if steps[i] != stepsCopy[i] {
			t.Fatalf("step %d mutated: %+v", i, steps[i])
		}
	}
	for i := range segments {
		if segments[i] != segmentsCopy[i] {
			t.Fatalf("segment %d mutated: %+v", i, segments[i])
		}
	}
}

func TestAlignPerformance(t *testing.T) {
	steps := make([]Step, 50)
	segments := make([]Segment, 50)
	for i := range steps {
		steps[i] = Step{ID: fmt.Sprintf("step-%d", i), TimestampStart: int64(i) * 2000}
		segments[i] = Segment{
			Start:      float64(i) * 2,
			End:        float64(i)*2 + 1.5,
			Transcript: fmt.Sprintf("segment %d", i),
		}
	}

	start := time.Now()
	got := Align(steps, segments)
	elapsed := time.Since(start)

	if len(got) != len(steps) {
		t.Fatalf("expected %d results, got %d", len(steps), len(got))
	}
	if elapsed >= 100*time.Millisecond {
		t.Fatalf("Align took %v for 50x50, want < 100ms", elapsed)
	}
}

func BenchmarkAlign(b *testing.B) {
	steps := make([]Step, 200)
	segments := make([]Segment, 200)
	for i := range steps {
		steps[i] = Step{ID: fmt.Sprintf("step-%d", i), TimestampStart: int64(i) * 1500}
		segments[i] = Segment{Start: float64(i) * 1.5, End: float64(i)*1.5 + 2, Transcript: "words"}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Align(steps, segments)
	}
}
