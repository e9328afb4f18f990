package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"clickscribe/internal/align"
	"clickscribe/internal/store"
	"clickscribe/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	tutorial, err := st.CreateTutorial(ctx, "  Create a project  ")
	if err != nil {
		t.Fatalf("CreateTutorial failed: %v", err)
	}
	if tutorial.ID == "" {
		t.Fatal("expected tutorial ID to be assigned")
	}
	if tutorial.Status != store.StatusPending {
		t.Fatalf("expected pending status, got %s", tutorial.Status)
	}

	fetched, err := st.GetTutorial(ctx, tutorial.ID)
	if err != nil {
		t.Fatalf("GetTutorial failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Create a project" {
		t.Fatalf("unexpected fetched tutorial: %#v", fetched)
	}
	if st.Path() != cfg.DatabasePath() {
		t.Fatalf("Path = %q, want %q", st.Path(), cfg.DatabasePath())
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	tutorial, err := st.CreateTutorial(context.Background(), "Persisted")
	if err != nil {
		t.Fatalf("CreateTutorial failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	fetched, err := reopened.GetTutorial(context.Background(), tutorial.ID)
	if err != nil || fetched == nil {
		t.Fatalf("expected tutorial after reopen, got %v / %v", fetched, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	st.Close()

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestCreateTutorialRequiresTitle(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.CreateTutorial(context.Background(), "   "); !errors.Is(err, store.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestGetTutorialMissingReturnsNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	tutorial, err := st.GetTutorial(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetTutorial failed: %v", err)
	}
	if tutorial != nil {
		t.Fatalf("expected nil, got %#v", tutorial)
	}
}

func TestAddStepsContinuesSequence(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, first := testsupport.NewTutorial(t, st, "Steps", []int64{0, 1000}, nil)

	more, err := st.AddSteps(ctx, tutorial.ID, []store.NewStep{
		{ID: "custom", TimestampStart: 2000, Action: "type", URL: "https://example.test"},
	})
	if err != nil {
		t.Fatalf("AddSteps failed: %v", err)
	}
	if more[0].ID != "custom" || more[0].Sequence != 2 {
		t.Fatalf("unexpected appended step: %#v", more[0])
	}

	steps, err := st.ListSteps(ctx, tutorial.ID)
	if err != nil {
		t.Fatalf("ListSteps failed: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for i, step := range steps {
		if step.Sequence != i {
			t.Fatalf("step %d has sequence %d", i, step.Sequence)
		}
	}
	if steps[0].ID != first[0].ID || steps[2].URL != "https://example.test" {
		t.Fatalf("unexpected steps: %#v", steps)
	}
	if steps[0].TimestampEnd != nil {
		t.Fatalf("expected nil end before alignment, got %d", *steps[0].TimestampEnd)
	}
}

func TestAddStepsUnknownTutorial(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := st.AddSteps(context.Background(), "missing", []store.NewStep{{TimestampStart: 0}})
	if !store.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestStepIDsAreScopedToTutorial(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	first, _ := testsupport.NewTutorial(t, st, "First", nil, nil)
	second, _ := testsupport.NewTutorial(t, st, "Second", nil, nil)

	in := []store.NewStep{{ID: "step-1", TimestampStart: 0}, {ID: "step-2", TimestampStart: 1000}}
	if _, err := st.AddSteps(ctx, first.ID, in); err != nil {
		t.Fatalf("AddSteps into first failed: %v", err)
	}
	if _, err := st.AddSteps(ctx, second.ID, in); err != nil {
		t.Fatalf("AddSteps into second failed: %v", err)
	}

	if _, err := st.AddSteps(ctx, first.ID, in); !errors.Is(err, store.ErrDuplicateStep) {
		t.Fatalf("expected ErrDuplicateStep on re-import, got %v", err)
	}
	_, err := st.AddSteps(ctx, second.ID, []store.NewStep{{ID: "x", TimestampStart: 0}, {ID: "x", TimestampStart: 1}})
	if !errors.Is(err, store.ErrDuplicateStep) {
		t.Fatalf("expected ErrDuplicateStep for repeated input ids, got %v", err)
	}

	steps, _ := st.ListSteps(ctx, second.ID)
	if len(steps) != 2 {
		t.Fatalf("expected rejected imports to store nothing, got %d steps", len(steps))
	}

	if err := st.ApplyAlignment(ctx, first.ID, []store.StepUpdate{{StepID: "step-1", TextContent: "first only"}}); err != nil {
		t.Fatalf("ApplyAlignment failed: %v", err)
	}
	other, _ := st.ListSteps(ctx, second.ID)
	if other[0].TextContent != "" {
		t.Fatalf("alignment leaked into another tutorial: %q", other[0].TextContent)
	}
}

func TestCreateTutorialWithSteps(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	tutorial, steps, err := st.CreateTutorialWithSteps(ctx, "Manifest", []store.NewStep{
		{ID: "open", TimestampStart: 0},
		{TimestampStart: 2000},
	})
	if err != nil {
		t.Fatalf("CreateTutorialWithSteps failed: %v", err)
	}
	if tutorial.StepCount != 2 || len(steps) != 2 || steps[1].ID == "" || steps[1].Sequence != 1 {
		t.Fatalf("unexpected result: %#v %#v", tutorial, steps)
	}

	_, _, err = st.CreateTutorialWithSteps(ctx, "Broken", []store.NewStep{
		{ID: "dup", TimestampStart: 0},
		{ID: "dup", TimestampStart: 1000},
	})
	if !errors.Is(err, store.ErrDuplicateStep) {
		t.Fatalf("expected ErrDuplicateStep, got %v", err)
	}
	tutorials, err := st.ListTutorials(ctx)
	if err != nil {
		t.Fatalf("ListTutorials failed: %v", err)
	}
	if len(tutorials) != 1 || tutorials[0].ID != tutorial.ID {
		t.Fatalf("failed create left rows behind: %#v", tutorials)
	}
}

func TestNewInputResetsTutorialToPending(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, steps := testsupport.NewTutorial(t, st, "Reset", []int64{0}, []align.Segment{
		{Start: 0, End: 1, Transcript: "old"},
	})

	markAligned := func() {
		t.Helper()
		if err := st.ApplyAlignment(ctx, tutorial.ID, []store.StepUpdate{{StepID: steps[0].ID, TextContent: "old"}}); err != nil {
			t.Fatalf("ApplyAlignment failed: %v", err)
		}
	}
	requirePending := func(label string) {
		t.Helper()
		fetched, err := st.GetTutorial(ctx, tutorial.ID)
		if err != nil {
			t.Fatalf("GetTutorial failed: %v", err)
		}
		if fetched.Status != store.StatusPending || fetched.AlignedAt != nil || fetched.ErrorMessage != "" {
			t.Fatalf("%s: expected reset tutorial, got %#v", label, fetched)
		}
		pending, _ := st.ListTutorials(ctx, store.StatusPending)
		if len(pending) != 1 {
			t.Fatalf("%s: expected tutorial listed as pending, got %d", label, len(pending))
		}
	}

	markAligned()
	if err := st.ReplaceSegments(ctx, tutorial.ID, "new", []align.Segment{{Start: 0, End: 1, Transcript: "new"}}); err != nil {
		t.Fatalf("ReplaceSegments failed: %v", err)
	}
	requirePending("after transcript replace")

	fetched, _ := st.GetTutorial(ctx, tutorial.ID)
	fetched.Status = store.StatusFailed
	fetched.ErrorMessage = "boom"
	if err := st.UpdateTutorial(ctx, fetched); err != nil {
		t.Fatalf("UpdateTutorial failed: %v", err)
	}
	if _, err := st.AddSteps(ctx, tutorial.ID, []store.NewStep{{TimestampStart: 5000}}); err != nil {
		t.Fatalf("AddSteps failed: %v", err)
	}
	requirePending("after adding steps")

	if err := st.ReplaceSegments(ctx, "missing", "x", nil); !store.IsNotFound(err) {
		t.Fatalf("expected not-found for unknown tutorial, got %v", err)
	}
}

func TestReplaceSegmentsPreservesOrder(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, _ := testsupport.NewTutorial(t, st, "Segments", nil, []align.Segment{
		{Start: 0, End: 1, Transcript: "old"},
	})

	replacement := []align.Segment{
		{Start: 5, End: 6, Transcript: "later"},
		{Start: 1, End: 2, Transcript: "earlier"},
	}
	if err := st.ReplaceSegments(ctx, tutorial.ID, "deepgram", replacement); err != nil {
		t.Fatalf("ReplaceSegments failed: %v", err)
	}
	segments, err := st.ListSegments(ctx, tutorial.ID)
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}
	if len(segments) != 2 || segments[0] != replacement[0] || segments[1] != replacement[1] {
		t.Fatalf("unexpected segments: %#v", segments)
	}

	fetched, _ := st.GetTutorial(ctx, tutorial.ID)
	if fetched.TranscriptSource != "deepgram" || fetched.SegmentCount != 2 {
		t.Fatalf("unexpected tutorial after replace: %#v", fetched)
	}
}

func TestApplyAlignmentWritesStepsAndStatus(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, steps := testsupport.NewTutorial(t, st, "Apply", []int64{0, 5000}, nil)

	end := int64(8000)
	results := []align.AlignedStep{
		{StepID: steps[0].ID, TextContent: "first", TimestampEnd: &[]int64{5000}[0]},
		{StepID: steps[1].ID, TextContent: "second", TimestampEnd: &end},
	}
	updates := store.UpdatesFromAligned(results)
	updates[1].Fallback = true
	if err := st.ApplyAlignment(ctx, tutorial.ID, updates); err != nil {
		t.Fatalf("ApplyAlignment failed: %v", err)
	}

	stored, err := st.ListSteps(ctx, tutorial.ID)
	if err != nil {
		t.Fatalf("ListSteps failed: %v", err)
	}
	if stored[0].TextContent != "first" || *stored[0].TimestampEnd != 5000 || stored[0].Fallback {
		t.Fatalf("unexpected first step: %#v", stored[0])
	}
	if stored[1].TextContent != "second" || *stored[1].TimestampEnd != 8000 || !stored[1].Fallback {
		t.Fatalf("unexpected second step: %#v", stored[1])
	}

	fetched, _ := st.GetTutorial(ctx, tutorial.ID)
	if fetched.Status != store.StatusAligned || fetched.AlignedAt == nil {
		t.Fatalf("expected aligned tutorial, got %#v", fetched)
	}
}

func TestApplyAlignmentUnknownStepRollsBack(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, steps := testsupport.NewTutorial(t, st, "Rollback", []int64{0}, nil)

	err := st.ApplyAlignment(ctx, tutorial.ID, []store.StepUpdate{
		{StepID: steps[0].ID, TextContent: "kept?"},
		{StepID: "ghost", TextContent: "nope"},
	})
	if !errors.Is(err, store.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}

	stored, _ := st.ListSteps(ctx, tutorial.ID)
	if stored[0].TextContent != "" {
		t.Fatalf("expected rollback, got text %q", stored[0].TextContent)
	}
	fetched, _ := st.GetTutorial(ctx, tutorial.ID)
	if fetched.Status != store.StatusPending {
		t.Fatalf("expected pending after rollback, got %s", fetched.Status)
	}
}

func TestApplyAlignmentClearsEndTimestamp(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, steps := testsupport.NewTutorial(t, st, "Clear", []int64{0}, nil)

	end := int64(1000)
	if err := st.ApplyAlignment(ctx, tutorial.ID, []store.StepUpdate{{StepID: steps[0].ID, TimestampEnd: &end}}); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if err := st.ApplyAlignment(ctx, tutorial.ID, []store.StepUpdate{{StepID: steps[0].ID}}); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	stored, _ := st.ListSteps(ctx, tutorial.ID)
	if stored[0].TimestampEnd != nil {
		t.Fatalf("expected nil end, got %d", *stored[0].TimestampEnd)
	}
}

func TestDeleteTutorialCascades(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	tutorial, _ := testsupport.NewTutorial(t, st, "Delete", []int64{0, 1000}, []align.Segment{{Start: 0, End: 1, Transcript: "hi"}})

	removed, err := st.DeleteTutorial(ctx, tutorial.ID)
	if err != nil || !removed {
		t.Fatalf("DeleteTutorial = %v, %v", removed, err)
	}
	steps, _ := st.ListSteps(ctx, tutorial.ID)
	segments, _ := st.ListSegments(ctx, tutorial.ID)
	if len(steps) != 0 || len(segments) != 0 {
		t.Fatalf("expected cascade delete, got %d steps %d segments", len(steps), len(segments))
	}

	removed, err = st.DeleteTutorial(ctx, tutorial.ID)
	if err != nil || removed {
		t.Fatalf("second delete = %v, %v", removed, err)
	}
}

func TestListTutorialsAndStats(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	a, _ := testsupport.NewTutorial(t, st, "A", []int64{0}, nil)
	testsupport.NewTutorial(t, st, "B", nil, nil)

	a.Status = store.StatusFailed
	a.ErrorMessage = "boom"
	if err := st.UpdateTutorial(ctx, a); err != nil {
		t.Fatalf("UpdateTutorial failed: %v", err)
	}

	all, err := st.ListTutorials(ctx)
	if err != nil {
		t.Fatalf("ListTutorials failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tutorials, got %d", len(all))
	}

	failed, err := st.ListTutorials(ctx, store.StatusFailed)
	if err != nil {
		t.Fatalf("ListTutorials(failed) failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ErrorMessage != "boom" || failed[0].StepCount != 1 {
		t.Fatalf("unexpected failed list: %#v", failed)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 || stats.ByStatus[store.StatusFailed] != 1 || stats.ByStatus[store.StatusPending] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range store.AllStatuses() {
		got, ok := store.ParseStatus(string(status))
		if !ok || got != status {
			t.Fatalf("ParseStatus(%q) = %q, %v", status, got, ok)
		}
	}
	if _, ok := store.ParseStatus("ripping"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
