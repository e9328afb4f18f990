package services_test

import (
	"context"
	"testing"

	"clickscribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTutorialID(ctx, "tut-42")
	ctx = services.WithStage(ctx, "align")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.TutorialIDFromContext(ctx); !ok || id != "tut-42" {
		t.Fatalf("unexpected tutorial id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "align" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
