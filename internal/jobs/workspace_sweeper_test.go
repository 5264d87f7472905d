package jobs

import (
	"context"
	"testing"
	"time"

	"rankcheck/internal/models"
	"rankcheck/internal/workspace"
)

func TestWorkspaceSweeper_Sweep(t *testing.T) {
	registry := workspace.NewRegistry()
	registry.Complete("a", models.AnalysisRequest{}, nil)
	registry.Complete("b", models.AnalysisRequest{}, nil)

	if got := NewWorkspaceSweeper(registry, time.Minute, time.Hour).sweep(); got != 0 {
		t.Errorf("sweep() = %d, want 0 for fresh workspaces", got)
	}

	time.Sleep(5 * time.Millisecond)
	if got := NewWorkspaceSweeper(registry, time.Minute, time.Millisecond).sweep(); got != 2 {
		t.Errorf("sweep() = %d, want 2", got)
	}
	if registry.Len() != 0 {
		t.Errorf("Len() = %d, want 0", registry.Len())
	}
}

func TestWorkspaceSweeper_StartStops(t *testing.T) {
	registry := workspace.NewRegistry()
	registry.Complete("a", models.AnalysisRequest{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewWorkspaceSweeper(registry, time.Millisecond, time.Nanosecond).Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for registry.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper never pruned the idle workspace")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
