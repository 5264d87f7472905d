package workspace

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rankcheck/internal/models"
)

func TestRegistry_TryStart(t *testing.T) {
	r := NewRegistry()

	if !r.TryStart("a") {
		t.Fatal("first TryStart should succeed")
	}
	if r.TryStart("a") {
		t.Error("second TryStart should be rejected while running")
	}
	if !r.TryStart("b") {
		t.Error("other slots are independent")
	}

	r.Finish("a")
	if !r.TryStart("a") {
		t.Error("TryStart should succeed after Finish")
	}
}

func TestRegistry_ConcurrentTryStart(t *testing.T) {
	r := NewRegistry()
	var started atomic.Int32
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryStart("shared") {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := started.Load(); got != 1 {
		t.Errorf("%d calls started, want exactly 1", got)
	}
}

func TestRegistry_FinishKeepsPreviousResult(t *testing.T) {
	r := NewRegistry()
	resp := &models.AnalysisResponse{AnalysisData: models.AnalysisData{{Query: "shoes"}}}

	r.TryStart("a")
	r.Complete("a", models.AnalysisRequest{OwnWebsite: "foo.com"}, resp)

	r.TryStart("a")
	r.Finish("a")

	got := r.Get("a")
	if got.Running {
		t.Error("Running should be cleared")
	}
	if got.Response != resp {
		t.Error("failed call must keep the previous result")
	}
	if !got.HasResults() {
		t.Error("HasResults() = false, want true")
	}
}

func TestRegistry_Restore(t *testing.T) {
	r := NewRegistry()
	r.Restore("a", models.StoredAnalysisSnapshot{
		MyWebsite:   "foo.com",
		Keywords:    []string{"shoes"},
		SearchDepth: 30,
	})

	got := r.Get("a")
	if got.Request.OwnWebsite != "foo.com" || got.Request.SearchDepth != 30 {
		t.Errorf("Request = %+v", got.Request)
	}
	if got.Response != nil || got.HasResults() {
		t.Error("snapshot without analysis data should leave no results")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	got := NewRegistry().Get("missing")
	if got.Running || got.Response != nil {
		t.Errorf("Get() = %+v, want zero state", got)
	}
}

func TestRegistry_Prune(t *testing.T) {
	r := NewRegistry()
	r.Complete("idle", models.AnalysisRequest{}, nil)
	r.TryStart("busy")

	pruned := r.Prune(time.Now().Add(time.Hour))
	if pruned != 1 {
		t.Errorf("Prune() = %d, want 1", pruned)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if !r.Get("busy").Running {
		t.Error("running workspace must survive pruning")
	}

	if got := r.Prune(time.Now().Add(-time.Hour)); got != 0 {
		t.Errorf("Prune() with old cutoff = %d, want 0", got)
	}
}
