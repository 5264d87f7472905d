package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rankcheck/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func sampleSnapshot() models.StoredAnalysisSnapshot {
	return models.StoredAnalysisSnapshot{
		MyWebsite:          "foo.com",
		CompetitorWebsites: []string{"bar.com"},
		Keywords:           []string{"shoes"},
		SearchDepth:        30,
		AnalysisData: models.AnalysisData{
			{
				Query: "shoes",
				Results: []models.AnalysisResultItem{
					{Website: "foo.com", Rank: intPtr(4), Title: strPtr("Foo Shoes"), Found: true},
					{Website: "bar.com", Found: false},
				},
			},
		},
		GroundingChunks: []models.GroundingChunk{
			{Web: models.GroundingWeb{URI: "https://foo.com/shoes", Title: "foo.com"}},
		},
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "rankcheck.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewRepository(store)
			want := sampleSnapshot()

			if err := repo.Save(ctx, "browser-1", want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := repo.Load(ctx, "browser-1")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(want, *got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepository_LoadMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := NewRepository(store).Load(context.Background(), "never-saved")
			if !errors.Is(err, ErrNoSnapshot) {
				t.Errorf("Load() error = %v, want ErrNoSnapshot", err)
			}
			if got != nil {
				t.Errorf("Load() = %+v, want nil", got)
			}
		})
	}
}

func TestRepository_SaveOverwrites(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewRepository(store)

			if err := repo.Save(ctx, "b", sampleSnapshot()); err != nil {
				t.Fatal(err)
			}
			second := models.StoredAnalysisSnapshot{
				MyWebsite:          "other.com",
				CompetitorWebsites: []string{},
				Keywords:           []string{"hats"},
				SearchDepth:        10,
				GroundingChunks:    []models.GroundingChunk{},
			}
			if err := repo.Save(ctx, "b", second); err != nil {
				t.Fatal(err)
			}

			got, err := repo.Load(ctx, "b")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(second, *got); diff != "" {
				t.Errorf("Load() after overwrite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepository_SlotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryStore())

	if err := repo.Save(ctx, "a", sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(ctx, "b"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load(other slot) error = %v, want ErrNoSnapshot", err)
	}
}

func TestRepository_LoadAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, Key("old"), []byte(`{"myWebsite":"foo.com"}`)); err != nil {
		t.Fatal(err)
	}

	got, err := NewRepository(store).Load(ctx, "old")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := models.StoredAnalysisSnapshot{
		MyWebsite:          "foo.com",
		CompetitorWebsites: []string{},
		Keywords:           []string{},
		SearchDepth:        models.DefaultSearchDepth,
		GroundingChunks:    []models.GroundingChunk{},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if got.AnalysisData != nil {
		t.Error("AnalysisData should stay absent")
	}
}

func TestRepository_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, Key("bad"), []byte(`{"myWebsite":`)); err != nil {
		t.Fatal(err)
	}

	if _, err := NewRepository(store).Load(ctx, "bad"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() error = %v, want ErrNoSnapshot", err)
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Ping(context.Context) error                  { return f.err }

func TestRepository_BackendErrors(t *testing.T) {
	backendErr := errors.New("connection reset")
	repo := NewRepository(failingStore{err: backendErr})

	if err := repo.Save(context.Background(), "x", sampleSnapshot()); !errors.Is(err, backendErr) {
		t.Errorf("Save() error = %v, want wrapped backend error", err)
	}
	_, err := repo.Load(context.Background(), "x")
	if !errors.Is(err, backendErr) || errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() error = %v, want wrapped backend error", err)
	}
}

func TestKey(t *testing.T) {
	if got := Key(""); got != "seoAnalysisResults" {
		t.Errorf("Key(\"\") = %q", got)
	}
	if got := Key("abc"); got != "seoAnalysisResults:abc" {
		t.Errorf("Key(\"abc\") = %q", got)
	}
}
