// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofiber/template/html/v3"

	"rankcheck/internal/analysis"
	"rankcheck/internal/db"
	"rankcheck/internal/models"
	"rankcheck/internal/snapshot"
)

// TestDB creates a test database connection, skipping the test when
// TEST_DATABASE_URL is not set. The snapshots table is emptied on cleanup.
func TestDB(t *testing.T) *db.DB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		database.Pool.Exec(ctx, "DELETE FROM snapshots")
		database.Close()
	})

	return database
}

// NewRepository returns a snapshot repository backed by memory.
func NewRepository() *snapshot.Repository {
	return snapshot.NewRepository(snapshot.NewMemoryStore())
}

// ViewsEngine loads the HTML templates from the repository's views directory.
func ViewsEngine(t *testing.T) *html.Engine {
	t.Helper()
	return html.New(filepath.Join(RepoRoot(t), "views"), ".html")
}

// RepoRoot walks up from the working directory to the directory holding go.mod.
func RepoRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above working directory")
		}
		dir = parent
	}
}

// AnalyzeCall records the arguments of one FakeAnalyzer call.
type AnalyzeCall struct {
	OwnWebsite         string
	CompetitorWebsites []string
	Keywords           []string
	SearchDepth        int
}

// FakeAnalyzer returns a canned response and records every call.
type FakeAnalyzer struct {
	Response *models.AnalysisResponse
	Err      error

	mu    sync.Mutex
	calls []AnalyzeCall
}

func (f *FakeAnalyzer) Analyze(_ context.Context, ownWebsite string, competitorWebsites, keywords []string, searchDepth int) (*models.AnalysisResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, AnalyzeCall{
		OwnWebsite:         ownWebsite,
		CompetitorWebsites: competitorWebsites,
		Keywords:           keywords,
		SearchDepth:        searchDepth,
	})
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Response, nil
}

// Calls returns the recorded calls.
func (f *FakeAnalyzer) Calls() []AnalyzeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AnalyzeCall(nil), f.calls...)
}

// FakeGenerator answers every prompt with fixed text, standing in for Gemini.
type FakeGenerator struct {
	Text   string
	Chunks []models.GroundingChunk
	Err    error

	mu      sync.Mutex
	prompts []string
}

var _ analysis.Generator = (*FakeGenerator)(nil)

func (f *FakeGenerator) Generate(_ context.Context, prompt string) (*analysis.Generation, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return &analysis.Generation{Text: f.Text, GroundingChunks: f.Chunks}, nil
}

// Prompts returns every prompt received.
func (f *FakeGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StrPtr returns a pointer to v.
func StrPtr(v string) *string { return &v }
