package server

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"rankcheck/internal/config"
	"rankcheck/internal/metrics"
	"rankcheck/internal/models"
	"rankcheck/internal/testutil"
	"rankcheck/internal/workspace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithWorkspaces(t, workspace.NewRegistry())
}

func newTestServerWithWorkspaces(t *testing.T, workspaces *workspace.Registry) *Server {
	t.Helper()

	cfg := &config.Config{
		Env:           "test",
		BaseURL:       "http://localhost:3000",
		SessionSecret: "test-secret-that-is-long-enough-for-production",
		RateLimitMax:  100,
		SiteTitle:     "Rank Check",
	}
	root := testutil.RepoRoot(t)
	srv := New(cfg, Options{
		ViewsDir:  filepath.Join(root, "views"),
		StaticDir: filepath.Join(root, "static"),
	})

	err := srv.RegisterRoutes(context.Background(), Deps{
		Analyzer:     &testutil.FakeAnalyzer{Response: &models.AnalysisResponse{}},
		Snapshots:    testutil.NewRepository(),
		Workspaces:   workspaces,
		Metrics:      metrics.NewRecorder(),
		DefaultDepth: models.DefaultSearchDepth,
	})
	if err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}
	return srv
}

func sendWithCookies(t *testing.T, srv *Server, method, path, body string, cookies []*http.Cookie) (int, string, []*http.Cookie) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(respBody), resp.Cookies()
}

// TestSnapshotSlotFollowsEncryptedSession verifies that the encryptcookie +
// session middleware stack keeps a browser on the same saved-analysis slot
// when it replays its encrypted session cookie, and that other clients do
// not see it.
func TestSnapshotSlotFollowsEncryptedSession(t *testing.T) {
	srv := newTestServer(t)

	// --- Request 1: first visit starts the session ---
	_, _, cookies := sendWithCookies(t, srv, "GET", "/healthz", "", nil)
	if len(cookies) == 0 {
		t.Fatal("request 1: no cookies returned")
	}

	// --- Request 2: save with the replayed (encrypted) cookie ---
	status, body, _ := sendWithCookies(t, srv, "PUT", "/api/snapshot", `{"myWebsite":"foo.com","keywords":["shoes"],"searchDepth":30}`, cookies)
	if status != 200 {
		t.Fatalf("request 2: expected 200, got %d: %s", status, body)
	}

	// --- Request 3: same browser loads it back ---
	status, body, _ = sendWithCookies(t, srv, "GET", "/api/snapshot", "", cookies)
	if status != 200 {
		t.Fatalf("request 3: expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"myWebsite":"foo.com"`) {
		t.Errorf("request 3: expected saved snapshot, got %s", body)
	}

	// --- Request 4: a client without the cookie sees nothing ---
	status, _, _ = sendWithCookies(t, srv, "GET", "/api/snapshot", "", nil)
	if status != 404 {
		t.Errorf("request 4: expected 404 without the session cookie, got %d", status)
	}
}

func TestSnapshotCookielessClientsShareSlot(t *testing.T) {
	srv := newTestServer(t)

	status, body, _ := sendWithCookies(t, srv, "PUT", "/api/snapshot", `{"myWebsite":"foo.com","keywords":["shoes"],"searchDepth":30}`, nil)
	if status != 200 {
		t.Fatalf("PUT: expected 200, got %d: %s", status, body)
	}

	status, body, _ = sendWithCookies(t, srv, "GET", "/api/snapshot", "", nil)
	if status != 200 {
		t.Fatalf("GET: expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"searchDepth":30`) {
		t.Errorf("GET: expected saved snapshot, got %s", body)
	}
}

func TestAnalyzeGuardAppliesToCookielessClients(t *testing.T) {
	workspaces := workspace.NewRegistry()
	workspaces.TryStart("")
	srv := newTestServerWithWorkspaces(t, workspaces)

	status, body, _ := sendWithCookies(t, srv, "POST", "/api/analyze", `{"myWebsite":"acme.com","keywords":["widgets"]}`, nil)
	if status != 409 {
		t.Errorf("expected 409 while an analysis is running, got %d: %s", status, body)
	}
}

func TestOperationalEndpoints(t *testing.T) {
	app := newTestServer(t).App

	tests := []struct {
		path     string
		contains string
	}{
		{"/healthz", `"status":"ok"`},
		{"/readyz", `"status":"ok"`},
		{"/metrics", "go_goroutines"},
		{"/", "analysis-form"},
		{"/static/app.css", ".results"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.path, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != 200 {
				t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestErrorHandlerRendersErrorView(t *testing.T) {
	app := newTestServer(t).App

	req, _ := http.NewRequest("GET", "/does-not-exist", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Back to the form") {
		t.Errorf("expected error page, got %s", body)
	}
}

func TestDeriveEncryptionKey(t *testing.T) {
	a := deriveEncryptionKey("secret-one")
	if a != deriveEncryptionKey("secret-one") {
		t.Error("key derivation must be deterministic")
	}
	if a == deriveEncryptionKey("secret-two") {
		t.Error("different secrets must give different keys")
	}
	if len(a) != 44 {
		t.Errorf("encoded key length = %d, want 44 (32 bytes base64)", len(a))
	}
}
