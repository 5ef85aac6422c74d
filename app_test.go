package strand_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strand-dev/strand"
	"github.com/strand-dev/strand/app/routes"
	"github.com/strand-dev/strand/pkg/github"
	"github.com/strand-dev/strand/pkg/vdom"
)

const testShellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Repo Viewer</title>
  <link rel="stylesheet" href="/public/styles.css">
</head>
<body>
  <div id="root"><!--ssr-outlet--></div>
</body>
</html>`

// newDevApp builds a development-mode app over a temp shell and public
// directory, with the demo routes registered.
func newDevApp(t *testing.T) *strand.App {
	t.Helper()

	root := t.TempDir()
	shellPath := filepath.Join(root, "shell", "index.html")
	publicDir := filepath.Join(root, "public")
	mustWrite(t, shellPath, testShellHTML)
	mustWrite(t, filepath.Join(publicDir, "styles.css"), "body { margin: 0 }")

	cfg := strand.DefaultConfig()
	cfg.Env = strand.EnvDevelopment
	cfg.Shell.Path = shellPath
	cfg.Static.Dir = publicDir
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := strand.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	routes.Register(app)
	return app
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// withMockGitHub points the demo routes at a mock API for the duration
// of the test.
func withMockGitHub(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	prev := routes.GitHub
	routes.GitHub = github.New(github.WithBaseURL(srv.URL))
	t.Cleanup(func() {
		routes.GitHub = prev
		srv.Close()
	})
}

func get(t *testing.T, app *strand.App, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexPageRenders(t *testing.T) {
	app := newDevApp(t)

	rec := get(t, app, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	if strings.Contains(body, "<!--ssr-outlet-->") {
		t.Error("placeholder survived substitution")
	}
	if !strings.Contains(body, "GitHub Repository Viewer") {
		t.Error("page content missing")
	}
	if !strings.Contains(body, "window.__STRAND_STATE__=") {
		t.Error("dehydrated state missing")
	}
	if !strings.Contains(body, "/_strand/client.js") {
		t.Error("bootstrap client script missing")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestAnyMethodRenders(t *testing.T) {
	app := newDevApp(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/", nil)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s / status = %d, want 200", method, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "GitHub Repository Viewer") {
			t.Errorf("%s / did not render the page", method)
		}
	}
}

func TestUserPageWithRepos(t *testing.T) {
	withMockGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "hello-world", "description": "My first repo",
			 "html_url": "https://github.com/octocat/hello-world",
			 "stargazers_count": 80, "language": "Ruby",
			 "updated_at": "2024-03-01T00:00:00Z"}
		]`))
	})
	app := newDevApp(t)

	rec := get(t, app, "/users/octocat")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body:\n%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()

	if !strings.Contains(body, "octocat&#39;s repositories") && !strings.Contains(body, "octocat's repositories") {
		t.Error("heading missing")
	}
	if !strings.Contains(body, "1 repositories") {
		t.Error("repository count missing")
	}
	if !strings.Contains(body, "hello-world") {
		t.Error("repo name missing")
	}
	// Loader data is present before the first render; no loading state.
	if strings.Contains(strings.ToLower(body), "loading") {
		t.Error("rendered page shows a loading indicator")
	}
	// The loaded data is dehydrated into the page for hydration.
	if !strings.Contains(body, "repos:octocat") {
		t.Error("cache entry missing from dehydrated state")
	}
}

func TestUserPageEmptyList(t *testing.T) {
	withMockGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	app := newDevApp(t)

	rec := get(t, app, "/users/octocat")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "0 repositories") {
		t.Error(`"0 repositories" missing`)
	}
	if !strings.Contains(body, "This user has no public repositories.") {
		t.Error("empty-state message missing")
	}
}

func TestUserPageUpstream404Becomes500(t *testing.T) {
	withMockGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	app := newDevApp(t)

	rec := get(t, app, "/users/doesnotexist123")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "doesnotexist123") {
		t.Error("username missing from diagnostic output")
	}
	if !strings.Contains(body, "not found") {
		t.Error("not-found condition missing from diagnostic output")
	}
}

func TestUpstreamServerErrorBecomes500(t *testing.T) {
	withMockGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	app := newDevApp(t)

	rec := get(t, app, "/users/octocat")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	app := newDevApp(t)

	rec := get(t, app, "/nope/deeper")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Error("not-found page content missing")
	}
}

func TestRequestCachesAreIndependent(t *testing.T) {
	hits := 0
	withMockGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	app := newDevApp(t)

	get(t, app, "/users/octocat")
	get(t, app, "/users/octocat")

	// Each request owns its cache, so nothing carries over between
	// requests and both hit the upstream.
	if hits != 2 {
		t.Errorf("upstream hits = %d, want 2", hits)
	}
}

func TestStaticAssetServed(t *testing.T) {
	app := newDevApp(t)

	rec := get(t, app, "/public/styles.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "margin") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStaticTraversalRejected(t *testing.T) {
	app := newDevApp(t)

	for _, path := range []string{
		"/public/../shell/index.html",
		"/public/..%2fshell/index.html",
		"/public//etc/passwd",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			t.Errorf("%s served, want rejection", path)
		}
	}
}

func TestClientScriptServed(t *testing.T) {
	app := newDevApp(t)

	rec := get(t, app, "/_strand/client.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "__STRAND_STATE__") {
		t.Error("bootstrap script does not read the state global")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDevShellEditTakesEffectWithoutRestart(t *testing.T) {
	app := newDevApp(t)

	first := get(t, app, "/")
	if !strings.Contains(first.Body.String(), "<title>Repo Viewer</title>") {
		t.Fatal("initial title missing")
	}

	// Rewrite the shell between requests; development mode must pick
	// up the new version.
	edited := strings.Replace(testShellHTML, "<title>Repo Viewer</title>", "<title>Edited</title>", 1)
	mustWrite(t, app.Config().Shell.Path, edited)

	second := get(t, app, "/")
	if !strings.Contains(second.Body.String(), "<title>Edited</title>") {
		t.Error("shell edit not reflected in next request")
	}
}

func TestPanicInRenderBecomes500(t *testing.T) {
	app := newDevApp(t)
	app.Page("/boom", strand.PageDef{
		Render: func(ctx strand.Ctx) *vdom.VNode {
			panic("exploded mid-render")
		},
	})

	rec := get(t, app, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "exploded mid-render") {
		t.Error("panic message missing from diagnostic page")
	}
	// Development mode includes the stack trace.
	if !strings.Contains(body, "goroutine") {
		t.Error("stack trace missing in development mode")
	}
}

func TestProdServesFromArtifacts(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "shell", "index.html"), testShellHTML)
	mustWrite(t, filepath.Join(root, "public", "styles.css"), ".prod { color: red }")

	cfg := strand.DefaultConfig()
	cfg.Env = strand.EnvProduction
	cfg.Shell.ArtifactDir = root
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := strand.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	routes.Register(app)

	rec := get(t, app, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body:\n%s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "<!--ssr-outlet-->") {
		t.Error("placeholder survived substitution")
	}

	// Assets come from the preloaded artifact set, not disk lookups.
	asset := get(t, app, "/public/styles.css")
	if asset.Code != http.StatusOK {
		t.Fatalf("asset status = %d, want 200", asset.Code)
	}
	if !strings.Contains(asset.Body.String(), ".prod") {
		t.Errorf("asset body = %q", asset.Body.String())
	}

	// Production keeps using the loaded shell even after the source
	// file changes.
	mustWrite(t, filepath.Join(root, "shell", "index.html"),
		strings.Replace(testShellHTML, "Repo Viewer", "Changed", 1))
	second := get(t, app, "/")
	if strings.Contains(second.Body.String(), "<title>Changed</title>") {
		t.Error("production re-read the shell from disk")
	}

	// No stack traces on production diagnostic pages.
	app.Page("/boom", strand.PageDef{
		Render: func(ctx strand.Ctx) *vdom.VNode { panic("prod panic") },
	})
	boom := get(t, app, "/boom")
	if boom.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", boom.Code)
	}
	if strings.Contains(boom.Body.String(), "goroutine") {
		t.Error("stack trace leaked on production diagnostic page")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STRAND_ENV", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("STRAND_S3_BUCKET", "my-builds")

	cfg := strand.FromEnv()
	if cfg.Env != strand.EnvDevelopment {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Shell.S3Bucket != "my-builds" {
		t.Errorf("S3Bucket = %q", cfg.Shell.S3Bucket)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STRAND_ENV", "")
	t.Setenv("PORT", "")

	cfg := strand.FromEnv()
	if cfg.Env != strand.EnvProduction {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
}
