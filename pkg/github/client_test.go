package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("path = %q, want /users/octocat/repos", r.URL.Path)
		}
		if r.URL.Query().Get("sort") != "updated" {
			t.Errorf("sort = %q, want updated", r.URL.Query().Get("sort"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "hello-world", "description": "First repo",
			 "html_url": "https://github.com/octocat/hello-world",
			 "stargazers_count": 42, "language": "Go",
			 "updated_at": "2024-01-15T10:00:00Z"}
		]`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	repos, err := c.ListRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListRepos: %v", err)
	}
	if len(repos) != 1 {
		t.Fatalf("len(repos) = %d, want 1", len(repos))
	}
	repo := repos[0]
	if repo.Name != "hello-world" || repo.Stargazers != 42 || repo.Language != "Go" {
		t.Errorf("repo = %+v", repo)
	}
}

func TestListReposEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	repos, err := New(WithBaseURL(srv.URL)).ListRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListRepos: %v", err)
	}
	if len(repos) != 0 {
		t.Errorf("len(repos) = %d, want 0", len(repos))
	}
}

func TestListReposNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).ListRepos(context.Background(), "doesnotexist123")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListReposServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).ListRepos(context.Background(), "octocat")

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fe.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", fe.StatusCode, http.StatusBadGateway)
	}
}
