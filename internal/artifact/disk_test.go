package artifact

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiskStoreGet(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"shell/index.html": "<html><!--ssr-outlet--></html>",
	})

	store := NewDiskStore(dir)
	data, err := store.Get(context.Background(), "shell/index.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "<html><!--ssr-outlet--></html>" {
		t.Errorf("data = %q", data)
	}

	if _, err := store.Get(context.Background(), "missing.html"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestDiskStoreList(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"public/styles.css":  "css",
		"public/app.js":      "js",
		"public/img/logo.px": "img",
		"shell/index.html":   "html",
	})

	store := NewDiskStore(dir)
	keys, err := store.List(context.Background(), "public/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(keys)

	want := []string{"public/app.js", "public/img/logo.px", "public/styles.css"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"ok.txt": "ok"})

	store := NewDiskStore(dir)
	for _, key := range []string{"", "../secret", "a/../../secret"} {
		if data, err := store.Get(context.Background(), key); err == nil && len(data) > 0 {
			t.Errorf("key %q escaped the root", key)
		}
	}
}
