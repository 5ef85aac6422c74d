package strand

import (
	"bytes"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// staticRelPath returns a sanitized relative path for an asset request.
// It rejects traversal and absolute-path tricks so asset serving cannot
// escape the configured directory or artifact prefix.
func (a *App) staticRelPath(urlPath string) (string, bool) {
	rel := a.stripStaticPrefix(urlPath)
	if rel == "" {
		return "", false
	}

	// NUL can appear via %00.
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// A leading "/" after prefix stripping indicates an absolute-path
	// attempt ("/public//etc/passwd" => "/etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning so traversal attempts are not
	// silently rewritten into a different request.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// stripStaticPrefix removes the asset URL prefix from a request path,
// returning the relative asset path or "" when the path is not under
// the prefix.
func (a *App) stripStaticPrefix(urlPath string) string {
	prefix := a.config.Static.Prefix
	if prefix == "" {
		prefix = "/public/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return ""
	}
	return strings.TrimPrefix(urlPath, prefix)
}

// isStaticPath reports whether the request path falls under the asset
// prefix.
func (a *App) isStaticPath(urlPath string) bool {
	_, ok := a.staticRelPath(urlPath)
	return ok
}

// serveStatic serves an asset in development from the public directory
// on disk, in production from the preloaded artifact set.
func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := a.staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if assets, ok := a.strategy.(assetSource); ok {
		data, found := assets.Asset(rel)
		if !found {
			http.NotFound(w, r)
			return
		}
		setContentType(w, rel)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		http.ServeContent(w, r, rel, time.Time{}, bytes.NewReader(data))
		return
	}

	if a.staticFS == nil {
		http.NotFound(w, r)
		return
	}
	f, err := a.staticFS.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	// Development serving skips caching so edits show immediately.
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	http.ServeContent(w, r, rel, info.ModTime(), f)
}

func setContentType(w http.ResponseWriter, name string) {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
}
