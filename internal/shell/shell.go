// Package shell loads the HTML document shell and splices rendered
// page markup into it.
package shell

import (
	"fmt"
	"os"
	"strings"
)

// Outlet is the placeholder the shell must contain. Rendered page
// markup replaces it verbatim.
const Outlet = "<!--ssr-outlet-->"

// Shell is a parsed HTML document shell split around the outlet
// placeholder so substitution is a concatenation, not a search.
type Shell struct {
	head string
	tail string
}

// Parse splits raw shell HTML around the outlet placeholder. The
// placeholder must appear exactly once.
func Parse(raw []byte) (*Shell, error) {
	s := string(raw)
	idx := strings.Index(s, Outlet)
	if idx == -1 {
		return nil, fmt.Errorf("shell: missing %s placeholder", Outlet)
	}
	if strings.Contains(s[idx+len(Outlet):], Outlet) {
		return nil, fmt.Errorf("shell: %s placeholder appears more than once", Outlet)
	}
	return &Shell{
		head: s[:idx],
		tail: s[idx+len(Outlet):],
	}, nil
}

// Load reads and parses the shell file at path.
func Load(path string) (*Shell, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shell: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Substitute returns the full document with markup in place of the
// outlet.
func (s *Shell) Substitute(markup string) string {
	var b strings.Builder
	b.Grow(len(s.head) + len(markup) + len(s.tail))
	b.WriteString(s.head)
	b.WriteString(markup)
	b.WriteString(s.tail)
	return b.String()
}

// SubstituteParts splices markup followed by extra trailing fragments
// (boot scripts) before the shell tail.
func (s *Shell) SubstituteParts(markup string, extra ...string) string {
	n := len(s.head) + len(markup) + len(s.tail)
	for _, e := range extra {
		n += len(e)
	}
	var b strings.Builder
	b.Grow(n)
	b.WriteString(s.head)
	b.WriteString(markup)
	for _, e := range extra {
		b.WriteString(e)
	}
	b.WriteString(s.tail)
	return b.String()
}
