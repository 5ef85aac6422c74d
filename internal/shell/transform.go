package shell

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TransformOptions controls the development-mode shell rewrite that
// runs on every request before the shell is parsed.
type TransformOptions struct {
	// ReloadScript, when non-empty, is injected as a deferred script
	// tag at the end of <head> so the browser connects to the reload
	// socket.
	ReloadScript string

	// AssetPrefix rewrites root-relative href/src references (other
	// than framework paths) to live under the given prefix.
	AssetPrefix string
}

// Transform parses raw shell HTML, applies the development rewrites,
// and serializes it back. The outlet comment survives the round trip
// because the parser preserves comment nodes.
func Transform(raw []byte, opts TransformOptions) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("shell: parse: %w", err)
	}

	if opts.AssetPrefix != "" {
		rewriteAttr(doc, "link[href]", "href", opts.AssetPrefix)
		rewriteAttr(doc, "script[src]", "src", opts.AssetPrefix)
		rewriteAttr(doc, "img[src]", "src", opts.AssetPrefix)
	}

	if opts.ReloadScript != "" {
		doc.Find("head").AppendHtml(
			fmt.Sprintf(`<script src=%q defer></script>`, opts.ReloadScript))
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("shell: serialize: %w", err)
	}
	return []byte(out), nil
}

// rewriteAttr prefixes root-relative attribute values on matching
// elements, skipping absolute URLs and already-prefixed paths.
func rewriteAttr(doc *goquery.Document, selector, attr, prefix string) {
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		val, ok := sel.Attr(attr)
		if !ok || val == "" {
			return
		}
		if !strings.HasPrefix(val, "/") || strings.HasPrefix(val, "//") {
			return
		}
		if strings.HasPrefix(val, prefix) || strings.HasPrefix(val, "/_strand/") {
			return
		}
		sel.SetAttr(attr, prefix+strings.TrimPrefix(val, "/"))
	})
}
