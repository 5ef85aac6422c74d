package render

import "strings"

const (
	textSpecials = `&<>"'`
	attrSpecials = textSpecials + "\n\r\t"
)

// textEscaper rewrites characters that are unsafe in HTML content
// positions.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// attrEscaper additionally rewrites whitespace that would break out of
// a quoted attribute value.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeHTML escapes text for an HTML content position. Most rendered
// text contains no specials, so clean strings pass through unchanged.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, textSpecials) {
		return s
	}
	return textEscaper.Replace(s)
}

// escapeAttr escapes text for a quoted attribute value.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, attrSpecials) {
		return s
	}
	return attrEscaper.Replace(s)
}
