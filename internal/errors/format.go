package errors

import (
	goerrors "errors"
	"fmt"
	"html"
	"strings"
)

// FormatHTML renders err as the diagnostic page body served with a 500
// status. The error chain text is always included; the stack trace only
// when includeStack is set (development mode). Production deployments
// never leak stack frames to clients.
func FormatHTML(err error, includeStack bool) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<title>Render Error</title>\n")
	b.WriteString("<style>body{font-family:system-ui;padding:40px;background:#1a1a1a;color:#fff}" +
		"h1{color:#ff5555}pre{background:#111;padding:16px;overflow:auto;color:#ccc}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>Render Error</h1>\n")

	var re *RenderError
	if goerrors.As(err, &re) {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(categoryLabel(re.Category)))
	}

	fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(err.Error()))

	if includeStack && re != nil && re.Stack != "" {
		fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(re.Stack))
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// categoryLabel maps a category to its user-facing description.
func categoryLabel(c Category) string {
	switch c {
	case CategoryUpstreamNotFound:
		return "The requested resource was not found upstream."
	case CategoryUpstreamFailure:
		return "The upstream data source failed."
	case CategoryShell:
		return "The HTML shell could not be loaded."
	case CategoryRender:
		return "The page failed to render."
	default:
		return "The request failed."
	}
}
