package router

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/strand-dev/strand/pkg/query"
	"github.com/strand-dev/strand/pkg/vdom"
)

// Ctx is the per-request context handed to loaders, render functions
// and layouts. It is implemented by the root package's SSR context.
type Ctx interface {
	// Request info
	Request() *http.Request
	Path() string
	Method() string
	Query() url.Values
	QueryParam(key string) string
	Param(key string) string
	Header(key string) string

	// Cache is the request-scoped query cache. Loaders populate it,
	// render functions read it.
	Cache() *query.Cache

	// Logging
	Logger() *slog.Logger

	// Context propagation for blocking calls made by loaders.
	StdContext() context.Context

	// Request-scoped values
	SetValue(key, value any)
	Value(key any) any
}

// Loader fetches the data a page needs, populating the request's query
// cache. It runs to completion (or failure) before the render function
// is called; the first render pass never sees missing data.
type Loader func(ctx Ctx) error

// RenderFunc produces the page's render tree from already-loaded data.
type RenderFunc func(ctx Ctx) *vdom.VNode

// LayoutHandler wraps page content. Layouts apply innermost to
// outermost along the matched path.
type LayoutHandler func(ctx Ctx, children *vdom.VNode) *vdom.VNode

// PageDef is one page definition: an optional loader plus a render
// function. Declared at startup, immutable thereafter.
type PageDef struct {
	Loader Loader
	Render RenderFunc
}

// MatchResult is the outcome of matching a path against the route table.
type MatchResult struct {
	Page     PageDef
	Params   map[string]string
	Layouts  []LayoutHandler
	NotFound bool
}
