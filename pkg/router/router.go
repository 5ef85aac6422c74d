package router

import (
	"fmt"

	"github.com/strand-dev/strand/pkg/vdom"
)

// Router maps URL paths to page definitions and resolves requests into
// render trees.
type Router struct {
	root     *routeNode
	notFound *PageDef
}

// New creates an empty router.
func New() *Router {
	return &Router{
		root: newRouteNode(""),
	}
}

// Page registers a page definition for a path.
//
//	r.Page("/", router.PageDef{Render: routes.IndexPage})
//	r.Page("/users/:username", router.PageDef{
//	    Loader: routes.UserLoader,
//	    Render: routes.UserPage,
//	})
func (r *Router) Page(path string, def PageDef) {
	if def.Render == nil {
		panic(fmt.Sprintf("router: page %q has no render function", path))
	}
	node := r.root.insertRoute(path)
	node.page = &def
}

// Layout registers a layout handler for a path. Layouts apply to every
// page at or below that path.
func (r *Router) Layout(path string, handler LayoutHandler) {
	node := r.root.insertRoute(path)
	node.layout = handler
}

// SetNotFound sets the fallback page for unmatched paths. The fallback
// never has a loader.
func (r *Router) SetNotFound(render RenderFunc) {
	r.notFound = &PageDef{Render: render}
}

// Match finds the page definition for a path. Unknown paths fall
// through to the not-found page when one is registered; the second
// return is false only when there is no registered fallback either.
func (r *Router) Match(path string) (*MatchResult, bool) {
	params := make(map[string]string)
	ctx := &matchContext{}

	node, mctx, ok := r.root.match(splitPath(path), params, ctx)
	if ok {
		return &MatchResult{
			Page:    *node.page,
			Params:  params,
			Layouts: mctx.layouts,
		}, true
	}

	if r.notFound != nil {
		// The root layout still applies to the not-found page.
		var layouts []LayoutHandler
		if r.root.layout != nil {
			layouts = append(layouts, r.root.layout)
		}
		return &MatchResult{
			Page:     *r.notFound,
			Params:   map[string]string{},
			Layouts:  layouts,
			NotFound: true,
		}, true
	}

	return nil, false
}

// Render runs the matched page's loader to completion, renders the page
// and applies layouts. The loader always finishes (or fails) before the
// render function is called; a loader failure propagates up unwrapped
// so the dispatcher's catch path sees the original error.
func (r *Router) Render(ctx Ctx, match *MatchResult) (*vdom.VNode, error) {
	if match.Page.Loader != nil {
		if err := match.Page.Loader(ctx); err != nil {
			return nil, err
		}
	}

	node := match.Page.Render(ctx)
	if node == nil {
		return nil, fmt.Errorf("router: page for %q rendered nil", ctx.Path())
	}

	// Apply layouts innermost to outermost, so the root layout wraps last.
	for i := len(match.Layouts) - 1; i >= 0; i-- {
		node = match.Layouts[i](ctx, node)
	}

	return node, nil
}
