// Package strand provides the public API for the Strand server-side
// rendering framework.
//
// This is the recommended import for most applications:
//
//	import "github.com/strand-dev/strand"
//
// Usage:
//
//	app, err := strand.New(strand.FromEnv())
//	app.Page("/", strand.PageDef{Render: IndexPage})
//	app.Page("/users/:username", strand.PageDef{
//	    Loader: UserLoader,
//	    Render: UserPage,
//	})
//	http.ListenAndServe(":3000", app)
package strand

import (
	"github.com/strand-dev/strand/pkg/router"
	"github.com/strand-dev/strand/pkg/vdom"
)

// Ctx is the per-request context handed to loaders, render functions
// and layouts.
type Ctx = router.Ctx

// Loader fetches a page's data before the first render.
type Loader = router.Loader

// RenderFunc produces a page's render tree.
type RenderFunc = router.RenderFunc

// LayoutHandler wraps page content.
type LayoutHandler = router.LayoutHandler

// PageDef is one page definition: an optional loader plus a render
// function.
type PageDef = router.PageDef

// VNode is a node in the render tree.
type VNode = vdom.VNode
