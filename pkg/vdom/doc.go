// Package vdom provides the render tree primitives for Strand pages.
//
// Pages build a *VNode tree with element constructors and attribute
// helpers:
//
//	Div(Class("repo"),
//	    H2(Text(repo.Name)),
//	    P(Text(repo.Description)),
//	)
//
// The tree is rendered to HTML by pkg/render in a single synchronous
// pass. Elements carrying event markers (OnClick, OnSubmit) receive
// hydration IDs so the client bootstrap can bind to them in the browser
// without a second render.
package vdom
