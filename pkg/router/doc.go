// Package router maps URL paths to page definitions.
//
// Routes form a tree of path segments. Static segments match before
// parameter segments (:name), which match before catch-alls (*rest);
// the first full match wins and matching backtracks on dead ends.
// Unknown paths fall through to a registered not-found page.
//
// A matched page resolves in two strictly ordered steps: its loader
// runs to completion (populating the request's query cache), then its
// render function produces the tree. Rendering is never attempted
// concurrently with its own loader.
package router
