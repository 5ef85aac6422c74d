// Package render serializes vdom trees to HTML.
//
// Rendering is a single synchronous pass with no suspension points:
// by the time a tree reaches the renderer, every loader has already
// completed, so the output never contains loading placeholders.
//
// Besides the tree itself, the package writes the boot scripts that
// carry the dehydrated query cache and the bootstrap client reference
// into the page (WriteBootScripts).
package render
