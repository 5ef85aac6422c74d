package router

import "strings"

// routeNode is a node in the route tree.
type routeNode struct {
	// segment is the path segment this node matches
	segment string

	// isParam indicates this is a parameter segment (:id)
	isParam bool

	// isCatchAll indicates this is a catch-all segment (*slug)
	isCatchAll bool

	// paramName is the parameter name (without : or *)
	paramName string

	// handlers
	page   *PageDef
	layout LayoutHandler

	// children are static segment children
	children []*routeNode

	// paramChild is the dynamic parameter child (:id)
	paramChild *routeNode

	// catchAllChild is the catch-all child (*slug)
	catchAllChild *routeNode
}

func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment}
}

// findChild finds a child node with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

func (n *routeNode) addParamChild(name string) *routeNode {
	if n.paramChild != nil {
		return n.paramChild
	}
	child := newRouteNode("")
	child.isParam = true
	child.paramName = name
	n.paramChild = child
	return child
}

func (n *routeNode) addCatchAllChild(name string) *routeNode {
	if n.catchAllChild != nil {
		return n.catchAllChild
	}
	child := newRouteNode("")
	child.isCatchAll = true
	child.paramName = name
	n.catchAllChild = child
	return child
}

// insertRoute adds a route to the tree and returns the terminal node.
func (n *routeNode) insertRoute(path string) *routeNode {
	segments := splitPath(path)
	current := n

	for _, seg := range segments {
		if strings.HasPrefix(seg, "*") {
			// Catch-all consumes the rest of the path
			current = current.addCatchAllChild(seg[1:])
			break
		} else if strings.HasPrefix(seg, ":") {
			current = current.addParamChild(seg[1:])
		} else {
			current = current.addChild(seg)
		}
	}

	return current
}

// matchContext accumulates layouts during matching.
type matchContext struct {
	layouts []LayoutHandler
}

// match finds a node matching the given path segments.
// Static segments match before parameter segments, which match before
// catch-alls; the first full match wins, with backtracking on dead ends.
func (n *routeNode) match(segments []string, params map[string]string, ctx *matchContext) (*routeNode, *matchContext, bool) {
	if n.layout != nil {
		ctx.layouts = append(ctx.layouts, n.layout)
	}

	// Base case: no more segments
	if len(segments) == 0 {
		if n.page != nil {
			return n, ctx, true
		}
		// Index child handles trailing slash
		if child := n.findChild(""); child != nil {
			if child.layout != nil {
				ctx.layouts = append(ctx.layouts, child.layout)
			}
			if child.page != nil {
				return child, ctx, true
			}
		}
		return nil, nil, false
	}

	segment := segments[0]
	remaining := segments[1:]
	mark := len(ctx.layouts)

	// Exact match first
	if child := n.findChild(segment); child != nil {
		if node, mctx, ok := child.match(remaining, params, ctx); ok {
			return node, mctx, true
		}
		// Backtrack: drop layouts the failed branch collected.
		ctx.layouts = ctx.layouts[:mark]
	}

	// Parameter match
	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if node, mctx, ok := n.paramChild.match(remaining, params, ctx); ok {
			return node, mctx, true
		}
		delete(params, n.paramChild.paramName)
		ctx.layouts = ctx.layouts[:mark]
	}

	// Catch-all match
	if n.catchAllChild != nil {
		allSegments := append([]string{segment}, remaining...)
		params[n.catchAllChild.paramName] = strings.Join(allSegments, "/")
		if n.catchAllChild.layout != nil {
			ctx.layouts = append(ctx.layouts, n.catchAllChild.layout)
		}
		if n.catchAllChild.page != nil {
			return n.catchAllChild, ctx, true
		}
	}

	return nil, nil, false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
