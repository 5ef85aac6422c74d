package vdom

import "testing"

func TestCreateElementArgs(t *testing.T) {
	node := Div(
		ID("main"),
		Class("wide", "tall"),
		P(Text("hello")),
		"inline text",
	)

	if node.Tag != "div" {
		t.Errorf("Tag = %q, want div", node.Tag)
	}
	if node.Props["id"] != "main" {
		t.Errorf("id = %v, want main", node.Props["id"])
	}
	if node.Props["class"] != "wide tall" {
		t.Errorf("class = %v, want %q", node.Props["class"], "wide tall")
	}
	if len(node.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(node.Children))
	}
	if node.Children[1].Kind != KindText || node.Children[1].Text != "inline text" {
		t.Errorf("string arg not converted to a text node: %+v", node.Children[1])
	}
}

func TestCreateElementSkipsNil(t *testing.T) {
	node := Div(nil, If(false, P(Text("hidden"))))
	if len(node.Children) != 0 {
		t.Errorf("len(Children) = %d, want 0", len(node.Children))
	}
}

func TestIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{"button with click handler", Button(OnClick("save"), Text("Save")), true},
		{"form with submit handler", Form(OnSubmit("search")), true},
		{"plain div", Div(Class("x")), false},
		{"text node", Text("hi"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFragmentAndRange(t *testing.T) {
	items := []string{"a", "b", "c"}
	node := Ul(Range(items, func(item string, i int) *VNode {
		return Li(Text(item))
	}))

	if len(node.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(node.Children))
	}
	for i, item := range items {
		if node.Children[i].Children[0].Text != item {
			t.Errorf("child %d = %q, want %q", i, node.Children[i].Children[0].Text, item)
		}
	}
}

func TestHIDGeneratorSequence(t *testing.T) {
	g := NewHIDGenerator()
	if got := g.Next(); got != "h1" {
		t.Errorf("first = %q, want h1", got)
	}
	if got := g.Next(); got != "h2" {
		t.Errorf("second = %q, want h2", got)
	}
	g.Reset()
	if got := g.Next(); got != "h1" {
		t.Errorf("after reset = %q, want h1", got)
	}
}

func TestAssignHIDs(t *testing.T) {
	tree := Div(
		Button(OnClick("one"), Text("One")),
		P(Text("static")),
		Form(OnSubmit("two"),
			Button(OnClick("three"), Text("Three")),
		),
	)

	AssignHIDs(tree, NewHIDGenerator())

	// Document order: the first button, then the form, then the
	// nested button.
	if got := tree.Children[0].HID; got != "h1" {
		t.Errorf("first button HID = %q, want h1", got)
	}
	if got := tree.Children[1].HID; got != "" {
		t.Errorf("static paragraph HID = %q, want none", got)
	}
	if got := tree.Children[2].HID; got != "h2" {
		t.Errorf("form HID = %q, want h2", got)
	}
	if got := tree.Children[2].Children[0].HID; got != "h3" {
		t.Errorf("nested button HID = %q, want h3", got)
	}
}
