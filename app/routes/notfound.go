package routes

import (
	"github.com/strand-dev/strand"
	. "github.com/strand-dev/strand/pkg/vdom"
)

// NotFoundPage renders for any path the route table does not know.
func NotFoundPage(ctx strand.Ctx) *VNode {
	return Section(Class("not-found"),
		H1(Text("Page not found")),
		P(Textf("Nothing lives at %s.", ctx.Path())),
		P(A(Href("/"), Text("Back to the home page"))),
	)
}
