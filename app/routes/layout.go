package routes

import (
	"github.com/strand-dev/strand"
	. "github.com/strand-dev/strand/pkg/vdom"
)

// RootLayout wraps every page with the site header and footer.
func RootLayout(ctx strand.Ctx, children *VNode) *VNode {
	return Div(Class("site"),
		Header(Class("site-header"),
			Nav(
				A(Href("/"), Class("brand"), Text("Repo Viewer")),
			),
		),
		Main(Class("site-main"), children),
		Footer(Class("site-footer"),
			Small(Text("Rendered on the server.")),
		),
	)
}
