package routes

import (
	"github.com/strand-dev/strand"
	. "github.com/strand-dev/strand/pkg/vdom"
)

// exampleUsers seed the index page with something to click.
var exampleUsers = []string{"octocat", "torvalds", "golang"}

// IndexPage renders the landing page. It has no loader; everything on
// it is static.
func IndexPage(ctx strand.Ctx) *VNode {
	return Section(Class("home"),
		H1(Text("GitHub Repository Viewer")),
		P(Text("Enter a username to browse their public repositories.")),
		Form(Class("user-search"), OnSubmit("search-user"),
			Label(Text("Username"),
				Input(Type("text"), Name("username"), Placeholder("octocat")),
			),
			Button(Type("submit"), Text("View repositories")),
		),
		H2(Text("Try one of these")),
		Ul(Class("example-users"),
			Range(exampleUsers, func(user string, _ int) *VNode {
				return Li(A(Href("/users/"+user), Text(user)))
			}),
		),
	)
}
