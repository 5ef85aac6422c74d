// Package routes defines the demo application: a GitHub repository
// viewer. The index page links to user pages; each user page loads the
// user's repositories before rendering.
package routes

import (
	"github.com/strand-dev/strand"
)

// Register wires the application's pages into the app.
func Register(app *strand.App) {
	app.Layout("/", RootLayout)
	app.Page("/", strand.PageDef{Render: IndexPage})
	app.Page("/users/:username", strand.PageDef{
		Loader: UserLoader,
		Render: UserPage,
	})
	app.SetNotFound(NotFoundPage)
}
