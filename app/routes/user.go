package routes

import (
	"context"
	"time"

	"github.com/strand-dev/strand"
	"github.com/strand-dev/strand/pkg/github"
	"github.com/strand-dev/strand/pkg/query"
	. "github.com/strand-dev/strand/pkg/vdom"
)

// GitHub is the API client the user page loads from. Tests point it at
// a mock server.
var GitHub = github.New()

// repoStaleTime is the staleness window for cached repository lists.
const repoStaleTime = 30 * time.Second

func repoKey(username string) string {
	return "repos:" + username
}

// UserLoader fetches the user's repositories into the request cache.
// It runs to completion before UserPage renders, so the page never
// needs a loading state.
func UserLoader(ctx strand.Ctx) error {
	username := ctx.Param("username")
	_, err := query.Fetch(ctx.StdContext(), ctx.Cache(), repoKey(username), repoStaleTime,
		func(fctx context.Context) ([]github.Repo, error) {
			return GitHub.ListRepos(fctx, username)
		})
	return err
}

// UserPage renders the repository list from the cache the loader
// populated.
func UserPage(ctx strand.Ctx) *VNode {
	username := ctx.Param("username")

	var repos []github.Repo
	if entry, ok := ctx.Cache().Lookup(repoKey(username)); ok {
		repos, _ = entry.Value.([]github.Repo)
	}

	return Section(Class("user"),
		H1(Textf("%s's repositories", username)),
		P(Class("repo-count"), Textf("%d repositories", len(repos))),
		IfElse(len(repos) == 0,
			P(Class("empty-state"), Text("This user has no public repositories.")),
			Ul(Class("repo-list"),
				Range(repos, func(repo github.Repo, _ int) *VNode {
					return repoItem(repo)
				}),
			),
		),
	)
}

func repoItem(repo github.Repo) *VNode {
	return Li(Class("repo"),
		A(Href(repo.HTMLURL), Target("_blank"), Rel("noopener"),
			Strong(Text(repo.Name)),
		),
		When(repo.Description != "", func() *VNode {
			return P(Class("repo-description"), Text(repo.Description))
		}),
		Small(Class("repo-meta"),
			Textf("%d stars", repo.Stargazers),
			When(repo.Language != "", func() *VNode {
				return Span(Textf(" · %s", repo.Language))
			}),
			When(repo.UpdatedAt != "", func() *VNode {
				return Time(DateTime(repo.UpdatedAt), Textf(" · updated %s", repo.UpdatedAt))
			}),
		),
	)
}
