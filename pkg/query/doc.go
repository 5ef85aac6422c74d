// Package query is the per-request data cache behind page loaders.
//
// A fresh Cache is created for every server request and discarded with
// it; isolation between requests is by construction, not by locking
// discipline. Loaders populate the cache before rendering starts, the
// renderer reads it synchronously, and Dehydrate serializes it into the
// page for the client bootstrap to Hydrate.
//
//	repos, err := query.Fetch(ctx, cache, "repos:"+user, 30*time.Second, loadRepos)
//
// A failing fetch is retried once; staleness is purely time-based.
package query
