// Package artifact abstracts where production render artifacts (the
// built HTML shell, the client bundle, asset manifests) are stored.
// Deployments read them from local disk or from an S3 bucket.
package artifact

import "context"

// Store reads named build artifacts. Keys are slash-separated relative
// paths such as "index.html" or "assets/styles.css".
type Store interface {
	// Get returns the artifact's full contents.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
