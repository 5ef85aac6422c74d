package strand

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/strand-dev/strand/internal/artifact"
	"github.com/strand-dev/strand/internal/dev"
	"github.com/strand-dev/strand/internal/shell"
	"github.com/strand-dev/strand/pkg/render"
)

// RenderStrategy supplies the document shell and the HTML renderer for
// a request. Development re-derives the shell per request; production
// derives it once and reuses it.
type RenderStrategy interface {
	// LoadShell returns the parsed shell for this request.
	LoadShell(ctx context.Context) (*shell.Shell, error)

	// Renderer returns a fresh renderer for this request. Renderers
	// carry per-request hydration state and must not be shared.
	Renderer() *render.Renderer
}

// assetSource is implemented by strategies that carry the public
// assets in memory (production loading from an artifact store).
type assetSource interface {
	Asset(key string) ([]byte, bool)
}

// DevStrategy reads the shell file from disk and applies the
// development transform on every request, so shell edits take effect
// without a restart.
type DevStrategy struct {
	ShellPath   string
	AssetPrefix string
}

func (s *DevStrategy) LoadShell(_ context.Context) (*shell.Shell, error) {
	raw, err := os.ReadFile(s.ShellPath)
	if err != nil {
		return nil, fmt.Errorf("read shell %s: %w", s.ShellPath, err)
	}
	transformed, err := shell.Transform(raw, shell.TransformOptions{
		ReloadScript: DevFlagPath,
		AssetPrefix:  s.AssetPrefix,
	})
	if err != nil {
		return nil, err
	}
	return shell.Parse(transformed)
}

func (s *DevStrategy) Renderer() *render.Renderer {
	return render.NewRenderer(render.RendererConfig{Pretty: true})
}

// ReloadPath is where development browsers open the reload socket.
const ReloadPath = dev.ReloadPath

// DevFlagPath serves a one-line script that marks the page as running
// in development, which makes the bootstrap client open the reload
// socket.
const DevFlagPath = "/_strand/dev.js"

// ProdStrategy loads the shell and the public assets from an artifact
// store exactly once and serves every request from memory.
type ProdStrategy struct {
	Store artifact.Store

	// ShellKey is the shell artifact's key. Default "index.html".
	ShellKey string

	// AssetPrefix is the artifact key prefix for public assets.
	// Default "public/".
	AssetPrefix string

	once   sync.Once
	shell  *shell.Shell
	assets map[string][]byte
	err    error
}

func (s *ProdStrategy) LoadShell(ctx context.Context) (*shell.Shell, error) {
	s.load(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return s.shell, nil
}

func (s *ProdStrategy) Renderer() *render.Renderer {
	return render.NewRenderer(render.RendererConfig{})
}

// Asset returns a preloaded public asset by its relative key.
func (s *ProdStrategy) Asset(key string) ([]byte, bool) {
	s.load(context.Background())
	if s.err != nil {
		return nil, false
	}
	data, ok := s.assets[key]
	return data, ok
}

// load fetches the shell and every public asset concurrently. The
// result, success or failure, is final for the process lifetime.
func (s *ProdStrategy) load(ctx context.Context) {
	s.once.Do(func() {
		shellKey := s.ShellKey
		if shellKey == "" {
			shellKey = "index.html"
		}
		assetPrefix := s.AssetPrefix
		if assetPrefix == "" {
			assetPrefix = "public/"
		}

		var (
			mu     sync.Mutex
			assets = make(map[string][]byte)
			parsed *shell.Shell
		)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			raw, err := s.Store.Get(gctx, shellKey)
			if err != nil {
				return err
			}
			sh, err := shell.Parse(raw)
			if err != nil {
				return err
			}
			parsed = sh
			return nil
		})

		g.Go(func() error {
			keys, err := s.Store.List(gctx, assetPrefix)
			if err != nil {
				return err
			}
			ag, agctx := errgroup.WithContext(gctx)
			ag.SetLimit(8)
			for _, key := range keys {
				key := key
				ag.Go(func() error {
					data, err := s.Store.Get(agctx, key)
					if err != nil {
						return err
					}
					mu.Lock()
					assets[key[len(assetPrefix):]] = data
					mu.Unlock()
					return nil
				})
			}
			return ag.Wait()
		})

		if err := g.Wait(); err != nil {
			s.err = fmt.Errorf("load artifacts: %w", err)
			return
		}
		s.shell = parsed
		s.assets = assets
	})
}

// newStrategy builds the strategy the config calls for.
func newStrategy(ctx context.Context, cfg Config) (RenderStrategy, error) {
	if cfg.DevMode() {
		return &DevStrategy{
			ShellPath:   cfg.Shell.Path,
			AssetPrefix: cfg.Static.Prefix,
		}, nil
	}

	// Artifact layout mirrors the app directory: shell/index.html plus
	// everything under public/.
	var store artifact.Store
	if cfg.Shell.S3Bucket != "" {
		s3store, err := artifact.OpenS3Store(ctx, cfg.Shell.S3Bucket, cfg.Shell.S3Prefix)
		if err != nil {
			return nil, err
		}
		store = s3store
	} else {
		dir := cfg.Shell.ArtifactDir
		if dir == "" {
			dir = "app"
		}
		store = artifact.NewDiskStore(dir)
	}

	return &ProdStrategy{Store: store, ShellKey: "shell/index.html"}, nil
}
