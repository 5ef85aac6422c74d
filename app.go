package strand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	clientdist "github.com/strand-dev/strand/client/dist"
	"github.com/strand-dev/strand/internal/dev"
	ierrors "github.com/strand-dev/strand/internal/errors"
	"github.com/strand-dev/strand/pkg/github"
	"github.com/strand-dev/strand/pkg/render"
	"github.com/strand-dev/strand/pkg/router"
)

// App is the application entry point. It wraps the router, the render
// strategy and asset serving into a single http.Handler.
//
//	app, err := strand.New(strand.FromEnv())
//	routes.Register(app)
//	http.ListenAndServe(":3000", app)
type App struct {
	router   *router.Router
	strategy RenderStrategy

	staticFS http.FileSystem

	reload  *dev.ReloadServer
	watcher *dev.Watcher

	config Config
	logger *slog.Logger
}

// New creates an application with the given configuration.
func New(cfg Config) (*App, error) {
	if cfg.Port == 0 {
		cfg.Port = DefaultConfig().Port
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = DefaultConfig().Static.Prefix
	}
	if cfg.Shell.Path == "" {
		cfg.Shell.Path = DefaultConfig().Shell.Path
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	strategy, err := newStrategy(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		router:   router.New(),
		strategy: strategy,
		config:   cfg,
		logger:   logger,
	}

	if cfg.DevMode() {
		if cfg.Static.Dir != "" {
			app.staticFS = http.Dir(cfg.Static.Dir)
		}
		app.reload = dev.NewReloadServer()
	}

	return app, nil
}

// Page registers a page definition for a path.
func (a *App) Page(path string, def router.PageDef) {
	a.router.Page(path, def)
}

// Layout registers a layout for a path subtree.
func (a *App) Layout(path string, handler router.LayoutHandler) {
	a.router.Layout(path, handler)
}

// SetNotFound sets the page rendered for unmatched paths.
func (a *App) SetNotFound(fn router.RenderFunc) {
	a.router.SetNotFound(fn)
}

// Router exposes the underlying router for advanced configuration.
func (a *App) Router() *router.Router { return a.router }

// Config returns the app configuration.
func (a *App) Config() Config { return a.config }

// ServeHTTP implements http.Handler. Requests route to assets,
// framework endpoints, or server-rendered pages.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if strings.HasPrefix(path, "/_strand/") {
		a.serveFramework(w, r)
		return
	}

	if a.isStaticPath(path) {
		a.serveStatic(w, r)
		return
	}

	// Pages render for any method; the route table matches on path
	// alone.
	match, found := a.router.Match(path)
	if !found {
		http.NotFound(w, r)
		return
	}

	a.renderPage(w, r, match)
}

// serveFramework handles the /_strand/ endpoints: the bootstrap
// client, the dev flag script, and the reload socket.
func (a *App) serveFramework(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case render.DefaultClientScript:
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Write(clientdist.StrandJS)
	case DevFlagPath:
		if a.reload == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Write(clientdist.DevFlagJS)
	case dev.ReloadPath:
		if a.reload == nil {
			http.NotFound(w, r)
			return
		}
		a.reload.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// renderPage runs the full pipeline for one request: load the shell,
// run the loader, render the tree, dehydrate the cache, splice into
// the shell. Every failure in that pipeline, including panics, becomes
// the diagnostic 500 page; nothing escapes past this boundary.
func (a *App) renderPage(w http.ResponseWriter, r *http.Request, match *router.MatchResult) {
	ctx := newSSRContext(r, match.Params, a.logger)

	var page string
	err := func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = ierrors.Recovered(v)
			}
		}()

		sh, err := a.strategy.LoadShell(ctx.StdContext())
		if err != nil {
			return ierrors.Wrap(ierrors.CategoryShell, "load shell", err)
		}

		node, err := a.router.Render(ctx, match)
		if err != nil {
			return classifyRenderErr(err)
		}

		markup, err := a.strategy.Renderer().RenderToString(node)
		if err != nil {
			return ierrors.Wrap(ierrors.CategoryRender, "render page", err)
		}

		state, err := ctx.Cache().Dehydrate()
		if err != nil {
			return ierrors.Wrap(ierrors.CategoryRender, "dehydrate state", err)
		}

		var boot strings.Builder
		if err := render.WriteBootScripts(&boot, render.BootScripts{State: state}); err != nil {
			return ierrors.Wrap(ierrors.CategoryRender, "boot scripts", err)
		}

		page = sh.SubstituteParts(markup, "\n", boot.String())
		return nil
	}()

	if err != nil {
		a.serveError(w, r, err)
		return
	}

	status := http.StatusOK
	if match.NotFound {
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, page)
}

// serveError writes the diagnostic page. Stack traces only show in
// development.
func (a *App) serveError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"error", err,
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprint(w, ierrors.FormatHTML(err, a.config.DevMode()))
}

// classifyRenderErr maps loader and render failures to categories for
// the diagnostic page.
func classifyRenderErr(err error) error {
	var re *ierrors.RenderError
	if errors.As(err, &re) {
		return err
	}
	if errors.Is(err, github.ErrNotFound) {
		return ierrors.Wrap(ierrors.CategoryUpstreamNotFound, "load page data", err)
	}
	var fe *github.FetchError
	if errors.As(err, &fe) {
		return ierrors.Wrap(ierrors.CategoryUpstreamFailure, "load page data", err)
	}
	return ierrors.Wrap(ierrors.CategoryRender, "render page", err)
}

// StartDevReload begins watching the shell and public directories and
// broadcasts reload messages to connected browsers. It blocks until
// ctx is cancelled; run it in its own goroutine. A no-op outside
// development.
func (a *App) StartDevReload(ctx context.Context) error {
	if a.reload == nil {
		return nil
	}

	a.watcher = dev.NewWatcher(dev.WatcherConfig{
		Paths: watchPaths(a.config),
	})
	a.watcher.OnChange(func(c dev.Change) {
		switch c.Kind {
		case dev.ChangeCSS:
			a.logger.Debug("css changed", "path", c.Path)
			a.reload.NotifyCSS(c.Path)
		default:
			a.logger.Debug("file changed", "path", c.Path)
			a.reload.NotifyReload()
		}
	})

	err := a.watcher.Start(ctx)
	a.reload.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func watchPaths(cfg Config) []string {
	var paths []string
	if cfg.Shell.Path != "" {
		paths = append(paths, dirOf(cfg.Shell.Path))
	}
	if cfg.Static.Dir != "" {
		paths = append(paths, cfg.Static.Dir)
	}
	return paths
}

func dirOf(p string) string {
	if idx := strings.LastIndexByte(p, '/'); idx > 0 {
		return p[:idx]
	}
	return "."
}
