package strand

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/strand-dev/strand/pkg/query"
)

// ssrContext implements router.Ctx for one server-rendered request.
// Every request gets its own context and its own query cache; nothing
// here outlives the response.
type ssrContext struct {
	request *http.Request
	params  map[string]string
	cache   *query.Cache
	logger  *slog.Logger
	values  map[any]any
}

func newSSRContext(r *http.Request, params map[string]string, logger *slog.Logger) *ssrContext {
	if params == nil {
		params = make(map[string]string)
	}
	return &ssrContext{
		request: r,
		params:  params,
		cache:   query.NewCache(),
		logger:  logger,
		values:  make(map[any]any),
	}
}

// Request info
func (c *ssrContext) Request() *http.Request       { return c.request }
func (c *ssrContext) Path() string                 { return c.request.URL.Path }
func (c *ssrContext) Method() string               { return c.request.Method }
func (c *ssrContext) Query() url.Values            { return c.request.URL.Query() }
func (c *ssrContext) QueryParam(key string) string { return c.request.URL.Query().Get(key) }
func (c *ssrContext) Param(key string) string      { return c.params[key] }
func (c *ssrContext) Header(key string) string     { return c.request.Header.Get(key) }

// Cache returns the request-scoped query cache.
func (c *ssrContext) Cache() *query.Cache { return c.cache }

func (c *ssrContext) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Context propagation
func (c *ssrContext) StdContext() context.Context { return c.request.Context() }

// Request-scoped values
func (c *ssrContext) SetValue(key, value any) { c.values[key] = value }
func (c *ssrContext) Value(key any) any       { return c.values[key] }
