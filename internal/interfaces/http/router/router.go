package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteInfo describes one mounted endpoint
type RouteInfo struct {
	Group  string
	Method string
	Path   string
}

// API collects route groups under a versioned prefix ("/api/v1")
type API struct {
	version string
	groups  []*RouteGroup
}

// APIOption is a functional option for API
type APIOption func(*API)

// WithAPIVersion overrides the default "v1" prefix segment
func WithAPIVersion(version string) APIOption {
	return func(a *API) {
		a.version = version
	}
}

// NewAPI creates an empty API
func NewAPI(opts ...APIOption) *API {
	a := &API{version: "v1"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BasePath returns the versioned prefix shared by every group
func (a *API) BasePath() string {
	return "/api/" + a.version
}

// Group adds a named group mounted at prefix
func (a *API) Group(name, prefix string, middleware ...gin.HandlerFunc) *RouteGroup {
	g := &RouteGroup{name: name, prefix: prefix, middleware: middleware}
	a.groups = append(a.groups, g)
	return g
}

// Mount registers every group on the engine and returns the mounted routes
// in registration order.
func (a *API) Mount(engine *gin.Engine) []RouteInfo {
	api := engine.Group(a.BasePath())
	var mounted []RouteInfo
	for _, g := range a.groups {
		rg := api.Group(g.prefix, g.middleware...)
		for _, r := range g.routes {
			rg.Handle(r.method, r.path, r.handlers...)
			mounted = append(mounted, RouteInfo{
				Group:  g.name,
				Method: r.method,
				Path:   path.Join(a.BasePath(), g.prefix, r.path),
			})
		}
	}
	return mounted
}

// RouteGroup is a set of read-only endpoints sharing a prefix and middleware
type RouteGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// GET adds a GET endpoint. The population API exposes no other method.
func (g *RouteGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *RouteGroup {
	g.routes = append(g.routes, route{method: http.MethodGet, path: relativePath, handlers: handlers})
	return g
}

// Name returns the group name
func (g *RouteGroup) Name() string { return g.name }
