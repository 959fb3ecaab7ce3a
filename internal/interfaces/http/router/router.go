// Package router assembles the versioned HTTP API from per-area route groups.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the mount point of every business route
const APIPrefix = "/api/v1"

// RouteRegistrar mounts its routes on a parent group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under APIPrefix behind shared middleware
// (authentication, tracing, rate limiting).
type Router struct {
	engine     *gin.Engine
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

// WithMiddleware runs middleware before every API route
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, middleware...)
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts everything registered so far. It must be called once.
func (r *Router) Setup() {
	api := r.engine.Group(APIPrefix, r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Endpoint is one declared route, Path being relative to APIPrefix
type Endpoint struct {
	Area   string
	Method string
	Path   string
}

func (e Endpoint) String() string { return e.Method + " " + e.Path }

// Endpoints lists the routes declared by the domain groups registered so
// far. It does not need Setup.
func (r *Router) Endpoints() []Endpoint {
	var out []Endpoint
	for _, registrar := range r.registrars {
		if g, ok := registrar.(*DomainGroup); ok {
			out = g.endpoints("", out)
		}
	}
	return out
}

// DomainGroup is the route group of one business area (sales, stock...).
// Subgroups inherit its middleware.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group; name is reported as the Endpoint area
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (g *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *DomainGroup) add(method, p string, handlers []gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: p, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodGet, p, h)
}

func (g *DomainGroup) POST(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPost, p, h)
}

func (g *DomainGroup) PUT(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPut, p, h)
}

func (g *DomainGroup) PATCH(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPatch, p, h)
}

func (g *DomainGroup) DELETE(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodDelete, p, h)
}

// Group nests a subgroup under g's prefix
func (g *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(group)
	}
}

func (g *DomainGroup) endpoints(parent string, out []Endpoint) []Endpoint {
	base := path.Join(parent, g.prefix)
	for _, rt := range g.routes {
		full := base
		if rt.path != "" {
			full = path.Join(base, rt.path)
		}
		out = append(out, Endpoint{Area: g.name, Method: rt.method, Path: full})
	}
	for _, child := range g.children {
		out = child.endpoints(base, out)
	}
	return out
}
