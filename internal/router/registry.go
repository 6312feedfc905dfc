package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// BasePath prefixes every user-api route.
const BasePath = "/user-api"

// Module is a feature slice that mounts its routes under the base group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(BasePath)}
}

// Use adds middleware applied to every module route, not to the whole engine.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	if mod != nil {
		r.modules = append(r.modules, mod)
	}
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Routes lists "METHOD path" for every route mounted under BasePath.
func (r *Registry) Routes() []string {
	var out []string
	for _, ri := range r.Engine.Routes() {
		if strings.HasPrefix(ri.Path, BasePath) {
			out = append(out, ri.Method+" "+ri.Path)
		}
	}
	return out
}
