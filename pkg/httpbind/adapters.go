package httpbind

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

// Routes is the mountable handler pair for one table, with its
// middleware already applied.
type Routes struct {
	// Table serves the JSON view model.
	Table http.Handler
	// Export streams file exports.
	Export http.Handler
}

// NewRoutes wraps a handler's endpoints with shared middleware, plus
// extra middleware for the export endpoint (typically a rate limiter).
func NewRoutes[T any](h *Handler[T], shared []Middleware, exportExtra ...Middleware) Routes {
	exportChain := append(append([]Middleware{}, shared...), exportExtra...)
	return Routes{
		Table:  Chain(http.HandlerFunc(h.Table), shared...),
		Export: Chain(http.HandlerFunc(h.Export), exportChain...),
	}
}

// MountGin registers the routes on a gin engine under path and
// path + "/export".
func MountGin(engine *gin.Engine, path string, routes Routes) {
	engine.GET(path, gin.WrapH(routes.Table))
	engine.GET(path+"/export", gin.WrapH(routes.Export))
}

// MountGorilla registers the routes on a gorilla/mux router under path
// and path + "/export".
func MountGorilla(router *mux.Router, path string, routes Routes) {
	router.Handle(path, routes.Table).Methods(http.MethodGet)
	router.Handle(path+"/export", routes.Export).Methods(http.MethodGet)
}
