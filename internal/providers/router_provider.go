package providers

import (
	"net/http"
	"vibes/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Use(middleware func(http.Handler) http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider collects routes; middlewares registered with Use wrap every
// route, the first registered being the outermost.
type RouterProvider struct {
	routes      []structures.Route
	middlewares []func(http.Handler) http.Handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(url, http.MethodGet, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(url, http.MethodPost, handler)
}

func (rp *RouterProvider) Use(middleware func(http.Handler) http.Handler) {
	rp.middlewares = append(rp.middlewares, middleware)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, len(rp.routes))
	for i, route := range rp.routes {
		h := route.Handler
		for j := len(rp.middlewares) - 1; j >= 0; j-- {
			h = rp.middlewares[j](h)
		}
		routes[i] = structures.Route{Url: route.Url, Handler: h}
	}
	return routes
}

func (rp *RouterProvider) add(url, method string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: methodHandler(method, handler),
	})
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
