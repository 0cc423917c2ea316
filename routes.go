package fragmentgw

import "net/http"

// RouteRegistrar is the minimal HTTP-server collaborator this engine needs:
// a place to register the one-shot stylesheet static route. It is
// satisfied by *http.ServeMux and by github.com/go-chi/chi/v5's Mux
// (see cmd/fragmentgw-demo), keeping routing itself out of scope.
type RouteRegistrar interface {
	Handle(pattern string, handler http.Handler)
}
