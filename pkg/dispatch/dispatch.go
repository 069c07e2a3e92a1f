// Package dispatch adapts route handlers to net/http for generated routers.
//
// Generated code registers one http.Handler per URL pattern:
//
//	r.Handle("/users/{id}", dispatch.Methods{
//	    http.MethodGet:  dispatch.HandleParam("id", users.ParamIDGET),
//	    http.MethodPost: dispatch.HandleParam("id", users.ParamIDPOST),
//	})
//
// The adapters build a fresh *response.Res per request, call the handler and
// write whatever it returns.
package dispatch

import (
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/fileroute/pkg/response"
)

// Handler is a stateless route handler or wrapper.
type Handler func(r *http.Request, res *response.Res) *response.Res

// ParamHandler is a stateless handler for a route with one capture.
type ParamHandler func(r *http.Request, res *response.Res, param string) *response.Res

// StateHandler is a stateful route handler or wrapper.
type StateHandler[S any] func(state S, r *http.Request, res *response.Res) *response.Res

// StateParamHandler is a stateful handler for a route with one capture.
type StateParamHandler[S any] func(state S, r *http.Request, res *response.Res, param string) *response.Res

// Handle adapts a stateless handler.
func Handle(fn Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write(w, r, fn(r, response.New()))
	})
}

// HandleParam adapts a stateless handler whose route captures name.
func HandleParam(name string, fn ParamHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write(w, r, fn(r, response.New(), Param(r, name)))
	})
}

// HandleState adapts a stateful handler, passing state on every request.
func HandleState[S any](state S, fn StateHandler[S]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write(w, r, fn(state, r, response.New()))
	})
}

// HandleStateParam adapts a stateful handler whose route captures name.
func HandleStateParam[S any](state S, name string, fn StateParamHandler[S]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write(w, r, fn(state, r, response.New(), Param(r, name)))
	})
}

// Param returns the path-unescaped value of the named chi capture. It
// returns the raw value when unescaping fails.
func Param(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func write(w http.ResponseWriter, r *http.Request, res *response.Res) {
	if res == nil {
		slog.Error("route handler returned nil response",
			"method", r.Method,
			"path", r.URL.Path,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	res.ServeHTTP(w, r)
}

// Methods dispatches by HTTP method. HEAD falls back to GET. Any other
// unknown method gets 405 with an Allow header.
type Methods map[string]http.Handler

// ServeHTTP implements http.Handler.
func (m Methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h.ServeHTTP(w, r)
		return
	}
	if r.Method == http.MethodHead {
		if h, ok := m[http.MethodGet]; ok {
			h.ServeHTTP(w, r)
			return
		}
	}
	w.Header().Set("Allow", m.Allow())
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// Allow returns the sorted, comma separated method list.
func (m Methods) Allow() string {
	methods := make([]string, 0, len(m)+1)
	for method := range m {
		methods = append(methods, method)
	}
	if _, ok := m[http.MethodGet]; ok {
		if _, ok := m[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
