package dispatch

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/fileroute/pkg/response"
)

type appState struct {
	name string
}

func serve(t *testing.T, pattern string, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Handle(pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	h := Handle(func(r *http.Request, res *response.Res) *response.Res {
		return res.HTML("<p>home</p>")
	})

	rec := serve(t, "/", h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>home</p>", rec.Body.String())
}

func TestHandleParam(t *testing.T) {
	h := HandleParam("id", func(r *http.Request, res *response.Res, id string) *response.Res {
		return res.HTML(template.HTML("user " + id))
	})

	rec := serve(t, "/users/{id}", h, http.MethodGet, "/users/a%20b")
	assert.Equal(t, "user a b", rec.Body.String())
}

func TestHandleState(t *testing.T) {
	state := &appState{name: "demo"}
	h := HandleState(state, func(s *appState, r *http.Request, res *response.Res) *response.Res {
		return res.JSON(map[string]string{"app": s.name})
	})

	rec := serve(t, "/", h, http.MethodGet, "/")
	assert.JSONEq(t, `{"app":"demo"}`, rec.Body.String())
}

func TestHandleStateParam(t *testing.T) {
	h := HandleStateParam(42, "slug", func(n int, r *http.Request, res *response.Res, slug string) *response.Res {
		if n != 42 {
			return res.Status(http.StatusTeapot)
		}
		return res.Raw([]byte(slug))
	})

	rec := serve(t, "/posts/{slug}", h, http.MethodGet, "/posts/hello")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestNilResponse(t *testing.T) {
	h := Handle(func(r *http.Request, res *response.Res) *response.Res { return nil })

	rec := serve(t, "/", h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMethods(t *testing.T) {
	ok := func(body string) http.Handler {
		return Handle(func(r *http.Request, res *response.Res) *response.Res {
			return res.Raw([]byte(body))
		})
	}
	m := Methods{
		http.MethodGet:  ok("get"),
		http.MethodPost: ok("post"),
	}

	tests := []struct {
		method     string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, http.StatusOK, "get"},
		{http.MethodPost, http.StatusOK, "post"},
		{http.MethodHead, http.StatusOK, ""},
		{http.MethodDelete, http.StatusMethodNotAllowed, "Method Not Allowed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := serve(t, "/items", m, tt.method, "/items")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}

	rec := serve(t, "/items", m, http.MethodPut, "/items")
	assert.Equal(t, "GET, HEAD, POST", rec.Header().Get("Allow"))
}

func TestAllowWithoutGet(t *testing.T) {
	m := Methods{http.MethodPatch: http.NotFoundHandler(), http.MethodDelete: http.NotFoundHandler()}
	assert.Equal(t, "DELETE, PATCH", m.Allow())
}

func TestParamUnescapeFailure(t *testing.T) {
	var got string
	h := HandleParam("q", func(r *http.Request, res *response.Res, q string) *response.Res {
		got = q
		return res
	})

	req := httptest.NewRequest(http.MethodGet, "/search/x", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("q", "100%")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "100%", got)
}
