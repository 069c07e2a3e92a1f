package users

import (
	"html/template"
	"net/http"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

func ParamIDGET(state *store.Store, r *http.Request, res *response.Res, id string) *response.Res {
	u, ok := state.User(id)
	if !ok {
		return notFound(res, id)
	}
	return res.HTML("<h1>" + template.HTML(template.HTMLEscapeString(u.Name)) + "</h1>")
}

func ParamIDDELETE(state *store.Store, r *http.Request, res *response.Res, id string) *response.Res {
	if !state.DeleteUser(id) {
		return notFound(res, id)
	}
	return res.JSON(map[string]string{"deleted": id})
}

func notFound(res *response.Res, id string) *response.Res {
	return res.Status(http.StatusNotFound).JSON(map[string]string{"error": "no user " + id})
}
