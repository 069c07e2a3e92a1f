package users

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

func GET(state *store.Store, r *http.Request, res *response.Res) *response.Res {
	var sb strings.Builder
	sb.WriteString("<h1>Users</h1><ul>")
	for _, u := range state.Users() {
		sb.WriteString(`<li><a href="/users/` + u.ID + `">` + template.HTMLEscapeString(u.Name) + "</a></li>")
	}
	sb.WriteString("</ul>")
	return res.HTML(template.HTML(sb.String()))
}

func POST(state *store.Store, r *http.Request, res *response.Res) *response.Res {
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		return res.Status(http.StatusBadRequest).JSON(map[string]string{"error": "name is required"})
	}
	u := state.AddUser(name)
	return res.Redirect("/users/" + u.ID)
}
