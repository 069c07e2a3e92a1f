package routes

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><title>fileroute example</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about-us">About</a> <a href="/users">Users ({{.Users}})</a></nav>
<main>{{.Children}}</main>
</body>
</html>`))

// Layout renders the page shell around every HTML response.
func Layout(state *store.Store, r *http.Request, res *response.Res, children template.HTML) *response.Res {
	var sb strings.Builder
	err := page.Execute(&sb, struct {
		Users    int
		Children template.HTML
	}{len(state.Users()), children})
	if err != nil {
		return res.Status(http.StatusInternalServerError).Raw([]byte(err.Error()))
	}
	return res.HTML(template.HTML(sb.String()))
}
