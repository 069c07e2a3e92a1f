package routes

import (
	"net/http"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

func GET(state *store.Store, r *http.Request, res *response.Res) *response.Res {
	return res.HTML("<h1>Home</h1>")
}
