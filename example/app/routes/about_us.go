package routes

import (
	"net/http"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

// AboutUsGET serves /about-us. The prefix keeps the name distinct from
// GET in index.go, which shares this package.
func AboutUsGET(state *store.Store, r *http.Request, res *response.Res) *response.Res {
	return res.HTML("<h1>About us</h1><p>Routes compiled from files.</p>")
}
