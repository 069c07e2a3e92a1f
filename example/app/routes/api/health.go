package api

import (
	"net/http"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

// HealthGET answers with JSON, so no layout touches it.
func HealthGET(state *store.Store, r *http.Request, res *response.Res) *response.Res {
	return res.JSON(map[string]any{
		"status": "ok",
		"users":  len(state.Users()),
	})
}
