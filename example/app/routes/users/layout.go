package users

import (
	"html/template"
	"net/http"

	"github.com/vango-dev/fileroute/example/store"
	"github.com/vango-dev/fileroute/pkg/response"
)

// MemberCookie must be present to see user pages.
const MemberCookie = "member"

// Layout wraps user pages. Visitors without the member cookie are
// redirected home before any outer layout runs.
func Layout(state *store.Store, r *http.Request, res *response.Res, children template.HTML) *response.Res {
	if _, err := r.Cookie(MemberCookie); err != nil {
		return res.Redirect("/")
	}
	return res.HTML(`<section class="users">` + children + `</section>`)
}
