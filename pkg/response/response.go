// Package response provides the response builder returned by route handlers
// and layouts.
//
// Generated routers depend on exactly three operations: New, IsHTML and
// TakeHTML. Everything else is a convenience for route files:
//
//	func GET(r *http.Request, res *response.Res) *response.Res {
//	    return res.HTML("<h1>Hello</h1>")
//	}
//
//	func POST(r *http.Request, res *response.Res) *response.Res {
//	    return res.Status(http.StatusCreated).JSON(map[string]string{"ok": "yes"})
//	}
//
// A Res is owned by one request and is not safe for concurrent use.
package response

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
)

// Kind identifies which body a Res carries.
type Kind int

const (
	KindEmpty Kind = iota
	KindHTML
	KindJSON
	KindRedirect
	KindRaw
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindJSON:
		return "json"
	case KindRedirect:
		return "redirect"
	case KindRaw:
		return "raw"
	default:
		return "empty"
	}
}

// Res is a response under construction.
type Res struct {
	status  int
	header  http.Header
	cookies []*http.Cookie

	kind     Kind
	html     template.HTML
	body     []byte
	location string
}

// New creates an empty response.
func New() *Res {
	return &Res{header: make(http.Header)}
}

// Status sets the status code. Redirects ignore it.
func (r *Res) Status(code int) *Res {
	r.status = code
	return r
}

// Header sets a response header, replacing existing values.
func (r *Res) Header(key, value string) *Res {
	r.header.Set(key, value)
	return r
}

// SetCookie adds a cookie to the response as given.
func (r *Res) SetCookie(c *http.Cookie) *Res {
	r.cookies = append(r.cookies, c)
	return r
}

// Cookie adds a cookie with the default attributes: Path=/, HttpOnly and
// SameSite=Lax.
func (r *Res) Cookie(name, value string) *Res {
	return r.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// DeleteCookie expires a cookie set with the default attributes.
func (r *Res) DeleteCookie(name string) *Res {
	return r.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HTML finalizes the response as an HTML document or fragment.
func (r *Res) HTML(html template.HTML) *Res {
	r.reset(KindHTML)
	r.html = html
	return r
}

// JSON finalizes the response as JSON. A value that cannot be encoded
// produces a 500 with a null body.
func (r *Res) JSON(v any) *Res {
	data, err := json.Marshal(v)
	if err != nil {
		r.status = http.StatusInternalServerError
		data = []byte("null")
	}
	r.reset(KindJSON)
	r.body = data
	return r
}

// Redirect finalizes the response as a 302 Found redirect.
func (r *Res) Redirect(url string) *Res {
	return r.redirect(url, http.StatusFound)
}

// RedirectPermanent finalizes the response as a 301 Moved Permanently redirect.
func (r *Res) RedirectPermanent(url string) *Res {
	return r.redirect(url, http.StatusMovedPermanently)
}

func (r *Res) redirect(url string, code int) *Res {
	r.reset(KindRedirect)
	r.location = url
	r.status = code
	return r
}

// Raw finalizes the response as raw bytes. Set Content-Type with Header.
func (r *Res) Raw(body []byte) *Res {
	r.reset(KindRaw)
	r.body = body
	return r
}

func (r *Res) reset(kind Kind) {
	r.kind = kind
	r.html = ""
	r.body = nil
	r.location = ""
}

// IsHTML reports whether the response carries an HTML body.
func (r *Res) IsHTML() bool {
	return r != nil && r.kind == KindHTML
}

// TakeHTML extracts the HTML body and clears it, leaving an empty response.
// It returns "" when the response is not HTML.
func (r *Res) TakeHTML() template.HTML {
	if !r.IsHTML() {
		return ""
	}
	html := r.html
	r.reset(KindEmpty)
	return html
}

// Kind returns the body kind.
func (r *Res) Kind() Kind {
	return r.kind
}

// StatusCode returns the status that will be written.
func (r *Res) StatusCode() int {
	if r.status != 0 {
		return r.status
	}
	if r.kind == KindRedirect {
		return http.StatusFound
	}
	return http.StatusOK
}

// Body returns the bytes that will be written.
func (r *Res) Body() []byte {
	if r.kind == KindHTML {
		return []byte(r.html)
	}
	return r.body
}

// ServeHTTP writes the response.
func (r *Res) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h := w.Header()
	for key, values := range r.header {
		h[key] = values
	}
	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}

	body := r.Body()
	switch r.kind {
	case KindHTML:
		setDefault(h, "Content-Type", "text/html; charset=utf-8")
	case KindJSON:
		setDefault(h, "Content-Type", "application/json")
	case KindRedirect:
		h.Set("Location", r.location)
	}
	if len(body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}

	w.WriteHeader(r.StatusCode())
	if len(body) > 0 && req.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func setDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}
