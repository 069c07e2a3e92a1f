package router

import "text/template"

// routerTemplate renders one router file. Stateless and stateful output
// differ only in the signature and argument strings prepared by the
// generator.
var routerTemplate = template.Must(template.New("router").Parse(`// Code generated by fileroute. DO NOT EDIT.
{{if .BuildTag}}
//go:build {{.BuildTag}}
{{end}}
package {{.Package}}

import (
{{- range .StdImports}}
	{{if .Alias}}{{.Alias}} {{end}}{{printf "%q" .Path}}
{{- end}}
{{- if and .StdImports .Imports}}
{{end}}
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}{{printf "%q" .Path}}
{{- end}}
)
{{if .StateType}}
// State is the application state threaded into handlers and layouts.
type State = {{.StateType}}
{{end}}
{{- range .Wrappers}}
// {{.Name}} wraps {{.Source}} in {{.Chain}}.
func {{.Name}}({{.Params}}) *response.Res {
	res = {{.Call}}
{{- range $i, $l := .Layouts}}
	if !res.IsHTML() {
		return res
	}
	children {{if eq $i 0}}:={{else}}={{end}} res.TakeHTML()
	{{if $l.Last}}return{{else}}res ={{end}} {{$l.Call}}
{{- end}}
}
{{end}}
// {{.Entry}} returns a router serving every route under {{.Root}}.
func {{.Entry}}({{.EntryParams}}) chi.Router {
	r := chi.NewRouter()
{{- range .Registrations}}
	r.Handle({{printf "%q" .Pattern}}, dispatch.Methods{
{{- range .Methods}}
		{{.Const}}: {{.Adapter}},
{{- end}}
	})
{{- end}}
	return r
}
`))

// treeTemplate renders the module tree file.
var treeTemplate = template.Must(template.New("tree").Parse(`// Code generated by fileroute. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/vango-dev/fileroute/pkg/router"
)
{{if .Constants}}
// URL patterns of every route.
const (
{{- range .Constants}}
	{{.Name}} = {{printf "%q" .Pattern}}
{{- end}}
)
{{end}}
// Tree mirrors the routes directory.
var Tree = {{template "dir" .Root}}
{{define "dir" -}}
router.TreeDir{
	Path:   {{printf "%q" .Path}},
	Import: {{printf "%q" .Import}},
	Layout: {{.Layout}},
{{- if .Files}}
	Files: []router.TreeFile{
{{- range .Files}}
		{Name: {{printf "%q" .Name}}, Pattern: {{printf "%q" .Pattern}}{{if .Methods}}, Methods: []string{ {{- range $i, $m := .Methods}}{{if $i}}, {{end}}{{printf "%q" $m}}{{end -}} }{{end}}},
{{- end}}
	},
{{- end}}
{{- if .Dirs}}
	Dirs: []router.TreeDir{
{{- range .Dirs}}
		{{template "dir" .}},
{{- end}}
	},
{{- end}}
}
{{- end}}
`))
