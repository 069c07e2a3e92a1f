package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fileroute/internal/build"
	"github.com/vango-dev/fileroute/pkg/dispatch"
	"github.com/vango-dev/fileroute/pkg/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON bool
		match  string
		method string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the routing table",
		Long: `Print every route with its methods, layout chain and source file.

With --match, resolve one request path the way the generated router would.

Examples:
  fileroute routes
  fileroute routes --json
  fileroute routes --match /users/42 --method DELETE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			result, err := build.New(cfg, build.Options{CheckOnly: true}).Build(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if match != "" {
				return printMatch(out, result.Model, method, match)
			}
			table := routeTable(result.Model)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}
			printRouteTable(out, table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	cmd.Flags().StringVar(&match, "match", "", "Resolve a request path")
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "Request method used with --match")

	return cmd
}

// routeRow is one line of the routing table.
type routeRow struct {
	Pattern  string            `json:"pattern"`
	Methods  []string          `json:"methods"`
	Handlers map[string]string `json:"handlers"`
	Layouts  []string          `json:"layouts,omitempty"`
	File     string            `json:"file"`
}

func routeTable(model *router.Model) []routeRow {
	var rows []routeRow
	for _, r := range model.ActiveRoutes() {
		row := routeRow{
			Pattern:  r.URLPath,
			Handlers: make(map[string]string),
			File:     r.RelPath,
		}
		for _, m := range r.Methods.Methods() {
			row.Methods = append(row.Methods, m.HTTP())
			row.Handlers[m.HTTP()] = r.Handler(m)
		}
		for _, l := range model.Chain(r) {
			row.Layouts = append(row.Layouts, l.RelPath)
		}
		rows = append(rows, row)
	}
	return rows
}

func printRouteTable(w io.Writer, rows []routeRow) {
	if len(rows) == 0 {
		warn(w, "No routes found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tMETHODS\tLAYOUTS\tFILE")
	for _, row := range rows {
		layouts := strings.Join(row.Layouts, " > ")
		if layouts == "" {
			layouts = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Pattern, strings.Join(row.Methods, ","), layouts, row.File)
	}
	tw.Flush()
}

// matchResult describes how the router answered one request.
type matchResult struct {
	Status  int
	Route   *router.RouteInfo
	Method  router.Method
	Params  map[string]string
	Pattern string
	Allow   string
}

type matchKey struct{}

type matchSlot struct {
	route  *router.RouteInfo
	method router.Method
	params map[string]string
}

// matchRoute serves a request through a chi router built from the model,
// with the same pattern coalescing as the generated code.
func matchRoute(model *router.Model, method, path string) matchResult {
	mux := chi.NewRouter()

	methods := make(map[string]dispatch.Methods)
	var order []string
	for _, r := range model.ActiveRoutes() {
		table, ok := methods[r.URLPath]
		if !ok {
			table = dispatch.Methods{}
			methods[r.URLPath] = table
			order = append(order, r.URLPath)
		}
		for _, m := range r.Methods.Methods() {
			table[m.HTTP()] = recordMatch(r, m)
		}
	}
	for _, pattern := range order {
		mux.Handle(pattern, methods[pattern])
	}

	slot := &matchSlot{}
	req := httptest.NewRequest(strings.ToUpper(method), path, nil)
	req = req.WithContext(context.WithValue(req.Context(), matchKey{}, slot))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	result := matchResult{
		Status: rec.Code,
		Route:  slot.route,
		Method: slot.method,
		Params: slot.params,
		Allow:  rec.Header().Get("Allow"),
	}
	if slot.route != nil {
		result.Pattern = slot.route.URLPath
	}
	return result
}

func recordMatch(route *router.RouteInfo, m router.Method) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot, _ := r.Context().Value(matchKey{}).(*matchSlot)
		if slot == nil {
			return
		}
		slot.route = route
		slot.method = m
		slot.params = make(map[string]string)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for _, key := range rctx.URLParams.Keys {
				slot.params[key] = dispatch.Param(r, key)
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func printMatch(w io.Writer, model *router.Model, method, path string) error {
	res := matchRoute(model, method, path)
	method = strings.ToUpper(method)

	switch res.Status {
	case http.StatusOK:
		success(w, "%s %s → %s", method, path, res.Pattern)
		info(w, "file:    %s", res.Route.RelPath)
		info(w, "handler: %s", res.Route.Handler(res.Method))
		if method == http.MethodHead && res.Method == router.MethodGet {
			info(w, "         (HEAD served by GET)")
		}
		if len(res.Params) > 0 {
			keys := make([]string, 0, len(res.Params))
			for k := range res.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				info(w, "param:   %s=%s", k, res.Params[k])
			}
		}
		var chain []string
		for _, l := range model.Chain(res.Route) {
			chain = append(chain, l.RelPath)
		}
		if len(chain) > 0 {
			info(w, "layouts: %s", strings.Join(chain, " > "))
		}
		return nil
	case http.StatusMethodNotAllowed:
		warn(w, "%s %s → 405 Method Not Allowed (Allow: %s)", method, path, res.Allow)
	default:
		warn(w, "%s %s → %d %s", method, path, res.Status, http.StatusText(res.Status))
	}
	return fmt.Errorf("no route serves %s %s", method, path)
}
