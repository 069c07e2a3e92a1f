// Command example serves a small site whose router is generated from
// app/routes.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/fileroute/example/app/routes"
	"github.com/vango-dev/fileroute/example/store"
)

//go:generate go run github.com/vango-dev/fileroute/cmd/fileroute gen

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Mount("/", routes.NewRouterWithState(store.New()))

	slog.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
