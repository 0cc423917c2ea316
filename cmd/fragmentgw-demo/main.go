// Command fragmentgw-demo compiles a sample template against a YAML
// fixture manifest and serves it over a chi router, demonstrating how a
// compiled template's handler and its stylesheet route mount onto a real
// multiplexer.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/livefir/fragmentgw"
	"github.com/livefir/fragmentgw/internal/manifest"
)

const sampleTemplate = `
<template>
<html>
<head><title>fragmentgw demo</title></head>
<body>
	<fragment name="header" from="http://localhost:9001" primary></fragment>
	<fragment name="sidebar" from="http://localhost:9002"></fragment>
	<fragment name="ticker" from="http://localhost:9003"></fragment>
</body>
</html>
</template>
`

const sampleManifest = `
fragments:
  header:
    render:
      url: /render
      static: true
  sidebar:
    render:
      url: /render
      placeholder: true
  ticker:
    render:
      url: /render
      selfReplace: true
`

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		log.Fatalf("fragmentgw-demo: parse manifest: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(10 * time.Second))

	tmpl, err := fragmentgw.Compile(context.Background(), "demo", sampleTemplate,
		fragmentgw.WithRegistry(doc.Registry()),
		fragmentgw.WithRouteRegistrar(router),
		fragmentgw.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("fragmentgw-demo: compile: %v", err)
	}

	router.Get("/", tmpl.Handler())

	logger.Info("fragmentgw-demo listening", "addr", ":8080", "mode", tmpl.Chunked())
	if err := http.ListenAndServe(":8080", router); err != nil {
		log.Fatalf("fragmentgw-demo: serve: %v", err)
	}
}
