// Package swagger serves the OpenAPI description and a ReDoc page for it.
package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/knadh/koanf/parsers/yaml"
)

// redocScript is the ReDoc bundle loaded by the docs page.
const redocScript = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Register attaches the API docs routes to mux.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded OpenAPI document
//	GET /openapi.json  -> the same document as JSON
//
// Register panics when the embedded document does not parse.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	docJSON, err := documentJSON(openAPIYAML)
	if err != nil {
		panic(err)
	}

	mux.HandleFunc("/api-docs", static("text/html; charset=utf-8", []byte(indexHTML)))
	mux.HandleFunc("/openapi.yaml", static("application/yaml; charset=utf-8", openAPIYAML))
	mux.HandleFunc("/openapi.json", static("application/json; charset=utf-8", docJSON))
}

// documentJSON converts the YAML document to JSON.
func documentJSON(doc []byte) ([]byte, error) {
	m, err := yaml.Parser().Unmarshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if _, ok := m["openapi"]; !ok {
		return nil, fmt.Errorf("parse openapi document: missing openapi version")
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return b, nil
}

func static(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	}
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Peloton API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + redocScript + `"></script>
    <script>Redoc.init('/openapi.json', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
