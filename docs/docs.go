// Package docs serves the OpenAPI document of the dinorun HTTP API and a
// Swagger UI console reading it.
package docs

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

const (
	OpenAPIPath = "/api/openapi.json"
	ConsolePath = "/api/docs"
)

//go:embed static/openapi.json
var OpenAPI []byte

//go:embed template/index.tpl
var consoleSource string

var console = template.Must(template.New("console").Parse(consoleSource))

// Register mounts the document and the console. A bare host lands on the
// console too.
func Register(rtr *mux.Router, title string) {
	rtr.HandleFunc(OpenAPIPath, serveOpenAPI).Methods(http.MethodGet, http.MethodHead)

	page := consoleHandler(title)
	rtr.Handle(ConsolePath, page).Methods(http.MethodGet)
	rtr.Handle("/", page).Methods(http.MethodGet)
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(OpenAPI)
}

func consoleHandler(title string) http.Handler {
	data := struct {
		Title   string
		OpenAPI string
	}{Title: title, OpenAPI: OpenAPIPath}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := console.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
