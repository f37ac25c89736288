package server

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/admin.html
var adminTemplatesFS embed.FS

var adminTmpl = template.Must(
	template.New("admin.html").
		Funcs(template.FuncMap{
			"contains": func(s, sub string) bool { return strings.Contains(s, sub) },
		}).
		ParseFS(adminTemplatesFS, "templates/admin.html"),
)

type adminPageData struct {
	Port        string
	Routes      []RouteDoc
	EscrowMicro int64
	Plants      int
	Now         string
}

func RegisterAdminUI(mux *http.ServeMux, rr *RouteRegistry, app *App, port string) {
	// JSON list (handy for tooling)
	mux.HandleFunc("GET /_/admin/routes.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rr.List())
	})

	// HTML
	mux.HandleFunc("GET /_/admin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		plants, _ := app.Engine.ListPlants(r.Context())

		data := adminPageData{
			Port:        port,
			Routes:      rr.List(),
			EscrowMicro: int64(app.Ledger.Escrow()),
			Plants:      len(plants),
			Now:         app.Engine.Clock.Now().UTC().Format(time.RFC3339),
		}

		if err := adminTmpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	})
}
