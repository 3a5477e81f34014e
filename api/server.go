/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/labourers/*      Labourers and attendance
  /api/contractors/*    Contractors, ledger and payment releases
  /api/work-orders/*    Work orders and the status board
  /api/attendance/*     Attendance calendar
  /api/payouts/*        Payout statements (JSON and XLSX)
  /api/suggestions      Operational alerts
  /api/overview         Headline metrics
  /api/scenarios/*      Demo scenarios
  /*                    Static files (frontend)

STATIC FILE SERVING:
  In production, serves the built dashboard from web/dist/.
  Falls back to index.html for client-side routing.

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/labourers", func(r chi.Router) {
			r.Get("/", h.ListLabourers)
			r.Get("/{id}", h.GetLabourer)
			r.Post("/{id}/attendance", h.RecordAttendance)
			r.Post("/{id}/attendance/toggle", h.ToggleAttendance)
		})

		r.Route("/contractors", func(r chi.Router) {
			r.Get("/", h.ListContractors)
			r.Get("/ledger", h.GetContractorLedger)
			r.Get("/{id}/releases", h.ListPaymentReleases)
			r.Post("/{id}/releases", h.ReleasePayment)
		})

		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", h.ListWorkOrders)
			r.Get("/board", h.GetWorkOrderBoard)
			r.Put("/{id}/status", h.UpdateWorkOrderStatus)
		})

		r.Get("/attendance/dates", h.ListAttendanceDates)

		r.Route("/payouts", func(r chi.Router) {
			r.Get("/", h.GetPayouts)
			r.Get("/statement.xlsx", h.DownloadPayoutStatement)
		})

		r.Get("/suggestions", h.GetSuggestions)
		r.Get("/overview", h.GetOverview)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	// Serve static files (React app)
	// First try ./web/dist (development), then fall back to message
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		// Try relative to executable
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			fullPath := filepath.Join(staticDir, path)

			// Check if file exists
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Workforce Ledger</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Workforce Ledger API</h1>
<p>The frontend is not built yet. Run <code>cd web && npm install && npm run build</code></p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/labourers">/api/labourers</a> - List labourers</li>
<li><a href="/api/contractors/ledger">/api/contractors/ledger</a> - Contractor ledger</li>
<li><a href="/api/payouts">/api/payouts</a> - Payout statement, last 7 days</li>
<li><a href="/api/suggestions">/api/suggestions</a> - Suggestions</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
