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
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind a proxy
  3. Logger:     Structured request logging (zap)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for a frontend

ROUTE GROUPS:
  /api/assets|accounts|incomes|expenses|loans/*  Record CRUD
  /api/loans/{id}/schedule|prepayment            Loan analysis
  /api/settings, /api/summary                    Planning
  /api/snapshots                                 Net worth history
  /api/household                                 YAML import/export
  /api/calculators/*                             Stateless engine access
  /api/scenarios/*                               Demo scenarios
  /                                              Endpoint index

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// DefaultAllowedOrigins are used when no CORS origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Record routes
		r.Route("/assets", newResource(h, h.Store.Assets(), toAssetDTO, fromAssetDTO).mount)
		r.Route("/accounts", newResource(h, h.Store.Accounts(), toAccountDTO, fromAccountDTO).mount)
		r.Route("/incomes", newResource(h, h.Store.Incomes(), toIncomeDTO, fromIncomeDTO).mount)
		r.Route("/expenses", newResource(h, h.Store.Expenses(), toExpenseDTO, fromExpenseDTO).mount)

		// Loans compute their EMI on write
		loans := newResource(h, h.Store.Loans(), toLoanDTO, fromLoanDTO)
		loans.add = h.Planner.AddLoan
		loans.update = h.Planner.UpdateLoan
		r.Route("/loans", func(r chi.Router) {
			loans.mount(r)
			r.Get("/{id}/schedule", h.GetLoanSchedule)
			r.Get("/{id}/prepayment", h.GetLoanPrepayment)
		})

		// Planning routes
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
		r.Get("/summary", h.GetSummary)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.ListSnapshots)
			r.Post("/", h.CreateSnapshot)
		})

		r.Route("/household", func(r chi.Router) {
			r.Get("/", h.ExportHousehold)
			r.Post("/", h.ImportHousehold)
		})

		// Calculator routes
		r.Route("/calculators", func(r chi.Router) {
			r.Post("/emi", h.CalculateEMI)
			r.Post("/schedule", h.CalculateSchedule)
			r.Post("/growth", h.CalculateGrowth)
			r.Post("/projection", h.CalculateProjection)
			r.Post("/prepayment", h.CalculatePrepayment)
			r.Post("/goal", h.CalculateGoal)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Finance Tracker</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Finance Tracker API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/summary">/api/summary</a> - Net worth, savings and projection</li>
<li><a href="/api/loans">/api/loans</a> - Loans</li>
<li><a href="/api/snapshots">/api/snapshots</a> - Net worth history</li>
<li><a href="/api/household">/api/household</a> - Export as YAML</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}

// requestLogger logs one structured line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("remote", r.RemoteAddr),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
