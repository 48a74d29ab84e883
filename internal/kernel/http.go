// Package kernel assembles the HTTP handler: global middleware, operational
// endpoints, the WebSocket entry point and the API route table.
package kernel

import (
	"net/http"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/routes"
	"github.com/lekhanhduy0411/tiemlen/config"
	"github.com/lekhanhduy0411/tiemlen/pkg/event"
	"github.com/lekhanhduy0411/tiemlen/pkg/metrics"
	"github.com/lekhanhduy0411/tiemlen/pkg/middleware"
	"github.com/lekhanhduy0411/tiemlen/pkg/reqid"
	"github.com/lekhanhduy0411/tiemlen/pkg/response"
	"github.com/lekhanhduy0411/tiemlen/pkg/router"
	"github.com/lekhanhduy0411/tiemlen/pkg/ws"
)

// BuildHandler constructs the full HTTP handler and returns it together
// with the router (for route:list) and the running WebSocket hub.
func BuildHandler() (http.Handler, *router.Router, *ws.Hub) {
	hub := ws.NewHub()
	go hub.Run()

	registerListeners()

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. CORS              — set CORS headers
	//  6. Rate limiter      — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(corsOptions()))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))

	// Prometheus /metrics endpoint — no auth, no rate limit.
	r.HandleFunc("/metrics", metrics.Handler())

	r.Get("/api/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/ws", "ws", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, hub)
	})

	routes.Register(r, hub)
	return r.Handler(), r, hub
}

func corsOptions() middleware.CORSOptions {
	opts := middleware.DefaultCORSOptions()
	if origins := config.CORSOrigins(); len(origins) > 0 {
		opts.AllowedOrigins = origins
	}
	return opts
}

// registerListeners binds domain events to their Prometheus counters.
func registerListeners() {
	event.Listen("order.placed", func(payload interface{}) {
		metrics.OrdersPlaced.Inc()
		if order, ok := payload.(models.Order); ok {
			metrics.OrderRevenue.Add(order.TotalAmount)
		}
	})
	event.Listen("order.cancelled", func(interface{}) {
		metrics.OrdersCancelled.Inc()
	})
	event.Listen("promotion.applied", func(payload interface{}) {
		outcome, ok := payload.(string)
		if !ok {
			outcome = "unknown"
		}
		metrics.PromotionsApplied.WithLabelValues(outcome).Inc()
	})
	event.Listen("chat.message", func(interface{}) {
		metrics.ChatMessages.Inc()
	})
}
