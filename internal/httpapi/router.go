package httpapi

import (
	"crypto/sha256"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"vanity_gateway/internal/metrics"
	"vanity_gateway/internal/providers"
	"vanity_gateway/internal/registry"
	"vanity_gateway/internal/secrets"
	"vanity_gateway/internal/utils"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	gatewayKeyHash [32]byte

	Registry *registry.Store
	Secrets  *secrets.Store
	Factory  *providers.Factory
	Metrics  *metrics.Metrics
	Logger   *utils.Logger

	tracer trace.Tracer
}

// NewDependencies wires the dispatcher's collaborators. The caller key is
// hashed immediately; the plaintext is not retained.
func NewDependencies(gatewayKey string, reg *registry.Store, sec *secrets.Store, factory *providers.Factory, m *metrics.Metrics) *Dependencies {
	return &Dependencies{
		gatewayKeyHash: sha256.Sum256([]byte(gatewayKey)),
		Registry:       reg,
		Secrets:        sec,
		Factory:        factory,
		Metrics:        m,
		Logger:         utils.NewLogger("httpapi"),
		tracer:         otel.Tracer("vanity_gateway/httpapi"),
	}
}

// NewRouter builds the HTTP surface around the dispatcher.
func NewRouter(deps *Dependencies, metricsEnabled bool) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Post("/chat/completions", deps.handleChat)
	r.Get("/models", deps.handleModels)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if metricsEnabled && deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	return r
}
