package main

import (
	"net/http"

	"github.com/benvon/metric-tracker/internal/config"
	"github.com/benvon/metric-tracker/internal/handlers"
	"github.com/benvon/metric-tracker/internal/middleware"
	"github.com/benvon/metric-tracker/internal/services/tracker"
	"github.com/benvon/metric-tracker/internal/store"
	"github.com/benvon/metric-tracker/internal/telemetry"
	"github.com/benvon/metric-tracker/internal/validation"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const serviceName = "metric-tracker"

// serverDeps carries everything the router needs. Metrics, Redis and
// TracerProvider are optional.
type serverDeps struct {
	Config         *config.Config
	Logger         *zap.Logger
	Store          store.Backend
	Service        *tracker.Service
	Metrics        *telemetry.Metrics
	Redis          *redis.Client
	TracerProvider trace.TracerProvider
	Version        string
	Commit         string
}

// newService builds the metric service over the store with whichever instrumentation is enabled
func newService(d serverDeps) *tracker.Service {
	var opts []tracker.Option
	if d.Metrics != nil {
		opts = append(opts, tracker.WithOperationCounter(d.Metrics.Operations))
	}
	if d.TracerProvider != nil {
		opts = append(opts, tracker.WithTracer(d.TracerProvider.Tracer(serviceName)))
	}
	validator := validation.NewValidator(validation.DefaultCatalog(), d.Logger)
	return tracker.NewService(d.Store, validator, d.Logger, opts...)
}

// newHandler assembles the middleware chain and every route.
// Security headers, CORS and request ids wrap the router so they also apply to
// unmatched paths and preflight requests.
func newHandler(d serverDeps) (http.Handler, error) {
	cfg := d.Config
	log := d.Logger

	r := mux.NewRouter()

	// registered first runs outermost
	if d.TracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName, otelmux.WithTracerProvider(d.TracerProvider)))
	}
	if d.Metrics != nil {
		r.Use(middleware.Instrument(d.Metrics))
	}
	r.Use(middleware.MaxRequestSize(cfg.MaxRequestBytes))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.Audit(log))
	r.Use(middleware.Logging(log))

	checks := map[string]handlers.Pinger{"storage": d.Store}
	if d.Redis != nil {
		checks["redis"] = middleware.RedisPinger{Client: d.Redis}
	}
	handlers.NewHealthChecker(checks, log).RegisterRoutes(r)
	handlers.NewVersionHandler(d.Version, d.Commit).RegisterRoutes(r)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods("GET")
	}

	// before the /api/v1 subrouter so its prefix does not shadow these
	handlers.NewOpenAPIHandler(cfg.OpenAPIPath).RegisterRoutes(r)

	rate, err := middleware.ParseRate(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	rateLimit, err := middleware.RateLimit(rate, d.Redis, log)
	if err != nil {
		return nil, err
	}
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimit)
	handlers.NewMetricHandler(d.Service, log).RegisterRoutes(apiRouter)

	var h http.Handler = r
	h = middleware.CORS(middleware.ParseOrigins(cfg.FrontendURL))(h)
	h = middleware.SecurityHeaders(cfg.EnableHSTS)(h)
	h = middleware.RequestID(h)
	return h, nil
}
