package app

import (
	"net/http"

	"github.com/tkovalenko/sentencely-backend/internal/config"
	"github.com/tkovalenko/sentencely-backend/internal/transport/middleware"
	"github.com/tkovalenko/sentencely-backend/internal/transport/rest"
)

// buildRouter wires handlers and middleware into the root http.Handler.
// Middleware order: request id first, then panic recovery, request logging,
// CORS, rate limiting, and bearer auth. Health probes share the chain; the
// auth middleware passes anonymous requests through, so probes stay
// unauthenticated. rateLimitMW may be nil to disable rate limiting.
func buildRouter(
	health *rest.HealthHandler,
	study *rest.StudyHandler,
	authMW middleware.Middleware,
	corsCfg config.CORSConfig,
	logMW middleware.Middleware,
	recoveryMW middleware.Middleware,
	rateLimitMW middleware.Middleware,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /v1/study/queue", study.Queue)
	mux.HandleFunc("POST /v1/study/rate", study.Rate)
	mux.HandleFunc("POST /v1/study/skip-ahead", study.SkipAhead)
	mux.HandleFunc("GET /v1/study/preview/{cardID}", study.Preview)
	mux.HandleFunc("GET /v1/study/stats", study.Stats)
	mux.HandleFunc("GET /v1/study/cards/{cardID}/history", study.History)

	mws := []middleware.Middleware{
		middleware.RequestID,
		recoveryMW,
		logMW,
		middleware.CORS(corsCfg),
	}
	if rateLimitMW != nil {
		mws = append(mws, rateLimitMW)
	}
	mws = append(mws, authMW)

	return middleware.Chain(mws...)(mux)
}
