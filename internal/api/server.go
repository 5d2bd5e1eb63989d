package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/domain"
	"github.com/rpgo/networth-planner/internal/planner"
	"github.com/rpgo/networth-planner/internal/repository"
)

// OwnerHeader carries the caller's identity. Authentication happens upstream.
const OwnerHeader = "X-Owner-ID"

// requestContextKey stores the per-request context on the fasthttp request.
const requestContextKey = "planner.requestContext"

// Limits bounds the work one request may ask for.
type Limits struct {
	// MaxSimulations caps the simulations field of comparison requests.
	MaxSimulations int
	// RequestTimeout is the deadline given to every request's service calls.
	RequestTimeout time.Duration
	// RecentYears is the history window used for Monte Carlo sampling; zero uses all of it.
	RecentYears int
}

// DefaultLimits applies until SetLimits is called.
var DefaultLimits = Limits{
	MaxSimulations: 10000,
	RequestTimeout: 30 * time.Second,
	RecentYears:    50,
}

// Server exposes the planner over HTTP.
type Server struct {
	svc       *planner.Service
	projector calculation.Projector
	logger    *slog.Logger
	limits    Limits

	// baseCtx parents every request context. ListenAndServe replaces it
	// with the serving context.
	baseCtx context.Context
}

// NewServer creates a server. projector serves the stateless calculate endpoints.
func NewServer(svc *planner.Service, projector calculation.Projector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{svc: svc, projector: projector, logger: logger, limits: DefaultLimits, baseCtx: context.Background()}
}

// SetLimits replaces the request limits. Zero fields keep their defaults.
func (s *Server) SetLimits(l Limits) {
	if l.MaxSimulations <= 0 {
		l.MaxSimulations = DefaultLimits.MaxSimulations
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = DefaultLimits.RequestTimeout
	}
	if l.RecentYears < 0 {
		l.RecentYears = 0
	}
	s.limits = l
}

// Handler returns the request handler with access logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		reqCtx, cancel := context.WithTimeout(s.baseCtx, s.limits.RequestTimeout)
		defer cancel()
		ctx.SetUserValue(requestContextKey, reqCtx)

		s.route(ctx)
		s.logger.Debug("request",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"duration", time.Since(start))
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.baseCtx = ctx
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "networth-planner",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		return srv.Shutdown()
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := strings.TrimSuffix(string(ctx.Path()), "/")
	method := string(ctx.Method())

	switch {
	case path == "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case path == "/v1/presets":
		s.only(ctx, method, fasthttp.MethodGet, s.handlePresets)
	case path == "/v1/calculate/projection":
		s.only(ctx, method, fasthttp.MethodPost, s.handleCalculateProjection)
	case path == "/v1/calculate/comparison":
		s.only(ctx, method, fasthttp.MethodPost, s.handleCalculateComparison)
	case path == "/v1/calculate/tax":
		s.only(ctx, method, fasthttp.MethodPost, s.handleCalculateTax)
	case path == "/v1/profile":
		switch method {
		case fasthttp.MethodGet:
			s.withOwner(ctx, s.handleGetProfile)
		case fasthttp.MethodPut:
			s.withOwner(ctx, s.handlePutProfile)
		default:
			methodNotAllowed(ctx)
		}
	case path == "/v1/income":
		switch method {
		case fasthttp.MethodGet:
			s.withOwner(ctx, s.handleListIncome)
		case fasthttp.MethodPost:
			s.withOwner(ctx, s.handleAddIncome)
		default:
			methodNotAllowed(ctx)
		}
	case path == "/v1/income/timeline":
		s.only(ctx, method, fasthttp.MethodPost, func(ctx *fasthttp.RequestCtx) { s.withOwner(ctx, s.handleIncomeTimeline) })
	case path == "/v1/living-plan":
		s.only(ctx, method, fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) { s.withOwner(ctx, s.handleGetLivingPlan) })
	case path == "/v1/scenarios":
		switch method {
		case fasthttp.MethodGet:
			s.withOwner(ctx, s.handleListScenarios)
		case fasthttp.MethodPost:
			s.withOwner(ctx, s.handleSaveScenario)
		default:
			methodNotAllowed(ctx)
		}
	case path == "/v1/scenarios/defaults":
		s.only(ctx, method, fasthttp.MethodPost, func(ctx *fasthttp.RequestCtx) { s.withOwner(ctx, s.handleDefaultScenarios) })
	case strings.HasPrefix(path, "/v1/scenarios/"):
		id := strings.TrimPrefix(path, "/v1/scenarios/")
		s.only(ctx, method, fasthttp.MethodDelete, func(ctx *fasthttp.RequestCtx) {
			s.withOwner(ctx, func(ctx *fasthttp.RequestCtx, owner string) { s.handleDeleteScenario(ctx, owner, id) })
		})
	case path == "/v1/projections":
		switch method {
		case fasthttp.MethodGet:
			s.withOwner(ctx, s.handleListProjections)
		case fasthttp.MethodPost:
			s.withOwner(ctx, s.handleCreateProjection)
		default:
			methodNotAllowed(ctx)
		}
	case strings.HasPrefix(path, "/v1/projections/"):
		id := strings.TrimPrefix(path, "/v1/projections/")
		s.only(ctx, method, fasthttp.MethodGet, func(ctx *fasthttp.RequestCtx) {
			s.withOwner(ctx, func(ctx *fasthttp.RequestCtx, owner string) { s.handleGetProjection(ctx, owner, id) })
		})
	case path == "/v1/comparisons":
		s.only(ctx, method, fasthttp.MethodPost, func(ctx *fasthttp.RequestCtx) { s.withOwner(ctx, s.handleCompareStored) })
	default:
		writeError(ctx, fasthttp.StatusNotFound, "no route for "+path, "")
	}
}

func (s *Server) only(ctx *fasthttp.RequestCtx, method, want string, h fasthttp.RequestHandler) {
	if method != want {
		methodNotAllowed(ctx)
		return
	}
	h(ctx)
}

func (s *Server) withOwner(ctx *fasthttp.RequestCtx, h func(*fasthttp.RequestCtx, string)) {
	owner := strings.TrimSpace(string(ctx.Request.Header.Peek(OwnerHeader)))
	if owner == "" {
		writeError(ctx, fasthttp.StatusUnauthorized, "missing "+OwnerHeader+" header", "")
		return
	}
	h(ctx, owner)
}

// requestContext returns the deadline-bound context set up by Handler.
func (s *Server) requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if c, ok := ctx.UserValue(requestContextKey).(context.Context); ok {
		return c
	}
	return s.baseCtx
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", "")
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encoding response: "+err.Error(), "")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg, field string) {
	body, _ := json.Marshal(errorResponse{Error: msg, Field: field})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

// fail maps service errors onto status codes.
func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error(), invalid.Field)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error(), "")
	case errors.Is(err, repository.ErrNotFound):
		writeError(ctx, fasthttp.StatusNotFound, err.Error(), "")
	case errors.Is(err, repository.ErrConflict):
		writeError(ctx, fasthttp.StatusConflict, err.Error(), "")
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request timed out", "path", string(ctx.Path()), "timeout", s.limits.RequestTimeout)
		writeError(ctx, fasthttp.StatusServiceUnavailable, "request timed out", "")
	default:
		s.logger.Error("request failed", "path", string(ctx.Path()), "error", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "internal error", "")
	}
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "")
		return false
	}
	return true
}
