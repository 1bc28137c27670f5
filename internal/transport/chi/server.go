package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/version"
	analysisuc "github.com/simglobe/simglobe/internal/usecase/analysis"
	briefinguc "github.com/simglobe/simglobe/internal/usecase/briefing"
	healthuc "github.com/simglobe/simglobe/internal/usecase/health"
	hedginguc "github.com/simglobe/simglobe/internal/usecase/hedging"
	productsuc "github.com/simglobe/simglobe/internal/usecase/products"
	risksuc "github.com/simglobe/simglobe/internal/usecase/risks"
)

const (
	serviceName  = "simglobe-api"
	maxBodyBytes = 1 << 20
)

// Error codes returned in error bodies.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeInvalidProductData   = "invalid_product_data"
	codeNotFound             = "not_found"
	codeMethodNotAllowed     = "method_not_allowed"
	codeMarketProviderError  = "market_provider_error"
	codeAnalystProviderError = "analyst_provider_error"
	codePaymentProviderError = "payment_provider_error"
	codeNotImplemented       = "not_implemented"
	codeInternalError        = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the API.
type Server struct {
	risks         *risksuc.Service
	analysis      *analysisuc.Service
	products      *productsuc.Service
	hedging       *hedginguc.Service
	briefing      *briefinguc.Service
	health        *healthuc.Service
	validator     *requestValidator
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	risks *risksuc.Service,
	analysis *analysisuc.Service,
	products *productsuc.Service,
	hedging *hedginguc.Service,
	briefing *briefinguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		risks:     risks,
		analysis:  analysis,
		products:  products,
		hedging:   hedging,
		briefing:  briefing,
		health:    health,
		validator: newRequestValidator(),
		logger:    logger,
		now:       time.Now,
	}
	s.errorHandlers = []errorHandler{
		fieldErrorHandler,
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidProductData, http.StatusBadRequest, codeInvalidProductData),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrMarketProviderError, http.StatusBadGateway, codeMarketProviderError),
		sentinelHandler(domain.ErrAnalystProviderError, http.StatusBadGateway, codeAnalystProviderError),
		sentinelHandler(domain.ErrPaymentProviderError, http.StatusBadGateway, codePaymentProviderError),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, codeNotImplemented),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{
		Status:    string(report.Status),
		Service:   serviceName,
		Version:   version.Version,
		Checks:    checks,
		Timestamp: s.now().UTC(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound answers unknown routes.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "endpoint not found: "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (s *Server) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method "+r.Method+" not allowed")
}

// decodeBody reads a JSON request body into v. It writes the error response itself
// and returns false when the body is unusable.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "Invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, msg)
		return false
	}
	if err := s.validator.Struct(v); err != nil {
		s.handleDomainError(w, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrInvalidProductData,
		domain.ErrNotFound,
		domain.ErrMarketProviderError,
		domain.ErrAnalystProviderError,
		domain.ErrPaymentProviderError,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// fieldErrorHandler reports input errors together with the offending field.
func fieldErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	code := codeValidationFailed
	if errors.Is(fe.Err, domain.ErrInvalidProductData) {
		code = codeInvalidProductData
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    code,
		Message: fe.Field + " " + fe.Reason,
		Field:   fe.Field,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
