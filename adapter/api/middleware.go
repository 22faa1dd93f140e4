package api

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	identity "github.com/felixgeelhaar/inkwell/internal/identity/domain"
	"github.com/felixgeelhaar/inkwell/internal/identity/infrastructure/token"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"

	// AccessTokenCookie carries the access token on page navigations, where
	// the browser cannot add an Authorization header.
	AccessTokenCookie = "inkwell_access_token"
)

// withRequestContext assigns request and correlation ids, reusing inbound
// headers when present, and echoes them on the response.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get(headerRequestID))
		ctx = observability.WithCorrelationID(ctx, r.Header.Get(headerCorrelationID))

		w.Header().Set(headerRequestID, observability.RequestIDFromContext(ctx))
		w.Header().Set(headerCorrelationID, observability.CorrelationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.status = http.StatusOK
		r.wrote = true
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		tags := []observability.Tag{
			observability.T("method", methodTag(r.Method)),
			observability.T("status", strconv.Itoa(rec.status/100)+"xx"),
		}
		s.deps.Metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
		s.deps.Metrics.Timing(observability.MetricHTTPDuration, elapsed, tags...)

		level := s.logger.InfoContext
		if rec.status >= http.StatusInternalServerError {
			level = s.logger.ErrorContext
		}
		level(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			observability.StatusKey, rec.status,
			observability.DurationKey, elapsed.Milliseconds(),
		)
	})
}

// methodTag keeps the method label to the standard verbs.
func methodTag(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return method
	default:
		return "other"
	}
}

// withRecover turns a panic into a 500 with a generic message.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.ErrorContext(r.Context(), "panic in handler",
					"path", r.URL.Path,
					"panic", v,
					"stack", string(debug.Stack()),
				)
				writeAPIError(w, ErrInternalServer)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withSession attaches a session when the request carries a valid access
// token. Invalid tokens leave the request anonymous.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := accessToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		session, err := s.deps.Verifier.Verify(raw)
		if err == nil && session.Expired(time.Now()) {
			err = identity.ErrInvalidToken
		}
		if err != nil {
			s.logger.DebugContext(r.Context(), "ignoring invalid access token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := identity.WithSession(r.Context(), session)
		ctx = observability.WithUserID(ctx, session.UserID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessToken(r *http.Request) (string, bool) {
	if tok, ok := token.ExtractBearerToken(r.Header.Get("Authorization")); ok {
		return tok, true
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}
