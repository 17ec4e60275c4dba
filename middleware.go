package mongolog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey struct{}

// operationKey carries the per-request Operation in the request context.
var operationKey contextKey

// RequestIDHeader is honored when an upstream proxy already assigned an
// id, and is set on every response.
const RequestIDHeader = "X-Request-ID"

// Middleware wraps a handler so that every request owns one Operation:
// handlers log through OperationFromContext, and the aggregated record
// is flushed once the response is written. A panic inside the handler is
// recorded at error severity, the record is flushed, and the panic is
// re-raised for the server's own recoverer.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := s.Begin()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == emptyString {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		op.AddMetadata(map[string]any{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote_addr": r.RemoteAddr,
		})

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			rec := recover()
			if rec != nil {
				op.Err(fmt.Errorf("panic: %v", rec))
			}
			op.AddMetadata(map[string]any{
				"status":      sw.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			// The request context may already be canceled once the
			// response is out; flush on its own clock.
			_ = op.Flush(context.Background())
			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), operationKey, op)))
	})
}

// OperationFromContext returns the request's Operation, or nil outside
// the middleware. A nil Operation is safe to log to, so callers never
// need to check.
func OperationFromContext(ctx context.Context) *Operation {
	op, _ := ctx.Value(operationKey).(*Operation)
	return op
}

// statusWriter captures the response status for the record metadata.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
