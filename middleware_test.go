package mongolog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiddlewareOneDocumentPerRequest(t *testing.T) {
	svc, ms := newTestService(t, nil)

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := OperationFromContext(r.Context())
		op.Info("handled")
		op.AddMetadata(map[string]any{"user_id": "u-1"})
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/widgets", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	require.Equal(t, 1, ms.count())
	doc := ms.doc(t, 0)
	require.Equal(t, []any{"handled"}, bucketOf(t, doc, "info"))
	require.Equal(t, "POST", doc["method"])
	require.Equal(t, "/widgets", doc["path"])
	require.Equal(t, "u-1", doc["user_id"])
	require.Equal(t, int64(http.StatusCreated), doc["status"])
	require.Contains(t, doc, "duration_ms")
	require.Equal(t, rr.Header().Get(RequestIDHeader), doc["request_id"])
}

func TestMiddlewareHonorsUpstreamRequestID(t *testing.T) {
	svc, ms := newTestService(t, nil)

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, "upstream-42", rr.Header().Get(RequestIDHeader))
	require.Equal(t, "upstream-42", ms.doc(t, 0)["request_id"])
}

func TestMiddlewareFlushesEvenWithoutLogging(t *testing.T) {
	svc, ms := newTestService(t, nil)

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	}

	require.Equal(t, 3, ms.count())
	for i := 0; i < 3; i++ {
		require.Contains(t, ms.doc(t, i), fieldTimestamp)
	}
}

func TestMiddlewareRecordsPanicAndRethrows(t *testing.T) {
	svc, ms := newTestService(t, nil)

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	}))

	require.PanicsWithValue(t, "handler exploded", func() {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	require.Equal(t, 1, ms.count())
	bucket := bucketOf(t, ms.doc(t, 0), "error")
	require.Len(t, bucket, 1)
	require.Contains(t, bucket[0], "panic: handler exploded")
}

func TestMiddlewareThroughRealServer(t *testing.T) {
	svc, ms := newTestService(t, nil)

	srv := httptest.NewServer(svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		OperationFromContext(r.Context()).Debug("Test")
	})))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	require.Equal(t, 1, ms.count())
	require.Equal(t, []any{"Test"}, bucketOf(t, ms.doc(t, 0), "debug"))
}

func TestOperationFromContextOutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	op := OperationFromContext(req.Context())
	require.Nil(t, op)
	op.Info("safe on nil")
}
