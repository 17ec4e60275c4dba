// Package mongolog aggregates the log calls of one logical operation,
// typically a single HTTP request, into one structured document and
// persists it to a capped MongoDB collection.
//
// Key behaviors
//   - One document per operation: all debug..fatal messages recorded
//     during a request end up in a single record, bucketed by severity
//   - Never breaks the host: store failures fall back to a rotating log
//     file (when enabled) or are counted and dropped; a log call never
//     panics past its own boundary
//   - Values that cannot be serialized to BSON degrade to their string
//     form instead of failing the write
//   - ANSI color sequences are stripped from messages before storage
//
// Typical usage
//
//	cfg := mongolog.DefaultConfig()
//	cfg.Database = "myapp"
//	svc := &mongolog.Service{Config: cfg}
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	http.ListenAndServe(addr, svc.Middleware(mux))
//
// Inside a handler:
//
//	op := mongolog.OperationFromContext(r.Context())
//	op.Info("user processed")
//	op.AddMetadata(map[string]any{"user_id": id})
package mongolog
