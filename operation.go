package mongolog

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// sprintPool is a buffer pool for variadic message formatting to reduce
// allocations on the hot path.
var sprintPool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// Operation accumulates the log calls of one logical unit of work into a
// single record. Obtain one from Service.Begin (or via the middleware)
// and call Flush when the unit of work ends.
//
// The record moves through empty -> accumulating -> flushed; after a
// flush the next log call starts a fresh record. All methods are safe on
// a nil receiver, so callers can log unconditionally even when no
// operation is in scope.
type Operation struct {
	svc *Service

	mu  sync.Mutex
	rec *Record
}

// Debug records a message at debug severity.
func (o *Operation) Debug(fields ...interface{}) { o.logSprint(SeverityDebug, fields...) }

// Debugf records a formatted message at debug severity.
func (o *Operation) Debugf(format string, fields ...interface{}) {
	o.logf(SeverityDebug, format, fields...)
}

// Info records a message at info severity.
func (o *Operation) Info(fields ...interface{}) { o.logSprint(SeverityInfo, fields...) }

// Infof records a formatted message at info severity.
func (o *Operation) Infof(format string, fields ...interface{}) {
	o.logf(SeverityInfo, format, fields...)
}

// Warn records a message at warn severity.
func (o *Operation) Warn(fields ...interface{}) { o.logSprint(SeverityWarn, fields...) }

// Warnf records a formatted message at warn severity.
func (o *Operation) Warnf(format string, fields ...interface{}) {
	o.logf(SeverityWarn, format, fields...)
}

// Error records a message at error severity.
func (o *Operation) Error(fields ...interface{}) { o.logSprint(SeverityError, fields...) }

// Errorf records a formatted message at error severity.
func (o *Operation) Errorf(format string, fields ...interface{}) {
	o.logf(SeverityError, format, fields...)
}

// Fatal records a message at fatal severity. Unlike a conventional fatal
// logger it does not exit: a request logger must never stop the host
// application.
func (o *Operation) Fatal(fields ...interface{}) { o.logSprint(SeverityFatal, fields...) }

// Fatalf records a formatted message at fatal severity without exiting.
func (o *Operation) Fatalf(format string, fields ...interface{}) {
	o.logf(SeverityFatal, format, fields...)
}

// Err records an error together with the backtrace of the call site.
// Errors are always recorded at error severity regardless of which level
// the caller would otherwise have used.
func (o *Operation) Err(err error) {
	if o == nil || o.svc == nil || err == nil {
		return
	}
	// skip Err itself
	o.log(SeverityError, formatError(err, 1))
}

// AddMetadata merges caller-supplied fields into the current record.
// Keys are flattened into top-level document fields at flush; a repeated
// key overwrites the previous value.
func (o *Operation) AddMetadata(fields map[string]any) {
	if o == nil || o.svc == nil || len(fields) == 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec == nil {
		o.rec = newRecord(o.svc.application())
	}
	o.rec.mergeMetadata(fields)
}

// Flush sanitizes the accumulated record and writes it to the capped
// collection, falling back to the file sink on insert failure when file
// logging is enabled. The record is discarded either way; a subsequent
// log call starts a fresh one. The returned error is informational only
// and never needs to abort the caller.
func (o *Operation) Flush(ctx context.Context) error {
	if o == nil || o.svc == nil {
		return nil
	}
	o.mu.Lock()
	rec := o.rec
	o.rec = nil
	o.mu.Unlock()

	// An operation that logged nothing still emits a document carrying
	// timestamp and application.
	if rec == nil {
		rec = newRecord(o.svc.application())
	}
	return o.svc.emit(ctx, rec)
}

func (o *Operation) logSprint(sev Severity, fields ...interface{}) {
	if o == nil || o.svc == nil || !o.svc.accepts(sev) {
		return
	}
	buf := sprintPool.Get().(*strings.Builder)
	buf.Reset()
	defer sprintPool.Put(buf)

	fmt.Fprint(buf, fields...)
	o.log(sev, buf.String())
}

func (o *Operation) logf(sev Severity, format string, fields ...interface{}) {
	if o == nil || o.svc == nil || !o.svc.accepts(sev) {
		return
	}
	o.log(sev, fmt.Sprintf(format, fields...))
}

// log is the single append path: threshold check, color stripping,
// record append, file mirror.
func (o *Operation) log(sev Severity, message string) {
	if !o.svc.accepts(sev) {
		return
	}
	message = StripColors(message)

	o.mu.Lock()
	if o.rec == nil {
		o.rec = newRecord(o.svc.application())
	}
	o.rec.append(sev, message)
	o.mu.Unlock()

	o.svc.mirror(sev, message)
}
