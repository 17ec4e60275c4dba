package mongolog

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Leveled is the conventional leveled-logger surface the Operation
// satisfies, so it is substitutable wherever a generic logger is
// expected.
type Leveled interface {
	Debug(fields ...interface{})
	Debugf(format string, fields ...interface{})
	Info(fields ...interface{})
	Infof(format string, fields ...interface{})
	Warn(fields ...interface{})
	Warnf(format string, fields ...interface{})
	Error(fields ...interface{})
	Errorf(format string, fields ...interface{})
	Fatal(fields ...interface{})
	Fatalf(format string, fields ...interface{})
	Err(err error)
}

// Store is the write side of the capped collection. The production
// implementation wraps the MongoDB driver; tests substitute an in-memory
// one.
type Store interface {
	// Insert writes one record document. The context carries the insert
	// timeout; a timeout is treated like any other write failure.
	Insert(ctx context.Context, doc bson.M) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
