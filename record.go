package mongolog

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Record is the in-memory aggregate for one logical operation. It is
// created lazily on the first accepted log call, appended to for the
// operation's lifetime, and discarded after flush. The Operation that
// owns it serializes all access.
type Record struct {
	// Timestamp is set once, when the record is created.
	Timestamp time.Time

	// Application identifies the emitting application. Set at creation
	// from the service configuration; metadata cannot overwrite it.
	Application string

	// Messages maps severity name to the ordered messages recorded at
	// that severity. Buckets are created on first use, so an operation
	// that only logged at info carries no debug key.
	Messages map[string][]string

	// Metadata holds caller-supplied fields, flattened into top-level
	// document fields at emission. Last write wins per key.
	Metadata map[string]any
}

func newRecord(application string) *Record {
	return &Record{
		Timestamp:   time.Now().UTC(),
		Application: application,
		Messages:    make(map[string][]string),
		Metadata:    make(map[string]any),
	}
}

// append adds a message under the severity bucket, creating the bucket
// if absent. The message is expected to be color-stripped already.
func (r *Record) append(sev Severity, message string) {
	key := sev.String()
	r.Messages[key] = append(r.Messages[key], message)
}

// mergeMetadata merges fields into the record metadata. Existing keys
// are overwritten (last-write-wins); keys colliding with the reserved
// document fields are dropped.
func (r *Record) mergeMetadata(fields map[string]any) {
	for k, v := range fields {
		switch k {
		case fieldTimestamp, fieldApplication, fieldMessages:
			continue
		}
		r.Metadata[k] = v
	}
}

// document builds the sanitized BSON document for the record. Metadata
// fields are flattened into the top level alongside timestamp,
// application and messages.
func (r *Record) document() bson.M {
	doc := bson.M{
		fieldTimestamp:   r.Timestamp,
		fieldApplication: r.Application,
		fieldMessages:    Sanitize(r.Messages),
	}
	for k, v := range r.Metadata {
		doc[k] = Sanitize(v)
	}
	return doc
}
