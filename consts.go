package mongolog

import "time"

const (
	emptyString = ""

	// DefaultCollection is the capped collection name used when the
	// configuration does not name one.
	DefaultCollection = "logs"

	// DefaultCapSizeBytes is the capped collection size used when the
	// configuration does not set one (100 MB).
	DefaultCapSizeBytes = 100 * 1024 * 1024

	defaultConnectTimeout = 10 * time.Second
	defaultInsertTimeout  = 5 * time.Second
)

// Reserved top-level document fields. Metadata keys with these names are
// ignored so callers cannot clobber the record structure.
const (
	fieldTimestamp   = "timestamp"
	fieldApplication = "application"
	fieldMessages    = "messages"
)

const (
	errMsgNilConfig     = "configuration is nil"
	errMsgConfigInvalid = "configuration is invalid"
	errMsgNoStore       = "no store configured and no host to dial"
)
