package mongolog

import "time"

// Config carries everything the service needs: store location and
// credentials, capped collection parameters, the severity threshold and
// the file sink settings. It is immutable after Initialize; there is no
// ambient global state.
type Config struct {
	// Store location. URI wins when set; otherwise Host/Port are used.
	URI  string `koanf:"uri"`
	Host string `koanf:"host" validate:"required_without=URI"`
	Port int    `koanf:"port" validate:"omitempty,gt=0,lte=65535"`

	// Optional credentials for an authenticated deployment.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	Database   string `koanf:"database" validate:"required"`
	Collection string `koanf:"collection" validate:"required"`

	// CapSizeBytes is the size of the capped collection created on first
	// use. Ignored when the collection already exists.
	CapSizeBytes int64 `koanf:"capsize" validate:"gt=0"`

	// SafeInsert selects acknowledged (majority) writes. When false,
	// inserts are fire-and-forget with an unacknowledged write concern.
	SafeInsert bool `koanf:"safe_insert"`

	// Application is stamped on every record.
	Application string `koanf:"application"`

	// MinSeverity drops log calls below the threshold before they reach
	// the record.
	MinSeverity string `koanf:"min_severity" validate:"required,oneof=debug info warn error fatal"`

	// File sink. When enabled, every accepted log call is mirrored to the
	// rotating file and a failed flush dumps the whole record there. When
	// disabled the file is never touched, even on store failure.
	FileLogging    bool   `koanf:"file_logging"`
	FilePath       string `koanf:"file_path" validate:"required_if=FileLogging true"`
	FileMaxSizeMB  int    `koanf:"file_max_size_mb"`
	FileMaxBackups int    `koanf:"file_max_backups"`
	FileMaxAgeDays int    `koanf:"file_max_age_days"`
	ConsoleMirror  bool   `koanf:"console_mirror"`

	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`

	// InsertTimeout bounds each flush. A timed-out insert is treated
	// like any other store failure.
	InsertTimeout time.Duration `koanf:"insert_timeout" validate:"gt=0"`
}

// DefaultConfig returns a config with the defaults applied first by the
// koanf loader: local unauthenticated mongod, a 100 MB capped "logs"
// collection, debug threshold, no file sink.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           27017,
		Collection:     DefaultCollection,
		CapSizeBytes:   DefaultCapSizeBytes,
		MinSeverity:    SeverityDebug.String(),
		SafeInsert:     true,
		FileMaxSizeMB:  100,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
		ConnectTimeout: defaultConnectTimeout,
		InsertTimeout:  defaultInsertTimeout,
	}
}
