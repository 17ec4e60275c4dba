package mongolog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Service is the long-lived logger. It owns the store handle and the
// optional file sink; per-request state lives in the Operations it hands
// out. A single Service is shared by all request workers.
type Service struct {
	// Config must be set before Initialize and is treated as immutable
	// afterwards.
	Config *Config

	// Store may be injected before Initialize (tests, custom transports).
	// When nil, Initialize dials MongoDB from Config and the service
	// closes the store on Close.
	Store Store

	threshold      Severity
	fileLogger     atomic.Pointer[zerolog.Logger]
	fileWriter     *lumberjack.Logger
	ownsStore      bool
	initialized    atomic.Bool
	insertFailures atomic.Int64
}

func NewService(cfg *Config) *Service {
	return &Service{Config: cfg}
}

// Initialize validates the configuration, opens the file sink when
// enabled and dials the store when none was injected. Failures here are
// configuration errors and fatal to the caller; once Initialize has
// succeeded, no later store failure surfaces beyond Flush's return value.
func (s *Service) Initialize() error {
	if s.Config == nil {
		return errors.New(errMsgNilConfig)
	}
	if err := validateConfig(s.Config); err != nil {
		return err
	}

	threshold, err := ParseSeverity(s.Config.MinSeverity)
	if err != nil {
		return fmt.Errorf("setting severity threshold: %w", err)
	}
	s.threshold = threshold

	if s.Config.FileLogging {
		mw := io.MultiWriter(s.initializeWriters()...)
		logger := zerolog.New(mw).With().Timestamp().Logger()
		if s.Config.Application != emptyString {
			logger = logger.With().Str(fieldApplication, s.Config.Application).Logger()
		}
		logger = logger.Level(threshold.zerologLevel())
		s.fileLogger.Store(&logger)
	}

	if s.Store == nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.Config.ConnectTimeout)
		defer cancel()

		store, err := DialStore(ctx, s.Config)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		s.Store = store
		s.ownsStore = true
	}

	s.initialized.Store(true)
	return nil
}

// Close releases the store connection (when the service dialed it) and
// the file sink. It's safe to call Close multiple times.
func (s *Service) Close() error {
	if !s.initialized.CompareAndSwap(true, false) {
		return nil
	}

	var errs []error
	if s.ownsStore && s.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.Config.ConnectTimeout)
		defer cancel()
		if err := s.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("closing store: %w", err))
		}
	}
	if s.fileWriter != nil {
		if err := s.fileWriter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing file sink: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Begin starts a new logical operation. The returned Operation owns its
// record exclusively; nothing else mutates it. Begin returns nil before
// Initialize and after Close, and a nil Operation is safe to log to.
func (s *Service) Begin() *Operation {
	if s == nil || !s.initialized.Load() {
		return nil
	}
	return &Operation{svc: s}
}

// InsertFailures reports how many records could not be stored and, with
// the file sink disabled, were dropped.
func (s *Service) InsertFailures() int64 {
	return s.insertFailures.Load()
}

func (s *Service) accepts(sev Severity) bool {
	return s.initialized.Load() && sev >= s.threshold
}

func (s *Service) application() string {
	if s.Config == nil {
		return emptyString
	}
	return s.Config.Application
}

// mirror writes one accepted log call through to the file sink. WithLevel
// keeps fatal entries from exiting the process.
func (s *Service) mirror(sev Severity, message string) {
	logger := s.fileLogger.Load()
	if logger == nil {
		return
	}
	logger.WithLevel(sev.zerologLevel()).Msg(message)
}

// emit is the flush path: sanitize, insert, fall back. It returns nil
// when the record was persisted somewhere (collection or file) and an
// ErrStoreWrite-wrapped error when it was dropped; either way the error
// never needs to abort the caller.
func (s *Service) emit(ctx context.Context, rec *Record) error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}

	doc := rec.document()

	ictx, cancel := context.WithTimeout(ctx, s.Config.InsertTimeout)
	defer cancel()

	err := s.Store.Insert(ictx, doc)
	if err == nil {
		return nil
	}

	s.insertFailures.Inc()
	if logger := s.fileLogger.Load(); logger != nil {
		s.dumpRecord(logger, rec, err)
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreWrite, err)
}

// dumpRecord writes the flattened record to the file sink after a failed
// insert, so nothing is lost while the store is unreachable.
func (s *Service) dumpRecord(logger *zerolog.Logger, rec *Record, cause error) {
	ev := logger.Error().
		Err(cause).
		Time(fieldTimestamp, rec.Timestamp).
		Interface(fieldMessages, rec.Messages)
	if len(rec.Metadata) > 0 {
		ev = ev.Interface("metadata", Sanitize(rec.Metadata))
	}
	ev.Msg("store insert failed, record written to file")
}
