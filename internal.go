package mongolog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (s *Service) initializeRollingFileLogger() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   s.Config.FilePath,
		MaxBackups: s.Config.FileMaxBackups,
		MaxAge:     s.Config.FileMaxAgeDays,
		MaxSize:    s.Config.FileMaxSizeMB,
	}
}

func (s *Service) initializeWriters() []io.Writer {
	s.fileWriter = s.initializeRollingFileLogger()
	writers := []io.Writer{s.fileWriter}

	if s.Config.ConsoleMirror {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return writers
}
