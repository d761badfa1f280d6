package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions controls where and how the logger writes
type LogOptions struct {
	Level  string
	Format string // "text" or "json"

	// File enables rotating file output alongside stdout
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger creates a new configured logger
func NewLogger(opts LogOptions) (*logrus.Logger, error) {
	logger := logrus.New()

	var out io.Writer = os.Stdout
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}
	logger.SetOutput(out)

	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			// colours only when nothing but a terminal is listening
			DisableColors: opts.File != "" || !isTerminal(os.Stdout),
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	// Parse log level
	logLevel, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
