package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging configures the standard logrus logger. When a log file is set
// output goes to stdout and a rotated file; the returned closer flushes it.
func SetupLogging(cfg LogConfig) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(level)

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		logrus.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}
	rw := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,  // megabytes
		MaxBackups: cfg.MaxBackups, // files
		MaxAge:     cfg.MaxAgeDays, // days
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, rw))
	return rw, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
