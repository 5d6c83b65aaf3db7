// Package logging builds the zap logger shared by the CLI and the store.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's level, encoding, and destination.
type Options struct {
	Level  string // debug | info | warn | error; empty means warn.
	Format string // console | json
	File   string // Empty means stderr.
}

// New builds a logger from opts. Interactive menus own stdout, so logs go
// to stderr unless a file is configured.
func New(opts Options) (*zap.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening %s: %w", opts.File, err)
		}
		w = f
		closeFn = f.Close
	}

	enc, err := encoder(opts.Format)
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Named("phonebook"), closeFn, nil
}

// NewWriter builds a logger writing to w, for tests and embedding.
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	enc, _ := encoder("console")
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zapcore.WarnLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", s)
	}
}

func encoder(format string) (zapcore.Encoder, error) {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.LevelKey = "level"
	cfg.MessageKey = "msg"
	cfg.NameKey = "logger"
	cfg.CallerKey = zapcore.OmitKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(format) {
	case "", "console":
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	case "json":
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg), nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
}
