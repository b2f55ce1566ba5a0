// Package logger implements ports.Logger on top of log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// Options selects sinks and verbosity.
type Options struct {
	Verbose bool
	Console io.Writer // defaults to os.Stdout
	File    string    // appended to when non-empty
}

// StdLogger writes timestamped text records to every configured sink.
type StdLogger struct {
	logger *slog.Logger
	file   *os.File
}

// New builds a StdLogger. Close releases the log file, if any.
func New(opts Options) (*StdLogger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{console}
	var file *os.File
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.LogFilePermissions)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	return &StdLogger{logger: slog.New(handler), file: file}, nil
}

// NewStd creates a console-only logger.
func NewStd(verbose bool) *StdLogger {
	l, _ := New(Options{Verbose: verbose})
	return l
}

// Discard returns a logger that drops everything; useful in tests.
func Discard() *StdLogger {
	l, _ := New(Options{Console: io.Discard})
	return l
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, attrs(fields)...)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, attrs(fields)...)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, attrs(fields)...)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.logger.Error(msg, args...)
}

// Close flushes and closes the log file.
func (l *StdLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// attrs converts a field map to slog args with stable key order.
func attrs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, slog.Any(k, fields[k]))
	}
	return args
}
