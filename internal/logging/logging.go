// Package logging builds the go-logger root logger and its module loggers.
package logging

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Module logger names.
const (
	GitHub  = "github"
	Listing = "listing"
	Site    = "site"
)

// New constructs the root logger for the given level and format.
func New(level, format string) (*glog.BaseLogger, error) {
	options := []glog.Option{}

	if lvl := normalizeLevel(level); lvl != "" {
		options = append(options, glog.WithLevel(lvl))
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", format)
	}

	return glog.NewLogger(options...), nil
}

// Named returns the child logger for a module, or a no-op logger when root
// is nil.
func Named(root *glog.BaseLogger, name string) glog.Logger {
	if root == nil {
		return Nop()
	}
	return root.GetLogger(name)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l glog.Logger) glog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return ""
	}
}

type nop struct{}

// Nop returns a logger that discards everything.
func Nop() glog.Logger {
	return nop{}
}

func (nop) Trace(string, ...any)                     {}
func (nop) Debug(string, ...any)                     {}
func (nop) Info(string, ...any)                      {}
func (nop) Warn(string, ...any)                      {}
func (nop) Error(string, ...any)                     {}
func (nop) Fatal(string, ...any)                     {}
func (n nop) WithContext(context.Context) glog.Logger { return n }
func (n nop) WithFields(map[string]any) glog.Logger   { return n }
