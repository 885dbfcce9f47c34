// Package logging provides the leveled, prefixed logger shared by the server
// and the CLI.
package logging

import (
	"os"
	"strings"

	"github.com/jcgregorio/logger"
)

type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger is the logging surface injected into services and handlers.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithPrefix(prefix string) Logger
}

// ParseLevel maps LOG_LEVEL onto a Level. An empty or unknown value falls
// back to WARN in production and INFO elsewhere.
func ParseLevel(s string, production bool) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	}
	if production {
		return LevelWarn
	}
	return LevelInfo
}

type leveled struct {
	l      *logger.Logger
	level  Level
	prefix string
}

// New returns a Logger writing to dst, such as os.Stderr.
func New(dst logger.SyncWriter, level Level) Logger {
	l := logger.NewFromOptions(&logger.Options{
		SyncWriter:   dst,
		DepthDelta:   2,
		IncludeDebug: level >= LevelDebug,
	})
	return &leveled{l: l, level: level}
}

// NewStderr is New(os.Stderr, level).
func NewStderr(level Level) Logger {
	return New(os.Stderr, level)
}

func (g *leveled) WithPrefix(prefix string) Logger {
	return &leveled{l: g.l, level: g.level, prefix: "[" + prefix + "] "}
}

func (g *leveled) Debugf(format string, args ...interface{}) {
	if g.level >= LevelDebug {
		g.l.Debugf(g.prefix+format, args...)
	}
}

func (g *leveled) Infof(format string, args ...interface{}) {
	if g.level >= LevelInfo {
		g.l.Infof(g.prefix+format, args...)
	}
}

func (g *leveled) Warningf(format string, args ...interface{}) {
	if g.level >= LevelWarn {
		g.l.Warningf(g.prefix+format, args...)
	}
}

func (g *leveled) Errorf(format string, args ...interface{}) {
	g.l.Errorf(g.prefix+format, args...)
}

type nop struct{}

// Nop discards everything. Used by tests.
func Nop() Logger { return nop{} }

func (nop) Debugf(string, ...interface{})   {}
func (nop) Infof(string, ...interface{})    {}
func (nop) Warningf(string, ...interface{}) {}
func (nop) Errorf(string, ...interface{})   {}
func (n nop) WithPrefix(string) Logger      { return n }
