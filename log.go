package aidchain

import (
	"io"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/aidchain/errors"
)

// Logger is what any aidchain component should take. It is the tendermint
// logger so that the same instance can be handed to the ABCI server.
type Logger = tmlog.Logger

// DefaultLogger is used for all context that have not set anything
// themselves.
var DefaultLogger Logger = NewNopLogger()

// Supported log output formats.
const (
	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// NewLogger returns a logger writing tendermint formatted lines to w. Only
// entries at or above given level are written. Supported levels are debug,
// info, error and none.
func NewLogger(w io.Writer, lvl string) (Logger, error) {
	if lvl == "" {
		lvl = "info"
	}
	opt, err := tmlog.AllowLevel(strings.ToLower(lvl))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unknown log level %q", lvl)
	}
	return tmlog.NewFilter(tmlog.NewTMLogger(tmlog.NewSyncWriter(w)), opt), nil
}

// NewFormatLogger returns a logger for given output format. An empty
// format is the same as plain.
func NewFormatLogger(w io.Writer, format, lvl string) (Logger, error) {
	switch format {
	case "", LogFormatPlain:
		return NewLogger(w, lvl)
	case LogFormatJSON:
		return NewJSONLogger(w, lvl)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown log format %q", format)
	}
}

// NewJSONLogger returns a logger writing one JSON object per entry, which
// is what log collectors usually expect.
func NewJSONLogger(w io.Writer, lvl string) (Logger, error) {
	opt, err := kitLevel(lvl)
	if err != nil {
		return nil, err
	}
	l := kitlog.NewJSONLogger(kitlog.NewSyncWriter(w))
	l = level.NewFilter(l, opt)
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC)
	return &jsonLogger{src: l}, nil
}

// NewNopLogger returns a logger that doesn't do anything.
func NewNopLogger() Logger {
	return tmlog.NewNopLogger()
}

func kitLevel(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown log level %q", lvl)
	}
}

type jsonLogger struct {
	src kitlog.Logger
}

var _ Logger = (*jsonLogger)(nil)

func (l *jsonLogger) Debug(msg string, keyvals ...interface{}) {
	_ = kitlog.With(level.Debug(l.src), "msg", msg).Log(keyvals...)
}

func (l *jsonLogger) Info(msg string, keyvals ...interface{}) {
	_ = kitlog.With(level.Info(l.src), "msg", msg).Log(keyvals...)
}

func (l *jsonLogger) Error(msg string, keyvals ...interface{}) {
	_ = kitlog.With(level.Error(l.src), "msg", msg).Log(keyvals...)
}

func (l *jsonLogger) With(keyvals ...interface{}) Logger {
	return &jsonLogger{src: kitlog.With(l.src, keyvals...)}
}
