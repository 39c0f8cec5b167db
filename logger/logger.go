package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a zerolog logger scoped to the service and, optionally, to a
// component and a request.
type Logger struct {
	zl zerolog.Logger
}

// New builds a logger writing to the configured output.
func New(cfg Config, service string) *Logger {
	out := io.Writer(os.Stdout)
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	return NewWithWriter(cfg, service, out)
}

// NewWithWriter builds a logger writing to w. Unknown levels log at info.
func NewWithWriter(cfg Config, service string, w io.Writer) *Logger {
	cfg.ApplyDefaults()
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Format == FormatConsole {
		w = consoleWriter(w, service, cfg.NoColor)
	}

	zc := zerolog.New(w).Level(level).With().Timestamp()
	if service != "" {
		zc = zc.Str(FieldService, service)
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger()}
}

// Nop discards everything.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

// WithComponent tags every entry with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

// WithContext tags entries with the request ID in ctx. Without one the
// receiver is returned as is.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return l
	}
	return &Logger{zl: l.zl.With().Str(FieldRequestID, id).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { write(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { write(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { write(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { write(l.zl.Error(), msg, fields) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]any) { write(l.zl.Fatal(), msg, fields) }

func write(e *zerolog.Event, msg string, fields []map[string]any) {
	for _, f := range fields {
		e.Fields(f)
	}
	e.Msg(msg)
}

var global atomic.Pointer[Logger]

// Init installs the process-wide logger. Console output also replaces
// zerolog's package logger so library output looks the same.
func Init(cfg Config, service string) {
	cfg.ApplyDefaults()
	l := New(cfg, service)
	global.Store(l)
	if cfg.Format == FormatConsole {
		log.Logger = l.zl
	}
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(l *Logger) { global.Store(l) }

// GetGlobalLogger returns the process-wide logger, creating a console
// logger on first use.
func GetGlobalLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, New(Config{}, ""))
	return global.Load()
}

type requestIDKey struct{}

// ContextWithRequestID stores id for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// consoleWriter renders "[SVC][INF] message key:value". The service tag is
// the first three letters of the service name.
func consoleWriter(w io.Writer, service string, noColor bool) zerolog.ConsoleWriter {
	tag := ""
	if len(service) >= 3 {
		tag = "[" + strings.ToUpper(service[:3]) + "]"
		if !noColor {
			tag = "\x1b[34m" + tag + "\x1b[0m"
		}
	}
	return zerolog.ConsoleWriter{
		Out:           w,
		TimeFormat:    "15:04:05",
		NoColor:       noColor,
		FieldsExclude: []string{FieldService},
		FormatLevel: func(i any) string {
			lvl, _ := i.(string)
			abbrev := strings.ToUpper(zerolog.FormattedLevels[levelOf(lvl)])
			if abbrev == "" {
				abbrev = strings.ToUpper(lvl)
			}
			return tag + "[" + abbrev + "]"
		},
		FormatFieldName: func(i any) string { return i.(string) + ":" },
	}
}

func levelOf(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel
	}
	return l
}
