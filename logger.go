package tangguh

import (
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Logger is the leveled logging sink consumed by the client. Arguments after
// the message are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger is a minimal Logger writing leveled lines via the standard
// library log package. Suitable for examples and tests.
type SimpleLogger struct {
	l *log.Logger
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{l: log.New(os.Stderr, "tangguh ", log.LstdFlags)}
}

// Debug logs at debug level.
func (s *SimpleLogger) Debug(msg string, keysAndValues ...any) {
	s.print("DEBUG", msg, keysAndValues)
}

// Info logs at info level.
func (s *SimpleLogger) Info(msg string, keysAndValues ...any) {
	s.print("INFO", msg, keysAndValues)
}

// Warn logs at warn level.
func (s *SimpleLogger) Warn(msg string, keysAndValues ...any) {
	s.print("WARN", msg, keysAndValues)
}

// Error logs at error level.
func (s *SimpleLogger) Error(msg string, keysAndValues ...any) {
	s.print("ERROR", msg, keysAndValues)
}

func (s *SimpleLogger) print(level, msg string, kv []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	s.l.Print(b.String())
}

// zapLogger adapts a zap SugaredLogger to the Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a zap logger so it can serve as the client's logging
// sink.
func NewZapLogger(logger *zap.Logger) Logger {
	return &zapLogger{s: logger.Sugar()}
}

func (z *zapLogger) Debug(msg string, keysAndValues ...any) { z.s.Debugw(msg, keysAndValues...) }
func (z *zapLogger) Info(msg string, keysAndValues ...any)  { z.s.Infow(msg, keysAndValues...) }
func (z *zapLogger) Warn(msg string, keysAndValues ...any)  { z.s.Warnw(msg, keysAndValues...) }
func (z *zapLogger) Error(msg string, keysAndValues ...any) { z.s.Errorw(msg, keysAndValues...) }
