package dupfind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorSink receives per-entry failures from concurrent workers.
// Implementations must be safe for concurrent use.
type ErrorSink interface {
	Report(err error)
}

// StderrSink writes one "[ERROR]" line per report
type StderrSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStderrSink returns a sink writing to w, or to os.Stderr when w is nil
func NewStderrSink(w io.Writer) *StderrSink {
	if w == nil {
		w = os.Stderr
	}
	return &StderrSink{w: w}
}

func (s *StderrSink) Report(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "[ERROR] %v\n", err)
}

// MemorySink keeps every reported error in arrival order
type MemorySink struct {
	mu     sync.Mutex
	errors []error
}

func (s *MemorySink) Report(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

// Errors returns a copy of the collected errors
func (s *MemorySink) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errors...)
}

// Len returns the number of collected errors
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors)
}

// ZapSink logs reports as structured records, one field set per error kind
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps an existing logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// NewJSONZapSink builds a sink emitting JSON lines to w
func NewJSONZapSink(w io.Writer) *ZapSink {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.ErrorLevel,
	)
	return &ZapSink{logger: zap.New(core)}
}

func (s *ZapSink) Report(err error) {
	if err == nil {
		return
	}

	var fpErr *FingerprintError
	var walkErr *TraversalError
	switch {
	case errors.As(err, &fpErr):
		s.logger.Error("fingerprint failed",
			zap.String("path", fpErr.Path),
			zap.String("op", fpErr.Op),
			zap.NamedError("cause", fpErr.Err),
		)
	case errors.As(err, &walkErr):
		s.logger.Error("traversal failed",
			zap.String("path", walkErr.Path),
			zap.NamedError("cause", walkErr.Err),
		)
	default:
		s.logger.Error("scan error", zap.Error(err))
	}
}

// Sync flushes buffered log records
func (s *ZapSink) Sync() error {
	return s.logger.Sync()
}
