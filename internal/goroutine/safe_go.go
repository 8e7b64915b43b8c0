package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Logger receives panic reports from recovered goroutines.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler runs goroutines with panic recovery.
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo starts a goroutine that logs panics instead of crashing the process.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("panic in goroutine: %v\nstack trace:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext starts a context-carrying goroutine with panic recovery.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("panic in goroutine: %v\nstack trace:\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}

// SimpleLogger writes panic reports to stdout. Used before the structured
// logger is initialised.
type SimpleLogger struct{}

func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

var DefaultRecoveryHandler = NewRecoveryHandler(&SimpleLogger{})

// SafeGo starts a goroutine through the default recovery handler.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext starts a context-carrying goroutine through the default
// recovery handler.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
