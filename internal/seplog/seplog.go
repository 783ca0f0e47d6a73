// Package seplog is sep2go's logging facade: a small, stateless wrapper
// around *zap.Logger carrying a component name, in the
// same named-logger-over-structured-backend spirit used throughout this
// module, since every component wants structured fields (resource name,
// path, rate) attached to each line.
package seplog

import "go.uber.org/zap"

// Logger wraps a named *zap.Logger. It is safe to copy.
type Logger struct {
	z    *zap.Logger
	name string
}

// New wraps base with a component name. Pass zap.NewNop() in tests that
// don't care about log output.
func New(base *zap.Logger, name string) Logger {
	return Logger{z: base.Named(name), name: name}
}

// Nop returns a Logger that discards everything, for tests and callers
// that don't want to configure a zap.Logger of their own.
func Nop() Logger {
	return New(zap.NewNop(), "")
}

func (l Logger) Name() string { return l.name }

func (l Logger) Debugf(format string, args ...interface{}) {
	l.z.Sugar().Debugf(format, args...)
}

func (l Logger) Infof(format string, args ...interface{}) {
	l.z.Sugar().Infof(format, args...)
}

func (l Logger) Errorf(format string, args ...interface{}) {
	l.z.Sugar().Errorf(format, args...)
}

// With returns a Logger with additional structured fields attached to
// every subsequent line.
func (l Logger) With(fields ...zap.Field) Logger {
	return Logger{z: l.z.With(fields...), name: l.name}
}

// Named returns a Logger scoped under an additional name segment.
func (l Logger) Named(name string) Logger {
	return Logger{z: l.z.Named(name), name: l.name + "/" + name}
}
