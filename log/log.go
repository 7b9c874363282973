// Package log holds the package-level logger used by tio's selector,
// registry and waker to report lifecycle events and swallowed errors.
//
// Unlike a server's log package, a library must not impose a logger's
// side effects (open files, timers) on every importer, so the default
// is a no-op logger; callers that want visibility call SetLogger.
package log

import "go.uber.org/zap"

// Logger is used by every tio component that logs. Defaults to a no-op
// logger so importing tio has no side effects.
var Logger = zap.NewNop()

// SetLogger replaces the package logger. Passing nil restores the no-op
// default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Logger = l
}
