// Package log provides the logging abstraction used across framekit.
//
// Library packages accept a [Logger] and default to [NoopLogger], so
// embedding framekit never produces output unless asked to. The CLI wires
// the zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Any logging library can be plugged in by implementing Logger:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
