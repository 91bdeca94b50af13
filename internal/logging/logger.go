// Package logging provides the structured logger used across budget-buddy.
// Components depend on the Logger interface; LogrusAdapter backs it in the
// application and MockLogger records entries in tests.
package logging

// Logger is a structured, leveled logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError, WithField and WithFields return a derived logger; the
	// receiver is not modified.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger

	// Fatal and Fatalf log and then exit the process.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})
}

// Field is a key-value pair attached to a log entry. Keys come from the
// Field* constants where one exists.
type Field struct {
	Key   string
	Value interface{}
}
