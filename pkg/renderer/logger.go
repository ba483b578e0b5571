package renderer

import "fmt"

// DefaultLogger writes to stdout
type DefaultLogger struct{}

// Printf implements core.Logger
func (DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NopLogger discards all output, used by tests
type NopLogger struct{}

// Printf implements core.Logger
func (NopLogger) Printf(format string, args ...interface{}) {}
