package routemap

import "fmt"

// Logger is the minimal logging surface the Router uses for setup-time
// diagnostics.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// defaultLogger writes setup diagnostics to stdout. Silent unless the
// Router was built with WithVerbose.
type defaultLogger struct {
	enabled bool
}

func (d *defaultLogger) printf(level, format string, args ...any) {
	if !d.enabled {
		return
	}
	fmt.Printf(level+" "+format+"\n", args...)
}

func (d *defaultLogger) Debug(format string, args ...any) {
	d.printf("[debug]", format, args...)
}

func (d *defaultLogger) Info(format string, args ...any) {
	d.printf("[info]", format, args...)
}

func (d *defaultLogger) Error(format string, args ...any) {
	d.printf("[error]", format, args...)
}
