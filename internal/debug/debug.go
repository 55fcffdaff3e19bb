// Package debug is a conditional printf-style tracer gated on the
// SALT_DEBUG environment variable, in the spirit of the teacher's
// internal/debug.Logf calls sprinkled through internal/config. It is
// never used for user-facing command output.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	enabled = os.Getenv("SALT_DEBUG") != ""
	out     io.Writer = os.Stderr
)

func init() {
	if path := os.Getenv("SALT_DEBUG_LOG"); path != "" {
		out = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 2,
		}
	}
}

// Enabled reports whether SALT_DEBUG tracing is on.
func Enabled() bool {
	return enabled
}

// Logf writes a trace line when SALT_DEBUG is set; otherwise it is a
// no-op.
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, format, args...)
}
