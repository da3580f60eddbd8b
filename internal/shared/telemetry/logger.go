package telemetry

import (
	"io"
	"os"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
)

const loggerName = "docstore"

var current atomic.Pointer[hclog.Logger]

func init() {
	SetOutput(os.Stdout)
}

// SetOutput replaces the destination of all log lines. Lines are JSON encoded.
func SetOutput(w io.Writer) {
	l := hclog.New(&hclog.LoggerOptions{
		Name:       loggerName,
		Level:      hclog.Info,
		Output:     w,
		JSONFormat: true,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	})
	current.Store(&l)
}

// Logger returns the underlying structured logger.
func Logger() hclog.Logger {
	return *current.Load()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	Logger().Info(msg, pairs(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	Logger().Warn(msg, pairs(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	Logger().Error(msg, pairs(fields)...)
}

// pairs flattens fields into hclog key/value arguments with a stable key order.
func pairs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		out = append(out, k, v)
	}
	return out
}
