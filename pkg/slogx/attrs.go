package slogx

import (
	"fmt"
	"log/slog"

	"github.com/casualjim/toolloop/pkg/stdx"
)

// KeyLoggerName is the attribute key that names the component a logger belongs to.
const KeyLoggerName = "logger"

// LoggerName returns an attribute naming the component that logs.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// Error returns an attribute with key "error" holding the error message.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Stringer returns an attribute holding the string form of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// ByteString returns an attribute holding value as text, cut to at most limit bytes
// on a rune boundary. A limit of zero or less keeps the whole value.
func ByteString(key string, value []byte, limit int) slog.Attr {
	return slog.String(key, stdx.Truncate(string(value), limit))
}

// ToolCall groups the identifying fields of a tool call.
func ToolCall(id, name string) slog.Attr {
	return slog.Group("tool_call", slog.String("id", id), slog.String("name", name))
}
