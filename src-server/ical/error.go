package ical

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// A parse failure carrying the offending event's identifying fields, so a
// broken feed can be traced back to the provider export that produced it.
type CustomError struct {
	msg  string
	args map[string]any
}

func NewCustomError(msg string, args map[string]any) *CustomError {
	if args == nil {
		args = make(map[string]any)
	}
	return &CustomError{
		msg:  msg,
		args: args,
	}
}

func (e CustomError) sortedKeys() []string {
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Args render in sorted key order so repeated parses of the same broken
// feed produce identical messages.
func (e CustomError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	for _, key := range e.sortedKeys() {
		sb.WriteString(fmt.Sprintf(" %s=%v", key, e.args[key]))
	}
	return sb.String()
}

// Hand the args to slog as structured attributes instead of one flattened
// string.
func (e CustomError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.args)+1)
	attrs = append(attrs, slog.String("msg", e.msg))
	for _, key := range e.sortedKeys() {
		attrs = append(attrs, slog.Any(key, e.args[key]))
	}
	return slog.GroupValue(attrs...)
}
