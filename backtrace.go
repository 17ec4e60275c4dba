package mongolog

import (
	"fmt"
	"runtime"
	"strings"
)

const maxBacktraceFrames = 32

// formatError renders an error as its message followed by one stack
// frame per line. Go errors carry no backtrace of their own, so the
// frames describe the call site of the log call, which is where a
// rescued exception would be logged anyway. skip counts the stack frames
// above the caller to omit (the logging machinery itself).
func formatError(err error, skip int) string {
	var b strings.Builder
	b.WriteString(err.Error())

	pcs := make([]uintptr, maxBacktraceFrames)
	// +2 skips runtime.Callers and formatError
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return b.String()
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != emptyString {
			fmt.Fprintf(&b, "\n%s (%s:%d)", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}
