package safe

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Run executes fn and recovers any panic, logging the stack instead of
// crashing the process. Use for fire-and-forget goroutines.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

// RunErr is Run for functions that return an error; the recovered panic is
// converted into the returned error.
func RunErr(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.RunErr"),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
