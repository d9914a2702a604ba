package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompilerNotFound indicates the document compiler binary could not be
// started at all, as opposed to starting and failing.
var ErrCompilerNotFound = errors.New("report: document compiler not found; ensure pdflatex is installed and on PATH")

// CompileError reports a failed compilation with whatever diagnostics were
// captured. Log is the compiler's own log file when it was readable.
type CompileError struct {
	Reason   string
	ExitCode int
	Stdout   string
	Stderr   string
	Log      string
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("report: compilation failed (%s, exit=%d)", e.Reason, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + truncate(s, 512)
	}
	return msg
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
