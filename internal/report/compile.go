package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxLogBytes caps how much of the compiler log is attached to errors.
// LaTeX logs for broken documents can run to megabytes; the tail holds
// the actual error.
const maxLogBytes = 128 * 1024

// Compiler turns a populated workspace into an output artifact. Implemented
// by LaTeXCompiler in production and by test doubles in tests.
type Compiler interface {
	Compile(ctx context.Context, ws Workspace) error
}

// LaTeXCompiler runs a LaTeX binary (pdflatex by default) over a workspace.
//
// The compiler is always invoked twice: the first pass populates auxiliary
// files, the second resolves cross-references such as longtable
// continuations. This is a property of LaTeX itself, not a retry. Only the
// first pass's exit status gates failure; after the second pass, success is
// judged solely by the presence of the output file.
type LaTeXCompiler struct {
	Bin         string        // compiler binary, e.g. "pdflatex"
	PassTimeout time.Duration // wall-clock limit per pass; 0 = unlimited
	Logger      *slog.Logger
}

// passResult captures one compiler invocation.
type passResult struct {
	exitCode int
	stdout   string
	stderr   string
}

// Compile implements Compiler.
func (c *LaTeXCompiler) Compile(ctx context.Context, ws Workspace) error {
	first, err := c.runPass(ctx, ws)
	if err != nil {
		return err
	}
	if first.exitCode != 0 {
		return &CompileError{
			Reason:   "compiler exited with error",
			ExitCode: first.exitCode,
			Stdout:   first.stdout,
			Stderr:   first.stderr,
			Log:      readCompilerLog(ws),
		}
	}

	// Second pass for cross-reference resolution. Its exit code is observed
	// and logged but does not gate success.
	second, err := c.runPass(ctx, ws)
	if err != nil {
		c.Logger.Warn("second compiler pass failed to run", "error", err)
	} else if second.exitCode != 0 {
		c.Logger.Warn("second compiler pass exited non-zero", "exit_code", second.exitCode)
	}

	if _, err := os.Stat(ws.OutputFile); err != nil {
		return &CompileError{
			Reason: "artifact not produced despite success exit code",
			Stdout: first.stdout,
			Stderr: first.stderr,
			Log:    readCompilerLog(ws),
		}
	}
	return nil
}

// runPass executes one compiler invocation with the workspace as working
// directory, draining stdout and stderr concurrently with the exit wait so
// a chatty compiler cannot block on full pipe buffers.
func (c *LaTeXCompiler) runPass(ctx context.Context, ws Workspace) (passResult, error) {
	if c.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PassTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Bin,
		"-interaction=nonstopmode",
		"-output-directory="+ws.Root,
		ws.SourceFile,
	)
	cmd.Dir = ws.Root

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return passResult{}, fmt.Errorf("report: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return passResult{}, fmt.Errorf("report: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return passResult{}, fmt.Errorf("%w: %s", ErrCompilerNotFound, c.Bin)
		}
		return passResult{}, fmt.Errorf("report: start compiler: %w", err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		reason := "canceled"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		return passResult{}, &CompileError{
			Reason: reason,
			Stdout: outBuf.String(),
			Stderr: errBuf.String(),
			Log:    readCompilerLog(ws),
		}
	}
	if drainErr != nil {
		c.Logger.Warn("compiler output drain failed", "error", drainErr)
	}

	result := passResult{stdout: outBuf.String(), stderr: errBuf.String()}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.exitCode = exitErr.ExitCode()
			return result, nil
		}
		return passResult{}, fmt.Errorf("report: wait for compiler: %w", waitErr)
	}
	return result, nil
}

// readCompilerLog reads the tail of the compiler's log file. Best-effort:
// a missing or unreadable log never masks the primary error.
func readCompilerLog(ws Workspace) string {
	data, err := os.ReadFile(ws.LogFile)
	if err != nil {
		return ""
	}
	if len(data) > maxLogBytes {
		data = data[len(data)-maxLogBytes:]
	}
	return string(data)
}
