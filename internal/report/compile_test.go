package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeStubCompiler writes a shell script standing in for the LaTeX binary.
// Scripts run with the workspace as working directory, matching the real
// compiler invocation.
func writeStubCompiler(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-latex")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func newTestWorkspace(t *testing.T) Workspace {
	t.Helper()
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ws.SourceFile, []byte("\\documentclass{article}\n"), 0o644))
	return ws
}

func TestLaTeXCompilerRunsTwoPasses(t *testing.T) {
	bin := writeStubCompiler(t, `
echo pass >> passes
echo "This is a stub compiler run"
printf '%%PDF-1.5 stub' > report.pdf
`)
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{Bin: bin, Logger: discardLogger()}

	require.NoError(t, c.Compile(context.Background(), ws))

	passes, err := os.ReadFile(filepath.Join(ws.Root, "passes"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(passes), "pass"))

	_, err = os.Stat(ws.OutputFile)
	assert.NoError(t, err)
}

func TestLaTeXCompilerFirstPassFailure(t *testing.T) {
	bin := writeStubCompiler(t, `
echo "! Undefined control sequence." > report.log
echo "stdout noise"
echo "compile blew up" >&2
exit 1
`)
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{Bin: bin, Logger: discardLogger()}

	err := c.Compile(context.Background(), ws)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, 1, compileErr.ExitCode)
	assert.Contains(t, compileErr.Stdout, "stdout noise")
	assert.Contains(t, compileErr.Stderr, "compile blew up")
	assert.Contains(t, compileErr.Log, "Undefined control sequence")
}

func TestLaTeXCompilerSecondPassFailureDoesNotGate(t *testing.T) {
	// First pass produces the artifact; second pass exits non-zero. Success
	// is judged only by the artifact's presence.
	bin := writeStubCompiler(t, `
if [ -f ran_once ]; then exit 3; fi
touch ran_once
printf '%%PDF-1.5 stub' > report.pdf
`)
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{Bin: bin, Logger: discardLogger()}

	assert.NoError(t, c.Compile(context.Background(), ws))
}

func TestLaTeXCompilerArtifactMissing(t *testing.T) {
	bin := writeStubCompiler(t, `exit 0`)
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{Bin: bin, Logger: discardLogger()}

	err := c.Compile(context.Background(), ws)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Reason, "artifact not produced")
}

func TestLaTeXCompilerBinaryNotFound(t *testing.T) {
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{
		Bin:    filepath.Join(t.TempDir(), "no-such-compiler"),
		Logger: discardLogger(),
	}

	err := c.Compile(context.Background(), ws)
	assert.ErrorIs(t, err, ErrCompilerNotFound)
}

func TestLaTeXCompilerTimeout(t *testing.T) {
	bin := writeStubCompiler(t, `exec sleep 10`)
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{Bin: bin, PassTimeout: 100 * time.Millisecond, Logger: discardLogger()}

	err := c.Compile(context.Background(), ws)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "timeout", compileErr.Reason)
}

func TestLaTeXCompilerCancellation(t *testing.T) {
	bin := writeStubCompiler(t, `exec sleep 10`)
	ws := newTestWorkspace(t)
	c := &LaTeXCompiler{Bin: bin, Logger: discardLogger()}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := c.Compile(ctx, ws)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "canceled", compileErr.Reason)
}

func TestReadCompilerLogMissing(t *testing.T) {
	ws := newTestWorkspace(t)
	assert.Empty(t, readCompilerLog(ws))
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Reason: "compiler exited with error", ExitCode: 1, Stderr: "boom"}
	assert.Contains(t, err.Error(), "exit=1")
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, errors.Is(err, ErrCompilerNotFound))
}
