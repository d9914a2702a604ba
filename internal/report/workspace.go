package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is the uniquely-named directory tree owned by one compilation.
// Concurrent compilations never share a workspace; the UUID in the root is
// the invocation's sole identity.
type Workspace struct {
	Root       string
	SourceFile string
	OutputFile string
	LogFile    string
	AssetDir   string
}

// NewWorkspace creates a fresh workspace under baseDir. baseDir defaults to
// a labelforge-reports directory under the system temp dir.
func NewWorkspace(baseDir string) (Workspace, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "labelforge-reports")
	}
	root := filepath.Join(baseDir, "report-"+uuid.New().String())

	ws := Workspace{
		Root:       root,
		SourceFile: filepath.Join(root, "report.tex"),
		OutputFile: filepath.Join(root, "report.pdf"),
		LogFile:    filepath.Join(root, "report.log"),
		AssetDir:   filepath.Join(root, assetDirName),
	}
	if err := os.MkdirAll(ws.AssetDir, 0o755); err != nil {
		return Workspace{}, fmt.Errorf("report: create workspace: %w", err)
	}
	return ws, nil
}

// Remove deletes the whole workspace tree. Callers treat failure as a
// warning, never as a request error.
func (ws Workspace) Remove() error {
	return os.RemoveAll(ws.Root)
}
