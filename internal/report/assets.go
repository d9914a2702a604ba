package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AssetResult records the outcome of staging one asset into a workspace.
type AssetResult struct {
	Filename string
	Copied   bool
	Reason   string // set when not copied
}

// stageAssets copies the named upload files into the workspace's asset
// directory. Filenames are de-duplicated first. A missing or unreadable
// source is not fatal: the asset is recorded as skipped and compilation
// proceeds with a dangling image reference.
func (s *Service) stageAssets(ws Workspace, names []string) []AssetResult {
	seen := make(map[string]struct{}, len(names))
	results := make([]AssetResult, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if err := s.copyAsset(ws, name); err != nil {
			s.logger.Warn("report asset missing, reference will dangle",
				"filename", name, "error", err)
			results = append(results, AssetResult{Filename: name, Reason: err.Error()})
			continue
		}
		results = append(results, AssetResult{Filename: name, Copied: true})
	}
	return results
}

func (s *Service) copyAsset(ws Workspace, name string) error {
	src, err := s.uploads.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(ws.AssetDir, name))
	if err != nil {
		return fmt.Errorf("create staged asset: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy asset: %w", err)
	}
	return dst.Close()
}
