package dupfind

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// TraversalError reports a filesystem entry the walk could not resolve
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot access %q: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// scanTree walks the scanner root and streams every regular file path into resultChan.
// Entry errors go to the sink and never stop the walk; only ctx ends it early.
func (s *Scanner) scanTree(ctx context.Context, resultChan chan<- string) error {
	defer VerboseEnter()()
	defer close(resultChan)

	return afero.Walk(s.Fs, walkRoot(s.Fs, s.Root), func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relPath, relErr := filepath.Rel(s.Root, path)
		if relErr == nil {
			path = rootedPath(s.Root, relPath)
		}

		if err != nil {
			s.Sink.Report(&TraversalError{Path: path, Err: err})
			return nil
		}

		if relErr == nil && relPath != "." {
			if s.Ignore.ShouldIgnore(relPath) {
				if IsDebugEnabled(DebugWalk) {
					DebugLog(DebugWalk, "ignoring %s", relPath)
				}
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		// Directories, symlinks, devices, pipes and sockets are never fingerprinted
		if !info.Mode().IsRegular() {
			return nil
		}

		if IsDebugEnabled(DebugWalk) {
			DebugLog(DebugWalk, "found file %s", path)
		}

		select {
		case resultChan <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// walkRoot makes a symlinked root resolve to its target directory. Links
// below the root are still never followed.
func walkRoot(fsys afero.Fs, root string) string {
	lfs, ok := fsys.(afero.Lstater)
	if !ok {
		return root
	}
	info, _, err := lfs.LstatIfPossible(root)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return root
	}
	if target, err := fsys.Stat(root); err != nil || !target.IsDir() {
		return root
	}
	return root + string(filepath.Separator)
}

// rootedPath joins relPath onto root as the caller spelled it, so a "." root
// yields "./name" where filepath.Join would give "name"
func rootedPath(root, relPath string) string {
	if relPath == "." {
		return root
	}
	if root == "" {
		return relPath
	}
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return root + relPath
	}
	return root + string(filepath.Separator) + relPath
}
