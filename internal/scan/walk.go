package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/morfx/internal/lang"
)

// Walker provides parallel directory traversal with language detection,
// adapted from the teacher's core.FileWalker: same worker-pool channel
// orchestration and doublestar-based include/exclude matching, but
// language detection goes through the module's own lang.Registry rather
// than the teacher's providers/catalog lookup table.
type Walker struct {
	registry   *lang.Registry
	workers    int
	bufferSize int
}

// NewWalker returns a Walker sized for I/O-bound work (2x CPU cores),
// resolving each discovered file's language against registry.
func NewWalker(registry *lang.Registry) *Walker {
	return &Walker{
		registry:   registry,
		workers:    runtime.NumCPU() * 2,
		bufferSize: 1000,
	}
}

// Result is one discovered file.
type Result struct {
	Path     string
	Info     fs.FileInfo
	Language string
	Error    error
}

// Walk traverses scope.Path and streams a Result per matched file. The
// returned channel is closed once every worker has drained the path
// queue or ctx is cancelled.
func (w *Walker) Walk(ctx context.Context, scope Scope) (<-chan Result, error) {
	if err := w.validateScope(scope); err != nil {
		return nil, err
	}

	results := make(chan Result, w.bufferSize)
	paths := make(chan string, w.bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go w.worker(ctx, paths, results, &wg)
	}

	go func() {
		defer close(paths)
		processed := 0
		var visited map[string]struct{}
		if scope.FollowSymlinks {
			visited = make(map[string]struct{})
			if resolved, err := filepath.EvalSymlinks(scope.Path); err == nil {
				visited[resolved] = struct{}{}
			} else {
				visited[scope.Path] = struct{}{}
			}
		}
		w.scanDirectory(ctx, scope.Path, scope, paths, 0, &processed, visited)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

func (w *Walker) worker(ctx context.Context, paths <-chan string, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			result := w.processFile(path)
			select {
			case <-ctx.Done():
				return
			case results <- result:
			}
		}
	}
}

func (w *Walker) scanDirectory(
	ctx context.Context,
	dirPath string,
	scope Scope,
	paths chan<- string,
	depth int,
	processed *int,
	visited map[string]struct{},
) {
	if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}
	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fullPath := filepath.Join(dirPath, entry.Name())

		if w.isExcluded(fullPath, scope.Exclude) {
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 && scope.FollowSymlinks {
			resolvedPath, err := filepath.EvalSymlinks(fullPath)
			if err != nil || resolvedPath == "" {
				continue
			}
			info, err := os.Stat(resolvedPath)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if visited != nil {
					if _, seen := visited[resolvedPath]; seen {
						continue
					}
					visited[resolvedPath] = struct{}{}
				}
				w.scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited)
				continue
			}
		}

		if entry.IsDir() {
			if visited != nil {
				realPath := fullPath
				if resolved, err := filepath.EvalSymlinks(fullPath); err == nil && resolved != "" {
					realPath = resolved
				}
				if _, seen := visited[realPath]; seen {
					continue
				}
				visited[realPath] = struct{}{}
			}
			w.scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited)
			continue
		}

		if w.isIncluded(fullPath, scope.Include) {
			if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
				return
			}
			select {
			case <-ctx.Done():
				return
			case paths <- fullPath:
				*processed++
			}
		}
	}
}

func (w *Walker) processFile(path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Path: path, Error: err}
	}

	language := "unknown"
	if adapter, ok := w.registry.ByExtension(filepath.Ext(path)); ok {
		language = adapter.Language()
	}

	return Result{Path: path, Info: info, Language: language}
}

func (w *Walker) isIncluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if w.matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

func (w *Walker) isExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if w.matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

func (w *Walker) matchPattern(path, pattern string) bool {
	if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		basename := filepath.Base(path)
		if matched, err := doublestar.PathMatch(pattern, basename); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) validateScope(scope Scope) error {
	if scope.Path == "" {
		return fmt.Errorf("scan: path is required")
	}
	info, err := os.Stat(scope.Path)
	if err != nil {
		return fmt.Errorf("scan: cannot access path %s: %w", scope.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan: path %s is not a directory", scope.Path)
	}
	return nil
}
