// Package loader reads a ledger entry file and resolves its include
// directives into a single ordered directive list.
//
// Include paths are resolved relative to the directory of the including
// file. Paths containing glob metacharacters (* or ?) are expanded against
// the filesystem and every match is loaded recursively. Missing non-glob
// includes are skipped silently; a ledger split across files stays loadable
// while one part is absent. A visited set of absolute paths guards against
// include cycles and deduplicates files included more than once.
//
// Example usage:
//
//	ldr := loader.New(loader.WithFollowIncludes())
//	result, err := ldr.Load(ctx, "main.bean")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/parser"
	"github.com/robinvdvleuten/beanledger/telemetry"
)

// Loader loads ledger files with optional include resolution.
type Loader struct {
	// FollowIncludes determines whether include directives are resolved
	// recursively. When false only the entry file is parsed and Include
	// directives stay in the output.
	FollowIncludes bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFollowIncludes makes the loader resolve and merge all included files.
// Include directives are consumed in the process; they do not appear in the
// result.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the outcome of a load: the merged directive list, the resolved
// absolute path of the entry file, and the absolute paths of every included
// file that was read. The include list is what a file watcher should watch.
type Result struct {
	Directives []ast.Directive
	Root       string
	Includes   []string
}

// Load reads and parses the entry file, following includes when configured.
// An unreadable entry file is an error; unreadable includes are skipped.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("load %s", filepath.Base(filename)))
	defer timer.End()

	root, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	data, err := os.ReadFile(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return l.loadBytes(ctx, root, data)
}

// LoadBytes parses already-read content as the entry file, resolving its
// includes relative to the file's directory. Used for stdin input.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	root, err := filepath.Abs(filename)
	if err != nil {
		root = filename
	}
	return l.loadBytes(ctx, root, data)
}

func (l *Loader) loadBytes(ctx context.Context, root string, data []byte) (*Result, error) {
	baseDir := filepath.Dir(root)

	if !l.FollowIncludes {
		directives, err := parser.Parse(ctx, sourceName(baseDir, root), data)
		if err != nil {
			return nil, err
		}
		return &Result{Directives: directives, Root: root}, nil
	}

	state := &loaderState{
		baseDir: baseDir,
		visited: map[string]bool{root: true},
	}

	directives, err := state.parseAndResolve(ctx, root, data)
	if err != nil {
		return nil, err
	}

	return &Result{Directives: directives, Root: root, Includes: state.includes}, nil
}

// loaderState tracks visited files during recursive loading.
type loaderState struct {
	baseDir  string
	visited  map[string]bool
	includes []string
}

// loadRecursive reads one included file and resolves its own includes.
// Already-visited files yield nothing, which both deduplicates repeated
// includes and breaks include cycles.
func (s *loaderState) loadRecursive(ctx context.Context, filename string) ([]ast.Directive, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}
	if s.visited[absPath] {
		return nil, nil
	}
	s.visited[absPath] = true

	data, err := os.ReadFile(absPath)
	if err != nil {
		// Included files may legitimately be absent (a future month's file,
		// an optional local overlay); skip rather than fail the whole load.
		return nil, nil
	}
	s.includes = append(s.includes, absPath)

	return s.parseAndResolve(ctx, absPath, data)
}

// parseAndResolve parses one file's content and splices in the directives of
// every file it includes, in include order.
func (s *loaderState) parseAndResolve(ctx context.Context, absPath string, data []byte) ([]ast.Directive, error) {
	parsed, err := parser.Parse(ctx, sourceName(s.baseDir, absPath), data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(absPath)
	var out []ast.Directive

	for _, d := range parsed {
		inc, ok := d.(*ast.Include)
		if !ok {
			out = append(out, d)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, target := range s.expand(dir, inc.Path) {
			loaded, err := s.loadRecursive(ctx, target)
			if err != nil {
				return nil, fmt.Errorf("in file %s: %w", absPath, err)
			}
			out = append(out, loaded...)
		}
	}

	return out, nil
}

// expand resolves an include path against the including file's directory.
// Glob patterns expand to every match; exact paths resolve to themselves
// only when the file exists.
func (s *loaderState) expand(dir, path string) []string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	if strings.ContainsAny(path, "*?") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil
		}
		return matches
	}

	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{path}
}

// sourceName renders the span source for a file: relative to the entry
// file's directory when possible so directive identifiers stay stable when
// the ledger tree moves.
func sourceName(baseDir, absPath string) string {
	rel, err := filepath.Rel(baseDir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return absPath
	}
	return rel
}
