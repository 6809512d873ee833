// Package walk implements the parallel directory traversal feeding the
// pipeline: a pool of workers drains a shared frontier of directories,
// applying hidden-file and ignore-file rules, and hands every surviving
// entry to a visitor callback.
package walk

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	pfinderrors "github.com/pfind/pfind/internal/errors"
	"github.com/pfind/pfind/internal/filter"
	"github.com/pfind/pfind/internal/worker"
)

// VisitFunc receives one discovered entry. Returning false stops the whole
// walk; the walker finishes in-flight directories and returns.
type VisitFunc func(entry filter.Entry) bool

// ErrorFunc receives non-fatal traversal errors (unreadable directories,
// stat failures on a root). The walk continues past them.
type ErrorFunc func(path string, err error)

// Walker walks one or more roots in parallel.
type Walker struct {
	opts    Options
	visit   VisitFunc
	onError ErrorFunc
}

// NewWalker creates a Walker. onError may be nil to drop traversal errors.
func NewWalker(opts Options, visit VisitFunc, onError ErrorFunc) *Walker {
	if opts.Threads < 1 {
		opts.Threads = 1
	}

	if onError == nil {
		onError = func(string, error) {}
	}

	return &Walker{opts: opts, visit: visit, onError: onError}
}

// dirItem is one frontier element: a directory whose entries still need
// visiting.
type dirItem struct {
	path  string
	depth uint
	rules *ruleSet
	dev   uint64
	devOK bool
}

// Walk traverses every root, invoking the visitor for each entry that
// survives the hidden/ignore rules. The roots themselves are not visited;
// their children start at depth 1. Walk returns once every directory is
// drained, the visitor asks to stop, or ctx is cancelled.
func (w *Walker) Walk(ctx context.Context, roots []string) error {
	f := newFrontier()

	global := w.opts.globalRuleSet()

	for _, root := range roots {
		item, err := w.rootItem(root, global)
		if err != nil {
			w.onError(root, &pfinderrors.IgnoreError{Path: root, Err: err})
			continue
		}

		f.push(item)
	}

	pool := worker.NewWorkerPool(w.opts.Threads)
	defer pool.Stop()

	for i := 0; i < w.opts.Threads; i++ {
		pool.Submit(func() error {
			w.drain(ctx, f)
			return nil
		})
	}

	err := pool.Wait()

	// A cancelled context outranks any per-task error: the caller asked the
	// walk to stop and gets told that, not some artifact of the teardown.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

func (w *Walker) rootItem(root string, global *ruleSet) (dirItem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return dirItem{}, err
	}

	if !info.IsDir() {
		return dirItem{}, pfinderrors.New("not a directory: " + root)
	}

	rules := global
	if w.opts.ReadParents {
		rules = w.opts.parentRuleSets(root, rules)
	}

	rules = w.opts.loadRuleSet(root, rules)

	dev, devOK := device(info)

	return dirItem{path: root, depth: 0, rules: rules, dev: dev, devOK: devOK}, nil
}

// drain is one worker's loop: pop a directory, visit its entries, push its
// subdirectories, repeat until the frontier is exhausted or stopped.
func (w *Walker) drain(ctx context.Context, f *frontier) {
	for {
		item, ok := f.pop()
		if !ok {
			return
		}

		if ctx.Err() != nil {
			f.stop()
			f.done()

			return
		}

		w.visitDir(ctx, f, item)
		f.done()
	}
}

func (w *Walker) visitDir(ctx context.Context, f *frontier, item dirItem) {
	dirents, err := os.ReadDir(item.path)
	if err != nil {
		w.onError(item.path, &pfinderrors.IgnoreError{Path: item.path, Err: err})
		return
	}

	childDepth := item.depth + 1

	for _, dirent := range dirents {
		if ctx.Err() != nil {
			f.stop()
			return
		}

		name := dirent.Name()

		if w.opts.IgnoreHidden && strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(item.path, name)
		isDir := dirent.IsDir()

		if item.rules.ignored(path, name, isDir) {
			continue
		}

		if !w.visit(newEntry(path, name, childDepth, dirent)) {
			f.stop()
			return
		}

		if !isDir {
			continue
		}

		if w.opts.SameFilesystem && !w.sameDevice(item, path) {
			continue
		}

		f.push(dirItem{
			path:  path,
			depth: childDepth,
			rules: w.opts.loadRuleSet(path, item.rules),
			dev:   item.dev,
			devOK: item.devOK,
		})
	}
}

func (w *Walker) sameDevice(item dirItem, path string) bool {
	if !item.devOK {
		return true
	}

	info, err := os.Stat(path)
	if err != nil {
		w.onError(path, &pfinderrors.IgnoreError{Path: path, Err: err})
		return false
	}

	dev, ok := device(info)
	if !ok {
		return true
	}

	return dev == item.dev
}
