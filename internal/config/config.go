// Package config holds the flat options struct the CLI populates and the
// rest of the program reads. Flags bind here once, in cmd/pfind; everything
// downstream takes an *Options instead of reaching back into the CLI
// context.
package config

import (
	"runtime"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

// Options carries one run's configuration from flag parsing down to the
// walker and pipeline.
//
// The walker overrides are tri-state: nil means "walker default", a non-nil
// pointer forces the named behavior on or off.
type Options struct {
	// Expression is the raw predicate string (-e). Required.
	Expression string

	// Roots are the starting directories; defaults to the current working
	// directory when no positional arguments are given.
	Roots []string

	// PrintTree makes the run parse, dump the tree, and exit (-q).
	PrintTree bool

	// Threads is the producer count; defaults to the CPU count.
	Threads int

	// AllStandardFilters enables every standard ignore filter on the walker
	// in one flag (-a).
	AllStandardFilters bool

	// Print0 separates output paths with NUL instead of newline.
	Print0 bool

	IgnoreHidden   *bool
	ReadParents    *bool
	ReadIgnore     *bool
	ReadGitIgnore  *bool
	ReadGitGlobal  *bool
	ReadGitExclude *bool
	SameFilesystem *bool
}

// NewOptions returns an Options with every default filled in.
func NewOptions() *Options {
	return &Options{
		Roots:   []string{"."},
		Threads: runtime.NumCPU(),
	}
}

// Validate rejects configurations no run could execute.
func (o *Options) Validate() error {
	if o.Expression == "" {
		return &pfinderrors.ParseFailureError{Detail: "an expression is required (-e)"}
	}

	if o.Threads < 1 {
		return &pfinderrors.ParseFailureError{Detail: "thread count must be at least 1"}
	}

	if len(o.Roots) == 0 {
		o.Roots = []string{"."}
	}

	return nil
}
