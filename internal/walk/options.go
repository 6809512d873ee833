package walk

import "github.com/pfind/pfind/internal/config"

// Options is the walker's resolved configuration: every tri-state CLI
// override folded down onto a concrete boolean.
type Options struct {
	// IgnoreHidden skips dot-entries entirely (not visited, not descended).
	IgnoreHidden bool

	// ReadParents loads ignore files from the directories above each root,
	// so that walking a subdirectory of a repository still honors the
	// repository's ignore rules.
	ReadParents bool

	// ReadIgnore honors plain `.ignore` files.
	ReadIgnore bool

	// ReadGitIgnore honors `.gitignore` files.
	ReadGitIgnore bool

	// ReadGitGlobal honors the user's global git ignore file.
	ReadGitGlobal bool

	// ReadGitExclude honors `.git/info/exclude` at repository roots.
	ReadGitExclude bool

	// SameFilesystem refuses to descend into directories on a different
	// device than the root they were reached from.
	SameFilesystem bool

	// Threads is the number of concurrent directory readers.
	Threads int
}

// NewOptions resolves cfg's tri-state walker overrides: each one is forced
// on or off by its pointer when set; otherwise SameFilesystem defaults to
// false and every other override defaults to cfg.AllStandardFilters.
func NewOptions(cfg *config.Options) Options {
	base := cfg.AllStandardFilters

	return Options{
		IgnoreHidden:   resolve(cfg.IgnoreHidden, base),
		ReadParents:    resolve(cfg.ReadParents, base),
		ReadIgnore:     resolve(cfg.ReadIgnore, base),
		ReadGitIgnore:  resolve(cfg.ReadGitIgnore, base),
		ReadGitGlobal:  resolve(cfg.ReadGitGlobal, base),
		ReadGitExclude: resolve(cfg.ReadGitExclude, base),
		SameFilesystem: resolve(cfg.SameFilesystem, false),
		Threads:        cfg.Threads,
	}
}

func resolve(override *bool, fallback bool) bool {
	if override != nil {
		return *override
	}

	return fallback
}
