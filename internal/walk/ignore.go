package walk

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreRule is one parsed line of an ignore file.
type ignoreRule struct {
	matcher  glob.Glob
	negated  bool
	dirOnly  bool
	anchored bool // pattern contained a slash: match the relative path, not the base name
}

// ruleSet holds the rules read from one directory's ignore files, plus a
// link to the enclosing directory's set. Matching walks the chain from the
// innermost set outward; within a file, the last matching rule wins.
type ruleSet struct {
	dir    string
	rules  []ignoreRule
	parent *ruleSet
}

// ignoreFileNames lists the per-directory ignore files the walker reads, in
// ascending precedence order (later files override earlier ones).
func (o Options) ignoreFileNames() []string {
	var names []string

	if o.ReadGitIgnore {
		names = append(names, ".gitignore")
	}

	if o.ReadIgnore {
		names = append(names, ".ignore")
	}

	return names
}

// loadRuleSet reads dir's ignore files and chains the result onto parent.
// Returns parent unchanged when dir contributes no rules.
func (o Options) loadRuleSet(dir string, parent *ruleSet) *ruleSet {
	var rules []ignoreRule

	if o.ReadGitExclude {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			rules = append(rules, readIgnoreFile(filepath.Join(dir, ".git", "info", "exclude"))...)
		}
	}

	for _, name := range o.ignoreFileNames() {
		rules = append(rules, readIgnoreFile(filepath.Join(dir, name))...)
	}

	if len(rules) == 0 {
		return parent
	}

	return &ruleSet{dir: dir, rules: rules, parent: parent}
}

// globalRuleSet loads the user's global git ignore file, the outermost link
// of every chain.
func (o Options) globalRuleSet() *ruleSet {
	if !o.ReadGitGlobal {
		return nil
	}

	path := os.Getenv("GIT_CONFIG_GLOBAL_IGNORE")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}

		path = filepath.Join(home, ".config", "git", "ignore")
	}

	rules := readIgnoreFile(path)
	if len(rules) == 0 {
		return nil
	}

	// Global rules have no anchor directory; they only ever match base
	// names, so dir is irrelevant for the anchored=false rules a global
	// ignore file realistically contains.
	return &ruleSet{dir: "", rules: rules}
}

// parentRuleSets walks from the filesystem root down to (and excluding)
// root, loading each directory's ignore files, so that rules above the
// starting point still apply beneath it.
func (o Options) parentRuleSets(root string, base *ruleSet) *ruleSet {
	abs, err := filepath.Abs(root)
	if err != nil {
		return base
	}

	var ancestors []string

	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		ancestors = append(ancestors, dir)

		if dir == filepath.Dir(dir) {
			break
		}
	}

	set := base

	// Outermost first, so inner directories override outer ones.
	for i := len(ancestors) - 1; i >= 0; i-- {
		set = o.loadRuleSet(ancestors[i], set)
	}

	return set
}

func readIgnoreFile(path string) []ignoreRule {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var rules []ignoreRule

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if rule, ok := parseIgnoreLine(scanner.Text()); ok {
			rules = append(rules, rule)
		}
	}

	return rules
}

// parseIgnoreLine compiles one ignore-file line. Comments and blank lines
// produce no rule. The supported subset: `!` negation, trailing-slash
// directory-only patterns, slash-anchored relative-path patterns, and `*`,
// `**`, `?`, `[...]` wildcards.
func parseIgnoreLine(line string) (ignoreRule, bool) {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	rule := ignoreRule{}

	if strings.HasPrefix(line, "!") {
		rule.negated = true
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	if strings.Contains(line, "/") {
		rule.anchored = true
		line = strings.TrimPrefix(line, "/")
	}

	matcher, err := glob.Compile(line, '/')
	if err != nil {
		return ignoreRule{}, false
	}

	rule.matcher = matcher

	return rule, true
}

// ignored reports whether the entry at path (with base name, directory-ness
// isDir) is excluded by the chain rooted at s. Inner sets take precedence
// over outer ones; within a set, the last matching rule wins.
func (s *ruleSet) ignored(path, name string, isDir bool) bool {
	for set := s; set != nil; set = set.parent {
		if verdict, matched := set.match(path, name, isDir); matched {
			return verdict
		}
	}

	return false
}

func (s *ruleSet) match(path, name string, isDir bool) (verdict, matched bool) {
	rel := relForMatch(s.dir, path)

	for i := len(s.rules) - 1; i >= 0; i-- {
		rule := s.rules[i]

		if rule.dirOnly && !isDir {
			continue
		}

		subject := name
		if rule.anchored {
			if rel == "" {
				continue
			}

			subject = rel
		}

		if rule.matcher.Match(subject) {
			return !rule.negated, true
		}
	}

	return false, false
}

func relForMatch(dir, path string) string {
	if dir == "" {
		return ""
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}

	return filepath.ToSlash(rel)
}
