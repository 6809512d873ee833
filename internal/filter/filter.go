package filter

import (
	"fmt"
	"strconv"
	"time"
)

// Kind discriminates the Filter tagged union.
type Kind int

const (
	KindSize Kind = iota
	KindDepth
	KindType
	KindAccessTime
	KindModificationTime
	KindName
	KindExtension
	KindContains
	KindUser
	KindGroup
	KindPermissions
)

func (k Kind) String() string {
	switch k {
	case KindSize:
		return "size"
	case KindDepth:
		return "depth"
	case KindType:
		return "type"
	case KindAccessTime:
		return "atime"
	case KindModificationTime:
		return "mtime"
	case KindName:
		return "name"
	case KindExtension:
		return "ext"
	case KindContains:
		return "contains"
	case KindUser:
		return "user"
	case KindGroup:
		return "group"
	case KindPermissions:
		return "perm"
	default:
		return "unknown"
	}
}

// baseWeight is the static cost-proxy table, used only by
// the (unimplemented) arrangement planner and exposed for diagnostics.
func (k Kind) baseWeight() int {
	switch k {
	case KindSize:
		return 4
	case KindDepth:
		return 1
	case KindType:
		return 16
	case KindAccessTime, KindModificationTime:
		return 4
	case KindContains:
		return 8
	case KindUser, KindGroup, KindPermissions:
		return 4
	default:
		return 0
	}
}

// Filter is a leaf predicate: a comparison plus a typed value, tagged by
// Kind. At most one of the value fields below is meaningful for any given
// Kind; see NewSizeFilter etc. for the constructors that keep this
// consistent.
type Filter struct {
	Kind Kind
	Cmp  Comparison

	Uint     uint64        // Size, User, Group, Permissions, Depth
	Duration time.Duration // AccessTime, ModificationTime (signed, relative to Now())
	Type     FileType      // Type
	Pattern  MatchPattern  // Name, Extension, Contains
}

func NewSizeFilter(cmp Comparison, bytes uint64) Filter {
	return Filter{Kind: KindSize, Cmp: cmp, Uint: bytes}
}

func NewDepthFilter(cmp Comparison, depth uint64) Filter {
	return Filter{Kind: KindDepth, Cmp: cmp, Uint: depth}
}

func NewTypeFilter(cmp Comparison, t FileType) Filter {
	return Filter{Kind: KindType, Cmp: cmp, Type: t}
}

func NewAccessTimeFilter(cmp Comparison, d time.Duration) Filter {
	return Filter{Kind: KindAccessTime, Cmp: cmp, Duration: d}
}

func NewModificationTimeFilter(cmp Comparison, d time.Duration) Filter {
	return Filter{Kind: KindModificationTime, Cmp: cmp, Duration: d}
}

func NewNameFilter(cmp Comparison, p MatchPattern) Filter {
	return Filter{Kind: KindName, Cmp: cmp, Pattern: p}
}

func NewExtensionFilter(cmp Comparison, p MatchPattern) Filter {
	return Filter{Kind: KindExtension, Cmp: cmp, Pattern: p}
}

func NewContainsFilter(cmp Comparison, p MatchPattern) Filter {
	return Filter{Kind: KindContains, Cmp: cmp, Pattern: p}
}

func NewUserFilter(cmp Comparison, uid uint64) Filter {
	return Filter{Kind: KindUser, Cmp: cmp, Uint: uid}
}

func NewGroupFilter(cmp Comparison, gid uint64) Filter {
	return Filter{Kind: KindGroup, Cmp: cmp, Uint: gid}
}

func NewPermissionsFilter(cmp Comparison, mode uint64) Filter {
	return Filter{Kind: KindPermissions, Cmp: cmp, Uint: mode}
}

// Negate returns the logical complement of f: same Kind and value, Cmp
// flipped to its complement. Used by to_nnf's De Morgan pushdown.
func (f Filter) Negate() Filter {
	g := f
	g.Cmp = f.Cmp.Negate()

	return g
}

// Weight is the static cost proxy (lower = cheaper). Name
// and Extension cost more for regex patterns than for glob ones.
func (f Filter) Weight() int {
	switch f.Kind {
	case KindName, KindExtension:
		if f.patternIsRegex() {
			return 2
		}

		return 1
	default:
		return f.Kind.baseWeight()
	}
}

func (f Filter) patternIsRegex() bool {
	return f.Pattern.isRegex
}

// canonicalComparison folds a comparison to the representative of its
// {c, ¬c} pair, and reports whether f.Cmp *is* that representative
// (polarity=true) or its negation (polarity=false). Two Filters that are
// Negate() of each other share a canonical key with opposite polarity — the
// propositional-variable identity the Nnf/Tseitin stage relies on.
func canonicalComparison(cmp Comparison) (Comparison, bool) {
	switch cmp {
	case Eq:
		return Eq, true
	case Ne:
		return Eq, false
	case Lt:
		return Lt, true
	case Ge:
		return Lt, false
	case Gt:
		return Gt, true
	case Le:
		return Gt, false
	default:
		return cmp, true
	}
}

// canonicalKey identifies the underlying propositional slot f belongs to,
// ignoring polarity, plus whether f itself is the positive or negated half
// of that slot.
func (f Filter) canonicalKey() (string, bool) {
	canon, polarity := canonicalComparison(f.Cmp)

	var value string

	switch f.Kind {
	case KindSize, KindDepth, KindUser, KindGroup, KindPermissions:
		value = strconv.FormatUint(f.Uint, 10)
	case KindAccessTime, KindModificationTime:
		value = strconv.FormatInt(int64(f.Duration), 10)
	case KindType:
		value = f.Type.String()
	case KindName, KindExtension, KindContains:
		value = f.Pattern.String()
	}

	return fmt.Sprintf("%d:%s:%s", f.Kind, canon, value), polarity
}

// String renders f the way the parser accepts it back.
func (f Filter) String() string {
	switch f.Kind {
	case KindSize:
		return fmt.Sprintf("size%s%d", f.Cmp, f.Uint)
	case KindDepth:
		return fmt.Sprintf("depth%s%d", f.Cmp, f.Uint)
	case KindType:
		return fmt.Sprintf("type%s%s", f.Cmp, f.Type)
	case KindAccessTime:
		return fmt.Sprintf("atime%s%s", f.Cmp, formatNowRelative(f.Duration))
	case KindModificationTime:
		return fmt.Sprintf("mtime%s%s", f.Cmp, formatNowRelative(f.Duration))
	case KindName:
		return fmt.Sprintf("name%s%s", f.Cmp, f.Pattern)
	case KindExtension:
		return fmt.Sprintf("ext%s%s", f.Cmp, f.Pattern)
	case KindContains:
		return fmt.Sprintf("contains%s%s", f.Cmp, f.Pattern)
	case KindUser:
		return fmt.Sprintf("user%s%d", f.Cmp, f.Uint)
	case KindGroup:
		return fmt.Sprintf("group%s%d", f.Cmp, f.Uint)
	case KindPermissions:
		return fmt.Sprintf("perm%s%o", f.Cmp, f.Uint)
	default:
		return "<invalid filter>"
	}
}

// formatNowRelative renders d in the largest whole time unit the grammar
// knows, so the result parses back to the same duration.
func formatNowRelative(d time.Duration) string {
	if d == 0 {
		return "now"
	}

	sign := "+"
	v := d

	if d < 0 {
		sign = "-"
		v = -d
	}

	var (
		n    int64
		unit string
	)

	switch {
	case v%(24*time.Hour) == 0:
		n, unit = int64(v/(24*time.Hour)), "d"
	case v%time.Hour == 0:
		n, unit = int64(v/time.Hour), "h"
	case v%time.Minute == 0:
		n, unit = int64(v/time.Minute), "m"
	default:
		n, unit = int64(v/time.Second), "s"
	}

	return fmt.Sprintf("now %s %d%s", sign, n, unit)
}
