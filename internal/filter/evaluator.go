package filter

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

// readTimeout bounds how long the Type and Contains filters will block on a
// single file's content.
const readTimeout = 1 * time.Second

// sniffWindow caps how many leading bytes the Type filter reads, and sizes
// the Contains filter's line-scan buffer.
const sniffWindow = 8192

// Evaluator applies an (NNF or original) ExpressionNode against one Entry.
// It owns the one piece of configuration every leaf filter besides the pure
// comparisons needs: a Sniffer for Type.
type Evaluator struct {
	Sniffer Sniffer
}

// Evaluate applies e to entry with short-circuit semantics: And
// short-circuits on a false left operand, Or on a true one, and either
// propagates an error immediately without evaluating the right side.
func (ev *Evaluator) Evaluate(ctx context.Context, e ExpressionNode, entry Entry) (bool, error) {
	switch n := e.(type) {
	case *LeafNode:
		return ev.evaluateFilter(ctx, n.Filter, entry)
	case *AndNode:
		left, err := ev.Evaluate(ctx, n.Left, entry)
		if err != nil {
			return false, err
		}

		if !left {
			return false, nil
		}

		return ev.Evaluate(ctx, n.Right, entry)
	case *OrNode:
		left, err := ev.Evaluate(ctx, n.Left, entry)
		if err != nil {
			return false, err
		}

		if left {
			return true, nil
		}

		return ev.Evaluate(ctx, n.Right, entry)
	case *NotNode:
		inner, err := ev.Evaluate(ctx, n.Expr, entry)
		if err != nil {
			return false, err
		}

		return !inner, nil
	default:
		panic("filter: unknown ExpressionNode type")
	}
}

func (ev *Evaluator) evaluateFilter(ctx context.Context, f Filter, entry Entry) (bool, error) {
	switch f.Kind {
	case KindSize:
		return ev.evaluateSize(entry, f)
	case KindDepth:
		return ev.evaluateDepth(entry, f)
	case KindType:
		return ev.evaluateType(ctx, entry, f)
	case KindAccessTime:
		return ev.evaluateTime(entry, f, Entry.AccessTime)
	case KindModificationTime:
		return ev.evaluateTime(entry, f, Entry.ModTime)
	case KindName:
		return ev.evaluateName(entry, f)
	case KindExtension:
		return ev.evaluateExtension(entry, f)
	case KindContains:
		return ev.evaluateContains(ctx, entry, f)
	case KindUser:
		return ev.evaluateUser(entry, f)
	case KindGroup:
		return ev.evaluateGroup(entry, f)
	case KindPermissions:
		return ev.evaluatePermissions(entry, f)
	default:
		panic("filter: unknown Filter kind")
	}
}

func (ev *Evaluator) evaluateSize(entry Entry, f Filter) (bool, error) {
	et, err := entry.EntryType()
	if err != nil {
		return false, ioErr(entry, err)
	}

	if et != TypeFile {
		return false, notAFile(entry)
	}

	size, err := entry.Size()
	if err != nil {
		return false, ioErr(entry, err)
	}

	return evaluateUint(f.Cmp, size, f.Uint), nil
}

func (ev *Evaluator) evaluateDepth(entry Entry, f Filter) (bool, error) {
	depth, err := entry.Depth()
	if err != nil {
		return false, ioErr(entry, err)
	}

	return evaluateUint(f.Cmp, uint64(depth), f.Uint), nil
}

func (ev *Evaluator) evaluateTime(entry Entry, f Filter, accessor func(Entry) (time.Time, error)) (bool, error) {
	stamp, err := accessor(entry)
	if err != nil {
		return false, ioErr(entry, err)
	}

	threshold := Now().Add(f.Duration)

	return evaluateInt64(f.Cmp, stamp.UnixNano(), threshold.UnixNano()), nil
}

func (ev *Evaluator) evaluateName(entry Entry, f Filter) (bool, error) {
	name, err := entry.Name()
	if err != nil {
		return false, ioErr(entry, err)
	}

	matched := f.Pattern.IsMatch(name)
	if f.Cmp == Ne {
		return !matched, nil
	}

	return matched, nil
}

func (ev *Evaluator) evaluateExtension(entry Entry, f Filter) (bool, error) {
	name, err := entry.Name()
	if err != nil {
		return false, ioErr(entry, err)
	}

	ext, ok := extensionOf(name)
	if !ok {
		return false, nil
	}

	matched := f.Pattern.IsMatch(ext)
	if f.Cmp == Ne {
		return !matched, nil
	}

	return matched, nil
}

func extensionOf(name string) (string, bool) {
	idx := strings.Index(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}

	return name[idx+1:], true
}

func (ev *Evaluator) evaluateType(ctx context.Context, entry Entry, f Filter) (bool, error) {
	et, err := entry.EntryType()
	if err != nil {
		return false, ioErr(entry, err)
	}

	if et != TypeFile {
		return false, nil
	}

	size, err := entry.Size()
	if err != nil {
		return false, ioErr(entry, err)
	}

	window := size
	if window > sniffWindow {
		window = sniffWindow
	}

	content, err := readWithTimeout(ctx, entry, int(window))
	if err != nil {
		return false, err
	}

	if ev.Sniffer == nil {
		return false, nil
	}

	got, ok := ev.Sniffer(content)
	if !ok {
		return false, nil
	}

	matched := got == f.Type
	if f.Cmp == Ne {
		return !matched, nil
	}

	return matched, nil
}

func (ev *Evaluator) evaluateContains(ctx context.Context, entry Entry, f Filter) (bool, error) {
	et, err := entry.EntryType()
	if err != nil {
		return false, ioErr(entry, err)
	}

	if et != TypeFile {
		return false, nil
	}

	path, err := entry.Path()
	if err != nil {
		return false, ioErr(entry, err)
	}

	if isProcPagemap(path) {
		return false, nil
	}

	matched, err := scanLinesWithTimeout(ctx, entry, f.Pattern)
	if err != nil {
		return false, err
	}

	if f.Cmp == Ne {
		return !matched, nil
	}

	return matched, nil
}

// isProcPagemap skips /proc/**/pagemap pseudo-files, which read as
// effectively infinite and are known to trigger OOM on Linux.
func isProcPagemap(path string) bool {
	clean := filepath.ToSlash(path)

	return strings.HasPrefix(clean, "/proc/") && strings.HasSuffix(clean, "/pagemap")
}

func (ev *Evaluator) evaluateUser(entry Entry, f Filter) (bool, error) {
	uid, err := entry.UID()
	if err != nil {
		return false, ioErr(entry, err)
	}

	return evaluateUint(f.Cmp, uint64(uid), f.Uint), nil
}

func (ev *Evaluator) evaluateGroup(entry Entry, f Filter) (bool, error) {
	gid, err := entry.GID()
	if err != nil {
		return false, ioErr(entry, err)
	}

	return evaluateUint(f.Cmp, uint64(gid), f.Uint), nil
}

// permissionBits returns the number of low-order mode bits to compare:
// ⌈log₂(value)⌉+1, or 1 when value is 0.
func permissionBits(value uint64) uint {
	if value == 0 {
		return 1
	}

	// ⌈log₂(value)⌉ is the bit length of value-1.
	var bits uint

	for v := value - 1; v > 0; v >>= 1 {
		bits++
	}

	return bits + 1
}

func (ev *Evaluator) evaluatePermissions(entry Entry, f Filter) (bool, error) {
	mode, err := entry.Permissions()
	if err != nil {
		return false, ioErr(entry, err)
	}

	bits := permissionBits(f.Uint)
	mask := uint64(1)<<bits - 1

	return evaluateUint(f.Cmp, uint64(mode)&mask, f.Uint&mask), nil
}

func ioErr(entry Entry, err error) error {
	path, _ := entry.Path()
	return &pfinderrors.IOError{Path: path, Err: err}
}

func notAFile(entry Entry) error {
	path, _ := entry.Path()
	return &pfinderrors.NotAFileError{Path: path}
}

// readWithTimeout reads up to n bytes from entry, aborting with an IOError
// if the read doesn't finish within readTimeout.
func readWithTimeout(ctx context.Context, entry Entry, n int) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, ioErr(entry, err)
	}
	defer rc.Close()

	type result struct {
		buf []byte
		err error
	}

	done := make(chan result, 1)

	go func() {
		buf := make([]byte, n)
		read, err := io.ReadFull(rc, buf)

		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			done <- result{err: err}
			return
		}

		done <- result{buf: buf[:read]}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, ioErr(entry, r.err)
		}

		return r.buf, nil
	case <-timeoutCtx.Done():
		return nil, ioErr(entry, timeoutCtx.Err())
	}
}

// scanLinesWithTimeout iterates entry's lines looking for the first one
// matching p, bounded by readTimeout total.
func scanLinesWithTimeout(ctx context.Context, entry Entry, p MatchPattern) (bool, error) {
	rc, err := entry.Open()
	if err != nil {
		return false, ioErr(entry, err)
	}
	defer rc.Close()

	type result struct {
		matched bool
		err     error
	}

	done := make(chan result, 1)

	go func() {
		scanner := bufio.NewScanner(rc)
		scanner.Buffer(make([]byte, sniffWindow), sniffWindow*64)

		for scanner.Scan() {
			if p.IsMatch(scanner.Text()) {
				done <- result{matched: true}
				return
			}
		}

		done <- result{err: scanner.Err()}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	select {
	case r := <-done:
		if r.err != nil {
			return false, ioErr(entry, r.err)
		}

		return r.matched, nil
	case <-timeoutCtx.Done():
		return false, ioErr(entry, timeoutCtx.Err())
	}
}
