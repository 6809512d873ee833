package pipeline_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	pfinderrors "github.com/pfind/pfind/internal/errors"
	"github.com/pfind/pfind/internal/filter"
	"github.com/pfind/pfind/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEntry struct {
	entryType filter.EntryType
	name      string
	path      string
	size      uint64
	openErr   error
}

func (e *stubEntry) EntryType() (filter.EntryType, error) { return e.entryType, nil }
func (e *stubEntry) Name() (string, error)                { return e.name, nil }
func (e *stubEntry) Path() (string, error)                { return e.path, nil }
func (e *stubEntry) Size() (uint64, error)                { return e.size, nil }
func (e *stubEntry) Depth() (uint, error)                 { return 1, nil }
func (e *stubEntry) ModTime() (time.Time, error)          { return time.Time{}, nil }
func (e *stubEntry) AccessTime() (time.Time, error)       { return time.Time{}, nil }
func (e *stubEntry) BirthTime() (time.Time, error)        { return time.Time{}, nil }
func (e *stubEntry) UID() (uint32, error)                 { return 0, nil }
func (e *stubEntry) GID() (uint32, error)                 { return 0, nil }
func (e *stubEntry) Permissions() (uint32, error)         { return 0o644, nil }

func (e *stubEntry) Open() (filter.ReadCloser, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}

	return io.NopCloser(strings.NewReader("")), nil
}

func sizeTree(cmp filter.Comparison, bytes uint64) filter.ExpressionNode {
	return &filter.LeafNode{Filter: filter.NewSizeFilter(cmp, bytes)}
}

func TestPipeline_MatchIsPrinted(t *testing.T) {
	t.Parallel()

	p := pipeline.New(false)
	ev := &filter.Evaluator{}

	entry := &stubEntry{entryType: filter.TypeFile, path: "/tmp/a.txt", size: 100}

	ok := p.Produce(context.Background(), ev, sizeTree(filter.Eq, 100), entry)
	assert.True(t, ok)

	p.Close()

	var out, errOut bytes.Buffer
	require.NoError(t, p.Run(&out, &errOut))

	assert.Equal(t, "/tmp/a.txt\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestPipeline_MismatchIsDropped(t *testing.T) {
	t.Parallel()

	p := pipeline.New(false)
	ev := &filter.Evaluator{}

	entry := &stubEntry{entryType: filter.TypeFile, path: "/tmp/a.txt", size: 1}

	ok := p.Produce(context.Background(), ev, sizeTree(filter.Eq, 100), entry)
	assert.True(t, ok)

	p.Close()

	var out, errOut bytes.Buffer
	require.NoError(t, p.Run(&out, &errOut))

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestPipeline_NotAFileIsDroppedSilently(t *testing.T) {
	t.Parallel()

	p := pipeline.New(false)
	ev := &filter.Evaluator{}

	entry := &stubEntry{entryType: filter.TypeDir, path: "/tmp/dir"}

	ok := p.Produce(context.Background(), ev, sizeTree(filter.Eq, 100), entry)
	assert.True(t, ok)

	p.Close()

	var out, errOut bytes.Buffer
	require.NoError(t, p.Run(&out, &errOut))

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestPipeline_IOErrorGoesToStderr(t *testing.T) {
	t.Parallel()

	p := pipeline.New(false)
	ev := &filter.Evaluator{}

	pat, err := filter.NewGlobPattern("*needle*", true)
	require.NoError(t, err)

	tree := &filter.LeafNode{Filter: filter.NewContainsFilter(filter.Eq, pat)}
	entry := &stubEntry{
		entryType: filter.TypeFile,
		path:      "/tmp/locked.txt",
		openErr:   pfinderrors.New("permission denied"),
	}

	ok := p.Produce(context.Background(), ev, tree, entry)
	assert.True(t, ok)

	p.Close()

	var out, errOut bytes.Buffer
	require.NoError(t, p.Run(&out, &errOut))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "/tmp/locked.txt")
	assert.Contains(t, errOut.String(), "permission denied")
}

func TestPipeline_Print0Separator(t *testing.T) {
	t.Parallel()

	p := pipeline.New(true)
	ev := &filter.Evaluator{}

	first := &stubEntry{entryType: filter.TypeFile, path: "/tmp/a", size: 1}
	second := &stubEntry{entryType: filter.TypeFile, path: "/tmp/b", size: 1}

	assert.True(t, p.Produce(context.Background(), ev, sizeTree(filter.Eq, 1), first))
	assert.True(t, p.Produce(context.Background(), ev, sizeTree(filter.Eq, 1), second))

	p.Close()

	var out, errOut bytes.Buffer
	require.NoError(t, p.Run(&out, &errOut))

	assert.Equal(t, "/tmp/a\x00/tmp/b\x00", out.String())
}

func TestPipeline_ProduceStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	p := pipeline.New(false)
	ev := &filter.Evaluator{}

	p.Status.Set(pipeline.Cancelled)

	entry := &stubEntry{entryType: filter.TypeFile, path: "/tmp/a", size: 1}
	ok := p.Produce(context.Background(), ev, sizeTree(filter.Eq, 1), entry)
	assert.False(t, ok)
}

func TestPipeline_ConsumerStopsOnCancelled(t *testing.T) {
	t.Parallel()

	p := pipeline.New(false)
	p.Status.Set(pipeline.Cancelled)

	var out, errOut bytes.Buffer

	done := make(chan error, 1)

	go func() { done <- p.Run(&out, &errOut) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not exit after cancellation")
	}
}

func TestStatusFlag_CancelledIsSticky(t *testing.T) {
	t.Parallel()

	var f pipeline.StatusFlag

	assert.Equal(t, pipeline.InProgress, f.Get())

	f.Set(pipeline.Cancelled)
	f.Set(pipeline.SendError)

	assert.Equal(t, pipeline.Cancelled, f.Get())
}
