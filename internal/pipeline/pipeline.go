// Package pipeline implements the producer/consumer stage that sits between
// the directory walker and the user: producers evaluate the predicate per
// entry and enqueue results, a single consumer drains the queue on a
// bounded-latency flush loop.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	pfinderrors "github.com/pfind/pfind/internal/errors"
	"github.com/pfind/pfind/internal/filter"
)

// flushInterval is the consumer's recv_timeout: how often it wakes up to
// flush buffered output even with no new messages.
const flushInterval = 100 * time.Millisecond

// queueCapacity bounds the message channel. A bounded channel is safe here
// channel "provided producers handle blocking without deadlock against
// cancellation" — Produce below selects on cancellation alongside the send.
const queueCapacity = 4096

// Message is a producer's verdict for one entry: a match (Err == nil) or a
// non-fatal evaluation failure to report on stderr.
type Message struct {
	Path string
	Err  error
}

// Pipeline owns the shared status flag and the message queue connecting
// producers to the consumer.
type Pipeline struct {
	Status *StatusFlag
	Print0 bool

	queue chan Message
}

// New creates a Pipeline ready to accept Produce calls and a single Run.
func New(print0 bool) *Pipeline {
	return &Pipeline{
		Status: &StatusFlag{},
		Print0: print0,
		queue:  make(chan Message, queueCapacity),
	}
}

// Produce evaluates root against entry and enqueues the outcome: a true
// result becomes a match message, an IO-class evaluation error (including a
// read timeout) becomes an error message, anything else (false, any other
// error such as NotAFile, or an already-cancelled pipeline) is dropped
// silently. Produce returns false when the caller
// (the walker) should stop visiting further entries.
func (p *Pipeline) Produce(ctx context.Context, ev *filter.Evaluator, root filter.ExpressionNode, entry filter.Entry) bool {
	if p.Status.Get() != InProgress {
		return false
	}

	matched, err := ev.Evaluate(ctx, root, entry)

	var msg Message

	switch {
	case err != nil:
		// Only IO-class failures (including read timeouts) are worth telling
		// the user about; everything else, e.g. a size filter hitting a
		// directory, is just a mismatch.
		if !isReportable(err) {
			return p.Status.Get() == InProgress
		}

		path, _ := entry.Path()
		msg = Message{Path: path, Err: err}
	case matched:
		path, pathErr := entry.Path()
		if pathErr != nil {
			msg = Message{Path: path, Err: pathErr}
		} else {
			msg = Message{Path: path}
		}
	default:
		return p.Status.Get() == InProgress
	}

	select {
	case p.queue <- msg:
		return p.Status.Get() == InProgress
	case <-ctx.Done():
		p.Status.Set(Cancelled)
		return false
	}
}

// Close signals that no more producers will send; Run's consumer loop exits
// once the queue has drained past this point.
func (p *Pipeline) Close() {
	close(p.queue)
}

// Run is the consumer: a single goroutine holding line-buffered stdout and
// stderr, woken either by an incoming message or by flushInterval, whichever
// comes first. Newline-terminated lines are flushed as they are written;
// NUL-separated (Print0) output is flushed on the tick. It returns once the
// queue is closed and drained, or the status flag leaves InProgress.
func (p *Pipeline) Run(stdout, stderr io.Writer) error {
	out := bufio.NewWriter(stdout)
	errOut := bufio.NewWriter(stderr)

	sep := byte('\n')
	if p.Print0 {
		sep = 0
	}

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var writeErr error

loop:
	for {
		if p.Status.Get() == Cancelled {
			break loop
		}

		select {
		case msg, ok := <-p.queue:
			if !ok {
				break loop
			}

			if msg.Err != nil {
				fmtErrorLine(errOut, msg)
				_ = errOut.Flush()

				continue loop
			}

			if _, err := out.WriteString(msg.Path); err == nil {
				err = out.WriteByte(sep)
				if err == nil && sep == '\n' {
					err = out.Flush()
				}

				if err == nil {
					continue loop
				}

				writeErr = err
			} else {
				writeErr = err
			}

			p.Status.Set(SendError)

			break loop
		case <-ticker.C:
			_ = out.Flush()
			_ = errOut.Flush()
		}
	}

	_ = out.Flush()
	_ = errOut.Flush()

	if writeErr != nil {
		return &pfinderrors.IOError{Path: "<stdout>", Err: writeErr}
	}

	return nil
}

func isReportable(err error) bool {
	var ioErr *pfinderrors.IOError
	return errors.As(err, &ioErr)
}

func fmtErrorLine(w *bufio.Writer, msg Message) {
	w.WriteString(msg.Path)
	w.WriteString(": ")
	w.WriteString(msg.Err.Error())
	w.WriteByte('\n')
}
