package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pfind/pfind/internal/config"
	pfinderrors "github.com/pfind/pfind/internal/errors"
	"github.com/pfind/pfind/internal/filter"
	"github.com/pfind/pfind/internal/pipeline"
	"github.com/pfind/pfind/internal/sniff"
	"github.com/pfind/pfind/internal/walk"
)

// exitCodeInterrupted is the conventional exit status for a process killed
// by SIGINT.
const exitCodeInterrupted = 130

// finder bundles one run's collaborators so tests can substitute any of
// them; main wires the real ones.
type finder struct {
	opts   *config.Options
	log    *logrus.Entry
	names  filter.NameService
	stdout io.Writer
	stderr io.Writer
}

// run parses the expression, then either dumps the tree or executes the
// walk/evaluate/print pipeline to completion.
func (f *finder) run(ctx context.Context) error {
	expr, err := filter.Parse(f.opts.Expression, f.names)
	if err != nil {
		fmt.Fprintln(f.stderr, filter.FormatDiagnostic(f.opts.Expression, err))
		return pfinderrors.WithStack(err)
	}

	if f.opts.PrintTree {
		fmt.Fprintln(f.stdout, expr.String())
		fmt.Fprint(f.stdout, filter.RenderDOT(expr))

		return nil
	}

	root := filter.ToNNF(expr)

	pl := pipeline.New(f.opts.Print0)
	ev := &filter.Evaluator{Sniffer: sniff.Detect}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopSignals := notifyInterrupts(cancel, pl.Status, f.log)
	defer stopSignals()

	walker := walk.NewWalker(
		walk.NewOptions(f.opts),
		func(entry filter.Entry) bool {
			return pl.Produce(ctx, ev, root, entry)
		},
		func(path string, err error) {
			f.log.Warnf("traversal: %v", err)
		},
	)

	var group errgroup.Group

	group.Go(func() error {
		return pl.Run(f.stdout, f.stderr)
	})

	group.Go(func() error {
		defer pl.Close()
		return walker.Walk(ctx, f.opts.Roots)
	})

	err = group.Wait()

	// A first interrupt cancels the walk; that is a normal way for a run to
	// end, not a failure.
	if pl.Status.Get() == pipeline.Cancelled && errors.Is(err, context.Canceled) {
		return nil
	}

	return pfinderrors.WithStack(err)
}

// notifyInterrupts installs the interrupt handler: the first SIGINT flips
// the run to Cancelled and lets the pipeline drain; the second one kills
// the process immediately.
func notifyInterrupts(cancel context.CancelFunc, status *pipeline.StatusFlag, log *logrus.Entry) func() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		if _, ok := <-sigCh; !ok {
			return
		}

		log.Warn("interrupt received, finishing up (press again to abort)")
		status.Set(pipeline.Cancelled)
		cancel()

		if _, ok := <-sigCh; ok {
			os.Exit(exitCodeInterrupted)
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}
