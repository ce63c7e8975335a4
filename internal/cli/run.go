package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/luser/tracetree/internal/config"
	"github.com/luser/tracetree/pkg/tracetree"
)

// runTrace spawns argv under tracetree, joining the trace engine and the
// SIGUSR1 watcher in one errgroup the way §5 of the design calls for: the
// only concurrency in the repository, sharing no mutable state beyond the
// dumpRequester's atomic flag.
func runTrace(cfg config.Config, argv []string, log *logrus.Logger) (*tracetree.Tree, error) {
	d := newDumpRequester()
	stop := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		d.watch(stop)
		return nil
	})

	var tree *tracetree.Tree
	g.Go(func() error {
		defer close(stop)
		log.Debugf("spawning: %v", argv)
		t, err := tracetree.Spawn(argv, func(snapshot func() *tracetree.Tree) {
			if !d.takeRequest() {
				return
			}
			log.Debug("SIGUSR1 received, dumping live tree")
			if err := snapshot().WriteText(os.Stderr); err != nil {
				log.Warnf("writing live tree dump: %v", err)
			}
		})
		if err != nil {
			return err
		}
		tree = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tree, nil
}

// writeOutput serializes tree to path in the given format, or to stdout
// if path is empty. A non-empty path is advisory-locked for the
// duration of the write so two concurrent tracetree invocations writing
// the same file can't interleave their output.
func writeOutput(tree *tracetree.Tree, path, format string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		fl := flock.New(path)
		if err := fl.Lock(); err != nil {
			return fmt.Errorf("locking output file %q: %w", path, err)
		}
		defer fl.Unlock()

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("opening output file %q: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return tree.WriteJSON(w)
	default:
		return tree.WriteText(w)
	}
}
