// Command arenaview renders a creature battle in the terminal. By default
// it plays a built-in scripted match; pass -url to follow a live match
// over websocket instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arenaview/audio"
	"github.com/lixenwraith/arenaview/snapshot"
	"github.com/lixenwraith/arenaview/status"
	"github.com/lixenwraith/arenaview/transport"
	"github.com/lixenwraith/arenaview/view"
)

type snapshotSource interface {
	transport.Source
	Run(ctx context.Context) error
}

func main() {
	url := flag.String("url", "", "websocket match URL (empty plays the built-in replay)")
	mute := flag.Bool("mute", false, "disable audio cues")
	logPath := flag.String("log", "", "write diagnostics to this file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, nil))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	renderer := newTermRenderer()
	metrics := status.NewRegistry()
	defer dumpMetrics(logger, metrics)
	orch, err := view.New(renderer, renderer, view.Config{Logger: logger, Metrics: metrics})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "orchestrator: %v\n", err)
		os.Exit(1)
	}

	cues := audio.NewCuePlayer()
	if !*mute {
		if err := cues.Initialize(); err != nil {
			// Non-fatal, the view runs without sound
			logger.Warn("audio init failed", "error", err)
		}
	}
	defer cues.Cleanup()
	orch.OnEvents(cues.HandleChanges)

	var src snapshotSource
	if *url != "" {
		src = transport.NewWebsocketSource(*url, logger)
	} else {
		src = transport.NewReplaySource(scriptedMatch(), 100*time.Millisecond)
	}

	done := make(chan struct{})
	src.OnSnapshot(orch.HandleSnapshot)
	src.OnCompleted(func() {
		orch.HandleCompleted()
		close(done)
	})

	orch.Start()
	defer orch.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := src.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("source stopped", "error", err)
		}
	}()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	finished := false
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-done:
			finished = true

		case <-ticker.C:
			stats := orch.Statistics()
			status := fmt.Sprintf("updates %d  dropped %d  mean interval %s  [q to quit]",
				stats.TotalUpdates, stats.DroppedUpdates, stats.MeanInterval.Round(time.Millisecond))
			if finished {
				status = "match complete  [q to quit]"
			}
			renderer.setStatus(status)
			renderer.draw(screen)
		}
	}
}

func axial(q, r float64) snapshot.AxialCoordinate {
	return snapshot.AxialCoordinate{Q: q, R: r}
}

// dumpMetrics writes every registered counter to the diagnostics log on
// the way out
func dumpMetrics(logger *slog.Logger, metrics *status.Registry) {
	metrics.Ints.Range(func(key string, v *atomic.Int64) {
		logger.Info("metric", "key", key, "value", v.Load())
	})
	metrics.Floats.Range(func(key string, v *status.AtomicFloat) {
		logger.Info("metric", "key", key, "value", v.Get())
	})
}
