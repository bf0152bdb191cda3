// Command motion-inspectord runs a headless physics world and serves live
// state snapshots over the debug WebSocket inspector.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/VeerOneGPT/galileo-motion/internal/core/collision"
	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/internal/core/physics"
	"github.com/VeerOneGPT/galileo-motion/internal/inspect"
	"github.com/VeerOneGPT/galileo-motion/internal/injector"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

func main() {
	addr := flag.String("addr", ":7771", "inspector listen address")
	configPath := flag.String("config", "", "engine config file (YAML)")
	interval := flag.Duration("interval", 100*time.Millisecond, "snapshot interval")
	flag.Parse()

	eng, err := injector.NewEngine(injector.ConfigPath(*configPath))
	if err != nil {
		log.New(log.LevelError).Error("engine init failed", log.Err(err))
		os.Exit(1)
	}
	defer eng.Close()
	logger := eng.Logger

	seedWorld(eng.World, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stopCh
		logger.Info("shutting down")
		cancel()
	}()

	// The simulation loop owns the world; the snapshot func synchronizes
	// with it through the mutex.
	var mu sync.Mutex
	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				eng.World.Step(1.0 / 60.0)
				mu.Unlock()
			}
		}
	}()

	srv := inspect.NewServer(*addr, *interval, func() inspect.Snapshot {
		mu.Lock()
		defer mu.Unlock()
		return inspect.Snapshot{Time: time.Now(), Bodies: eng.World.Bodies()}
	}, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Error("inspector failed", log.Err(err))
		os.Exit(1)
	}
}

// seedWorld builds a small boxed scene so a fresh daemon has something to
// stream.
func seedWorld(w *physics.World, logger *log.Logger) {
	defs := []physics.BodyDef{
		{Shape: collision.Rectangle{Width: 400, Height: 10}, Position: vec.New(200, 300), IsStatic: true},
		{Shape: collision.Rectangle{Width: 10, Height: 300}, Position: vec.New(0, 150), IsStatic: true},
		{Shape: collision.Rectangle{Width: 10, Height: 300}, Position: vec.New(400, 150), IsStatic: true},
		{Shape: collision.Circle{Radius: 12}, Position: vec.New(120, 40), Velocity: vec.New(60, 0), Restitution: 0.9},
		{Shape: collision.Circle{Radius: 16}, Position: vec.New(250, 80), Velocity: vec.New(-40, 10), Restitution: 0.9},
	}
	for _, def := range defs {
		id, err := w.AddBody(def)
		if err != nil {
			logger.Error("seed body rejected", log.Err(err))
			continue
		}
		logger.Debug("seeded body", log.String("id", id))
	}
}
