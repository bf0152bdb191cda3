// Package injector assembles a full engine stack from configuration. The
// providers double as the wire provider set behind the wireinject stub.
package injector

import (
	"github.com/google/wire"

	"github.com/VeerOneGPT/galileo-motion/internal/config"
	"github.com/VeerOneGPT/galileo-motion/internal/core/animation"
	"github.com/VeerOneGPT/galileo-motion/internal/core/gesture"
	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/internal/core/physics"
)

// Engine is the assembled stack a host embeds: one world, one detector, and
// one bridge sharing a manual frame scheduler.
type Engine struct {
	Config    config.EngineConfig
	Logger    *log.Logger
	World     *physics.World
	Detector  *gesture.Detector
	Scheduler *animation.ManualScheduler
	Bridge    *animation.Bridge
}

// ConfigPath locates the optional engine config file; empty means defaults.
type ConfigPath string

func ProvideLogger() *log.Logger {
	return log.New(log.LevelInfo)
}

func ProvideConfig(path ConfigPath) (config.EngineConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(string(path))
}

func ProvideWorld(cfg config.EngineConfig, logger *log.Logger) (*physics.World, error) {
	return physics.NewWorld(cfg.World, logger)
}

func ProvideDetector(cfg config.EngineConfig, logger *log.Logger) *gesture.Detector {
	return gesture.NewDetector(cfg.Gesture, logger)
}

func ProvideScheduler() *animation.ManualScheduler {
	return animation.NewManualScheduler()
}

func ProvideBridge(cfg config.EngineConfig, detector *gesture.Detector, sched animation.Scheduler, logger *log.Logger) (*animation.Bridge, error) {
	return animation.NewBridge(cfg.Bridge, detector, sched, logger)
}

// ProviderSet feeds the wire stub in wire.go.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideWorld,
	ProvideDetector,
	ProvideScheduler,
	ProvideBridge,
	wire.Bind(new(animation.Scheduler), new(*animation.ManualScheduler)),
	wire.Struct(new(Engine), "*"),
)

// NewEngine hand-wires the stack; generated wiring replaces this when the
// wire tool runs.
func NewEngine(path ConfigPath) (*Engine, error) {
	logger := ProvideLogger()
	cfg, err := ProvideConfig(path)
	if err != nil {
		return nil, err
	}
	world, err := ProvideWorld(cfg, logger)
	if err != nil {
		return nil, err
	}
	detector := ProvideDetector(cfg, logger)
	sched := ProvideScheduler()
	bridge, err := ProvideBridge(cfg, detector, sched, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config:    cfg,
		Logger:    logger,
		World:     world,
		Detector:  detector,
		Scheduler: sched,
		Bridge:    bridge,
	}, nil
}

// Close tears the stack down; no callback fires afterwards.
func (e *Engine) Close() {
	e.Bridge.Destroy()
	e.Detector.Destroy()
}
