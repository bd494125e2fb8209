package sim

import (
	"context"
	"sync"
	"time"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
	// CommandRejectInvalid indicates the command carried no usable payload.
	CommandRejectInvalid = "invalid"
)

// Engine is the simulation the loop drives. Apply runs before Step on the
// same goroutine.
type Engine interface {
	Apply(cmds []Command)
	Step(dt float64)
}

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int `mapstructure:"tickRate"`
	CatchupMaxTicks int `mapstructure:"catchupMaxTicks"`
	CommandCapacity int `mapstructure:"commandCapacity"`
	PerActorLimit   int `mapstructure:"perActorLimit"`
}

// DefaultLoopConfig returns the stock loop tuning.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{TickRate: 15, CatchupMaxTicks: 3, CommandCapacity: 1024, PerActorLimit: 32}
}

// LoopStepResult describes one completed tick.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     float64
	Commands     int
}

// LoopHooks lets the owner observe the loop.
type LoopHooks struct {
	AfterStep     func(LoopStepResult)
	OnCommandDrop func(reason string, cmd Command)
}

// LoopDeps bundles the loop collaborators.
type LoopDeps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	Clock   logging.Clock
}

// Loop coordinates command ingestion and the fixed-timestep simulation runner.
type Loop struct {
	engine  Engine
	buffer  *CommandBuffer
	hooks   LoopHooks
	config  LoopConfig
	logger  telemetry.Logger
	metrics telemetry.Metrics
	clock   logging.Clock

	tick uint64

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64
}

// NewLoop wraps the engine with a ring-buffer queue and loop.
func NewLoop(engine Engine, cfg LoopConfig, deps LoopDeps, hooks LoopHooks) *Loop {
	if engine == nil {
		return nil
	}
	defaults := DefaultLoopConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaults.TickRate
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = defaults.CommandCapacity
	}
	if deps.Logger == nil {
		deps.Logger = telemetry.NopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = telemetry.NopMetrics()
	}
	if deps.Clock == nil {
		deps.Clock = logging.ClockFunc(time.Now)
	}
	return &Loop{
		engine:        engine,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, deps.Metrics),
		hooks:         hooks,
		config:        cfg,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		clock:         deps.Clock,
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	if !cmd.Valid() {
		l.reportDrop(CommandRejectInvalid, cmd, 0)
		return false, CommandRejectInvalid
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" && !l.buffer.Push(cmd) {
		reason = CommandRejectQueueFull
		dropCount = l.incrementDropLocked(cmd.ActorID)
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(now time.Time, dt float64) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	commands := l.drainCommands()
	l.tick++
	start := l.clock.Now()
	l.engine.Apply(commands)
	l.engine.Step(dt)
	return LoopStepResult{
		Tick:     l.tick,
		Now:      now,
		Delta:    dt,
		Duration: l.clock.Now().Sub(start),
		Commands: len(commands),
	}
}

// Run drives the fixed-timestep loop until the context is cancelled. A late
// tick advances by the elapsed time, capped at CatchupMaxTicks budgets.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	budget := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	budgetSeconds := budget.Seconds()
	maxDt := budgetSeconds
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.config.CatchupMaxTicks)
	}
	last := l.clock.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now

			result := l.Advance(now, dt)
			result.Budget = budget
			result.ClampedDelta = clamped
			result.MaxDelta = maxDt
			if result.Duration > budget {
				l.logger.Printf("warn: sim: tick %d took %s (budget %s)", result.Tick, result.Duration, budget)
			}
			l.metrics.Store("sim.tick_duration_us", uint64(result.Duration.Microseconds()))
			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	l.metrics.Add("sim.commands.dropped."+reason, 1)
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if reason == CommandRejectQueueLimit && count > 0 && count&(count-1) == 0 {
		l.logger.Printf(
			"warn: [backpressure] dropping command actor=%s type=%s count=%d limit=%d",
			cmd.ActorID,
			cmd.Type,
			count,
			l.config.PerActorLimit,
		)
	}
}
