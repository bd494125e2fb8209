package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/config"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards"
	servernet "github.com/spider2544-git/TopDownShooter12-sub002/internal/net"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/net/ws"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/session"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/sim"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
	loggingSinks "github.com/spider2544-git/TopDownShooter12-sub002/logging/sinks"
)

const shutdownTimeout = 5 * time.Second

// Run serves one battlefield session until ctx is cancelled.
func Run(ctx context.Context, settings config.Settings) error {
	zl := telemetry.NewZerologLogger(os.Stdout, settings.LogLevel, settings.LogPretty)
	logger := telemetry.WrapZerolog(zl)

	counters := &telemetry.Counters{}
	var metrics telemetry.Metrics = counters
	if settings.Metrics.OTel {
		exported, err := telemetry.NewOTelMetrics(otel.Meter("hazardcore"), logger)
		if err != nil {
			return fmt.Errorf("failed to construct otel metrics: %w", err)
		}
		metrics = telemetry.Tee(metrics, exported)
	}
	if settings.Metrics.Influx.Enabled {
		influx, closeInflux := telemetry.DialInflux(settings.Metrics.Influx, logger)
		defer closeInflux()
		metrics = telemetry.Tee(metrics, influx)
	}

	var hub *ws.Hub
	if settings.Debug.EventStream {
		hub = ws.NewHub(metrics)
	}

	namedSinks, files, err := buildSinks(settings.Logging, hub)
	if err != nil {
		return err
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	router, err := logging.NewRouter(logging.ClockFunc(time.Now), settings.Logging, namedSinks, logging.WithFallbackLogger(zl))
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("warn: failed to close logging router: %v", cerr)
		}
	}()

	sess, err := session.New(settings.Session, session.Deps{
		Publisher: router,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to construct session: %w", err)
	}
	if settings.Debug.Units {
		for _, u := range debugUnits() {
			sess.AddUnit(u)
		}
	}

	loop := sim.NewLoop(sess, settings.Loop, sim.LoopDeps{Logger: logger, Metrics: metrics}, sim.LoopHooks{})
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	go loop.Run(loopCtx)

	handler := servernet.NewHTTPHandler(sess, loop, servernet.HTTPHandlerConfig{
		Logger:   logger,
		Counters: counters,
		Events:   hub,
	})

	srv := &http.Server{Addr: settings.Addr, Handler: handler}
	logger.Printf("server listening on %s (seed %s)", srv.Addr, sess.Snapshot().Seed)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Printf("server stopped")
	return nil
}

// buildSinks opens the event sinks named in cfg. The returned files are
// closed by the caller once the router has flushed.
func buildSinks(cfg logging.Config, hub *ws.Hub) ([]logging.NamedSink, []io.Closer, error) {
	var named []logging.NamedSink
	var files []io.Closer

	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsole(os.Stdout, cfg.Console)})
	}
	if cfg.HasSink("json") {
		if cfg.JSON.FilePath == "" {
			return nil, nil, errors.New("json sink requires logging.json.filePath")
		}
		f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open json sink: %w", err)
		}
		files = append(files, f)
		named = append(named, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(f, cfg.JSON.FlushInterval)})
	}
	if cfg.HasSink("gelf") {
		if cfg.GELF.Address == "" {
			for _, f := range files {
				f.Close()
			}
			return nil, nil, errors.New("gelf sink requires logging.gelf.address")
		}
		sink, err := loggingSinks.DialGELF(cfg.GELF)
		if err != nil {
			for _, f := range files {
				f.Close()
			}
			return nil, nil, err
		}
		named = append(named, logging.NamedSink{Name: "gelf", Sink: sink})
	}
	if hub != nil {
		named = append(named, logging.NamedSink{Name: "ws", Sink: hub})
	}
	return named, files, nil
}

// debugUnits places one unit of each kind just outside the spawn clearing.
func debugUnits() []session.Unit {
	return []session.Unit{
		{ID: "debug-player", Kind: hazards.ActorPlayer, X: 0, Y: 0, Size: 12, Health: 100, MaxHealth: 100, ArmorPct: 0.25, Stamina: 100},
		{ID: "debug-enemy", Kind: hazards.ActorEnemy, X: 320, Y: 0, Size: 12, Health: 500, MaxHealth: 500},
		{ID: "debug-troop", Kind: hazards.ActorTroop, X: -320, Y: 0, Size: 12, Health: 150, MaxHealth: 150},
	}
}
