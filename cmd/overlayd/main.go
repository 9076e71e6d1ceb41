// overlayd: live sports telemetry visualization service.
// Ingests pose keypoints and the game win-probability feed, renders the
// pose overlay and the streaming chart, and broadcasts both to
// dashboard clients.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blazeintel/go-overlay/internal/config"
	"github.com/blazeintel/go-overlay/internal/log"
	"github.com/blazeintel/go-overlay/pkg/chart"
	"github.com/blazeintel/go-overlay/pkg/consent"
	"github.com/blazeintel/go-overlay/pkg/feed"
	"github.com/blazeintel/go-overlay/pkg/overlay"
	"github.com/blazeintel/go-overlay/pkg/protocol"
	"github.com/blazeintel/go-overlay/pkg/render"
	"github.com/blazeintel/go-overlay/pkg/sched"
	"github.com/blazeintel/go-overlay/pkg/statsfetch"
	"github.com/blazeintel/go-overlay/pkg/web"
)

var configPath = flag.String("config", "overlay.toml", "Path to TOML config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	// Consent persists across sessions; the overlay reads it once here
	store := consent.NewFileStore(cfg.ConsentPath)
	ov := overlay.New(cfg.OverlayWidth, cfg.OverlayHeight, store)

	buf := chart.NewBuffer(cfg.Window())
	chartRenderer := chart.NewRenderer(buf)

	var stats *statsfetch.Client
	if cfg.StatsBaseURL != "" {
		stats = statsfetch.New(cfg.StatsBaseURL)
	}
	server := web.NewServer(cfg.Port, ov, stats)

	// Render surfaces; each is owned by exactly one render loop
	overlaySurface := render.NewSurface(cfg.OverlayWidth, cfg.OverlayHeight)
	defer overlaySurface.Close()
	chartSurface := render.NewSurface(cfg.ChartWidth, cfg.ChartHeight)
	defer chartSurface.Close()

	// Pose feed drives the overlay's single update entry point
	poseFeed := feed.NewClient(feed.Config{
		URL:  cfg.PoseFeedURL,
		Name: "pose",
	}, func(msg *protocol.Message) {
		pd, err := msg.GetPoseData()
		if err != nil {
			log.Warn("dropping pose message", "error", err)
			return
		}
		ov.Update(pd.Keypoints)
	})

	// Game feed appends into the rolling chart buffer. The buffer is
	// owned by the chart loop; appends are funneled through a channel
	// so only that goroutine touches it.
	gamePoints := make(chan chart.Point, 64)
	gameFeed := feed.NewClient(feed.Config{
		URL:  cfg.GameFeedURL,
		Name: "game",
	}, func(msg *protocol.Message) {
		gd, err := msg.GetGameData()
		if err != nil {
			log.Warn("dropping game message", "error", err)
			return
		}
		select {
		case gamePoints <- chart.Point{T: msg.Time(), WP: gd.WP, Pressure: gd.Pressure, Event: gd.Event}:
		default:
			log.Warn("game point queue full, dropping point")
		}
	})
	gameFeed.OnStateChange(func(s feed.State) {
		if msg, err := protocol.NewStatusMessage("game", s.String()); err == nil {
			server.BroadcastJSON(msg)
		}
	})

	// Overlay loop: uncapped at refresh cadence
	overlayLoop := sched.New(sched.Config{Refresh: cfg.Refresh()}, func(dt time.Duration) {
		ov.Render(overlaySurface)
		if jpeg, err := overlaySurface.EncodeJPEG(); err == nil {
			server.SendOverlayFrame(jpeg)
		}
	})

	// Chart loop: self-throttled to the stream frame interval
	chartLoop := sched.New(sched.Config{
		Refresh:          cfg.Refresh(),
		MinFrameInterval: sched.StreamFrameInterval,
	}, func(dt time.Duration) {
	drain:
		for {
			select {
			case p := <-gamePoints:
				buf.Append(p)
			default:
				break drain
			}
		}
		chartRenderer.Render(chartSurface)
		if jpeg, err := chartSurface.EncodeJPEG(); err == nil {
			server.SendChartFrame(jpeg)
		}
	})

	// Periodic metrics broadcast to dashboards
	metricsLoop := sched.New(sched.Config{Refresh: time.Second / 4}, func(dt time.Duration) {
		if msg, err := protocol.NewMetricsMessage(ov.Metrics(), ov.Active()); err == nil {
			server.BroadcastJSON(msg)
		}
	})

	server.StartAsync()
	poseFeed.Start()
	gameFeed.Start()
	overlayLoop.Start()
	chartLoop.Start()
	metricsLoop.Start()

	log.Info("overlayd running",
		"port", cfg.Port,
		"pose_feed", cfg.PoseFeedURL,
		"game_feed", cfg.GameFeedURL,
		"consent", ov.Active())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	metricsLoop.Stop()
	chartLoop.Stop()
	overlayLoop.Stop()
	gameFeed.Close()
	poseFeed.Close()
	server.Shutdown()
}
