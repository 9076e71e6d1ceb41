// feedsim: synthetic telemetry source for local development.
// Serves websocket pose frames at capture rate and game
// win-probability points once a second.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/blazeintel/go-overlay/internal/log"
	"github.com/blazeintel/go-overlay/pkg/chart"
	"github.com/blazeintel/go-overlay/pkg/pose"
	"github.com/blazeintel/go-overlay/pkg/protocol"
)

var (
	port   = flag.String("port", "9001", "Listen port")
	width  = flag.Float64("width", 640, "Simulated surface width")
	height = flag.Float64("height", 480, "Simulated surface height")
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func main() {
	flag.Parse()
	log.Init("info")

	http.HandleFunc("/ws/pose", servePose)
	http.HandleFunc("/ws/game", serveGame)

	log.Info("feedsim listening", "port", *port)
	if err := http.ListenAndServe(":"+*port, nil); err != nil {
		fmt.Fprintf(os.Stderr, "feedsim: %v\n", err)
		os.Exit(1)
	}
}

// servePose streams a runner-like skeleton at 30 frames per second.
func servePose(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("pose upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	log.Info("pose consumer connected", "remote", r.RemoteAddr)

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	start := time.Now()
	for range ticker.C {
		msg, err := protocol.NewPoseMessage(syntheticFrame(time.Since(start)))
		if err != nil {
			continue
		}
		data, _ := msg.Bytes()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Info("pose consumer gone", "error", err)
			return
		}
	}
}

// serveGame streams win-probability points with occasional events.
func serveGame(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("game upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	log.Info("game consumer connected", "remote", r.RemoteAddr)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	wp := 0.5
	for range ticker.C {
		wp += (rand.Float64() - 0.5) * 0.08
		if wp < 0.05 {
			wp = 0.05
		}
		if wp > 0.95 {
			wp = 0.95
		}

		var event *chart.Event
		if rand.Float64() < 0.05 {
			event = &chart.Event{Label: "BIG PLAY"}
		}

		msg, err := protocol.NewGameMessage(wp, rand.Float64(), event)
		if err != nil {
			continue
		}
		data, _ := msg.Bytes()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Info("game consumer gone", "error", err)
			return
		}
	}
}

// syntheticFrame produces a plausible 16-joint skeleton swaying and
// striding around the surface center.
func syntheticFrame(elapsed time.Duration) pose.Frame {
	t := elapsed.Seconds()
	cx := *width/2 + 40*math.Sin(t*0.8)
	cy := *height / 2

	phase := math.Sin(t * 4)
	jitter := func() float64 { return (rand.Float64() - 0.5) * 3 }

	at := func(dx, dy float64) pose.Keypoint {
		return pose.Keypoint{
			X:          cx + dx + jitter(),
			Y:          cy + dy + jitter(),
			Confidence: 0.6 + rand.Float64()*0.4,
		}
	}

	f := make(pose.Frame, pose.JointCount)
	f[pose.Head] = at(0, -150)
	f[pose.Neck] = at(0, -120)
	f[pose.Chest] = at(0, -80)
	f[pose.Hip] = at(0, 0)
	f[pose.LeftShoulder] = at(-35, -110)
	f[pose.LeftElbow] = at(-50, -60+10*phase)
	f[pose.LeftWrist] = at(-55, -10+20*phase)
	f[pose.RightShoulder] = at(35, -110)
	f[pose.RightElbow] = at(50, -60-10*phase)
	f[pose.RightWrist] = at(55, -10-20*phase)
	f[pose.LeftHip] = at(-20, 5)
	f[pose.LeftKnee] = at(-22, 70+8*phase)
	f[pose.LeftAnkle] = at(-24+15*phase, 140)
	f[pose.RightHip] = at(20, 5)
	f[pose.RightKnee] = at(22, 70-8*phase)
	f[pose.RightAnkle] = at(24-15*phase, 140)
	return f
}
