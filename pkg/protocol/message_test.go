package protocol

import (
	"testing"

	"github.com/blazeintel/go-overlay/pkg/chart"
	"github.com/blazeintel/go-overlay/pkg/pose"
)

func TestGameMessage_RoundTrip(t *testing.T) {
	msg, err := NewGameMessage(0.62, 0.81, &chart.Event{Label: "GRAND SLAM"})
	if err != nil {
		t.Fatalf("NewGameMessage failed: %v", err)
	}

	data, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}
	if parsed.Type != TypeGame {
		t.Fatalf("Expected type %s, got %s", TypeGame, parsed.Type)
	}

	game, err := parsed.GetGameData()
	if err != nil {
		t.Fatalf("GetGameData failed: %v", err)
	}
	if game.WP != 0.62 || game.Pressure != 0.81 {
		t.Errorf("Payload mismatch: %+v", game)
	}
	if game.Event == nil || game.Event.Label != "GRAND SLAM" {
		t.Errorf("Event lost in transit: %+v", game.Event)
	}
}

func TestPoseMessage_CarriesAllKeypoints(t *testing.T) {
	frame := make(pose.Frame, pose.JointCount)
	for i := range frame {
		frame[i] = pose.Keypoint{X: float64(i), Y: float64(i) * 2, Confidence: 0.8}
	}

	msg, err := NewPoseMessage(frame)
	if err != nil {
		t.Fatalf("NewPoseMessage failed: %v", err)
	}
	data, _ := msg.Bytes()

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}
	pd, err := parsed.GetPoseData()
	if err != nil {
		t.Fatalf("GetPoseData failed: %v", err)
	}
	if len(pd.Keypoints) != pose.JointCount {
		t.Fatalf("Expected %d keypoints, got %d", pose.JointCount, len(pd.Keypoints))
	}
	if pd.Keypoints[5].X != 5 || pd.Keypoints[5].Y != 10 {
		t.Errorf("Keypoint 5 mismatch: %+v", pd.Keypoints[5])
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	if _, err := ParseMessage([]byte("{not json")); err == nil {
		t.Error("Expected error for malformed message")
	}
}

func TestGetGameData_WrongType(t *testing.T) {
	msg, _ := NewStatusMessage("game", "connected")
	if _, err := msg.GetGameData(); err == nil {
		t.Error("Expected type mismatch error")
	}
}
