// Package protocol defines the JSON message types exchanged with the
// telemetry feeds and the dashboard clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blazeintel/go-overlay/pkg/chart"
	"github.com/blazeintel/go-overlay/pkg/metrics"
	"github.com/blazeintel/go-overlay/pkg/pose"
)

// MessageType identifies the type of a feed or broadcast message.
type MessageType string

const (
	// Feed → service messages
	TypePose MessageType = "pose" // one skeleton frame
	TypeGame MessageType = "game" // one win-probability point

	// Service → dashboard messages
	TypeMetrics MessageType = "metrics" // current metrics snapshot
	TypeStatus  MessageType = "status"  // feed connection status
)

// Message is the base wrapper for all JSON messages.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		var err error
		raw, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal message data: %w", err)
		}
	}
	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      raw,
	}, nil
}

// ParseMessage parses a JSON message from bytes.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	return &msg, nil
}

// Bytes returns the JSON-encoded message.
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// Time returns the envelope timestamp as a time.Time.
func (m *Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// PoseData carries one raw skeleton frame from the pose source.
type PoseData struct {
	Keypoints pose.Frame `json:"keypoints"`
}

// GameData carries one win-probability sample from the game feed.
type GameData struct {
	WP       float64      `json:"wp"`
	Pressure float64      `json:"pressure"`
	Event    *chart.Event `json:"event,omitempty"`
}

// StatusData reports a feed connection state change to dashboards.
type StatusData struct {
	Feed  string `json:"feed"`
	State string `json:"state"`
}

// MetricsData is the broadcast metrics snapshot.
type MetricsData struct {
	Snapshot       metrics.Snapshot `json:"snapshot"`
	ConsentGranted bool             `json:"consent_granted"`
}

// GetPoseData extracts a pose payload.
func (m *Message) GetPoseData() (*PoseData, error) {
	if m.Type != TypePose {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypePose)
	}
	var d PoseData
	if err := json.Unmarshal(m.Data, &d); err != nil {
		return nil, fmt.Errorf("parse pose data: %w", err)
	}
	return &d, nil
}

// GetGameData extracts a game-feed payload.
func (m *Message) GetGameData() (*GameData, error) {
	if m.Type != TypeGame {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypeGame)
	}
	var d GameData
	if err := json.Unmarshal(m.Data, &d); err != nil {
		return nil, fmt.Errorf("parse game data: %w", err)
	}
	return &d, nil
}

// NewPoseMessage wraps a skeleton frame.
func NewPoseMessage(frame pose.Frame) (*Message, error) {
	return NewMessage(TypePose, PoseData{Keypoints: frame})
}

// NewGameMessage wraps a win-probability sample.
func NewGameMessage(wp, pressure float64, event *chart.Event) (*Message, error) {
	return NewMessage(TypeGame, GameData{WP: wp, Pressure: pressure, Event: event})
}

// NewMetricsMessage wraps a metrics snapshot for broadcast.
func NewMetricsMessage(snap metrics.Snapshot, consentGranted bool) (*Message, error) {
	return NewMessage(TypeMetrics, MetricsData{Snapshot: snap, ConsentGranted: consentGranted})
}

// NewStatusMessage wraps a feed status change.
func NewStatusMessage(feed, state string) (*Message, error) {
	return NewMessage(TypeStatus, StatusData{Feed: feed, State: state})
}
