package websocket

import "github.com/IBA-HOK/user-attendance-record/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	// ActionRefresh asks for the current class view immediately.
	ActionRefresh Action = "refresh"
	ActionPing    Action = "ping"
)

// RequestEnvelope is the message a dashboard client sends.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventRoster Event = "roster"
	EventError  Event = "error"
	EventPong   Event = "pong"
)

// RosterEvent carries the current class view to the dashboard. Sent on
// connect, on every roster change, and on the periodic clock tick.
type RosterEvent struct {
	Event Event                   `json:"event"`
	View  *model.CurrentClassView `json:"view"`
}

type ErrorEvent struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongEvent struct {
	Event Event `json:"event"`
}
