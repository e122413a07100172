package websocket

import (
	"encoding/json"

	"github.com/nfrund/gridsky/internal/agent"
)

// Message is the envelope written to the browser.
type Message struct {
	Type    string `json:"type"` // "state" or "command"
	Payload any    `json:"payload"`
}

// Command asks the page script to act.
type Command struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
}

// Command names understood by the page script.
const (
	// CmdHandleReady re-triggers every view waiting for the client handle.
	CmdHandleReady = "handle_ready"
	// CmdNavigate sends the browser to the URL in the payload.
	CmdNavigate = "navigate"
)

// NewStateMessage reports a provider state without asking for an action.
func NewStateMessage(state agent.State) *Message {
	return &Message{Type: "state", Payload: map[string]string{"state": string(state)}}
}

// NewCommand creates a command message.
func NewCommand(name string, payload ...any) *Message {
	var p any
	if len(payload) > 0 {
		p = payload[0]
	}
	return &Message{Type: "command", Payload: Command{Name: name, Payload: p}}
}

// messageFor maps a provider snapshot onto what the page script needs.
func messageFor(snap agent.Snapshot) *Message {
	switch {
	case snap.State == agent.StateReady:
		return NewCommand(CmdHandleReady)
	case snap.RedirectURL != "":
		return NewCommand(CmdNavigate, snap.RedirectURL)
	default:
		return NewStateMessage(snap.State)
	}
}

// terminal reports whether no further snapshot can follow on this page.
func terminal(snap agent.Snapshot) bool {
	return snap.State == agent.StateReady || snap.State == agent.StateFailed || snap.RedirectURL != ""
}

func encode(m *Message) ([]byte, error) {
	return json.Marshal(m)
}
