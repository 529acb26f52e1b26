package net

import (
	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/log"
)

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_key"
	Scene *game.Scene `json:"scene,omitempty"`

	// For "game_over"
	RunID  string `json:"run_id,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Scene   string `json:"scene"`
	Node    int    `json:"node"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// NewEventView converts a logged event for the wire.
func NewEventView(e log.GameEvent) *EventView {
	return &EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Scene:   e.Scene,
		Node:    e.Node,
		Type:    e.Type.String(),
		Card:    e.Card,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "key": "1"-"8", "enter", "esc" or "close"
	Key string `json:"key,omitempty"`

	// For "join" (initial handshake)
	Name string `json:"name,omitempty"`
}
