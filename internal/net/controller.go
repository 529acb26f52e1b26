package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/log"
)

// NetworkController implements game.Controller over a TCP connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// NextKey implements game.Controller. Unknown keys come back as KeyNone,
// which every screen ignores.
func (nc *NetworkController) NextKey(ctx context.Context, scene game.Scene) (game.Key, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if err := nc.send(ServerMessage{Type: "choose_key", Scene: &scene}); err != nil {
		return game.KeyNone, fmt.Errorf("send choose_key: %w", err)
	}

	for {
		resp, err := nc.recv()
		if err != nil {
			return game.KeyNone, fmt.Errorf("recv key: %w", err)
		}
		if resp.Type != "key" {
			continue
		}
		key, err := game.ParseKey(resp.Key)
		if err != nil {
			return game.KeyNone, nil
		}
		return key, nil
	}
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(runID, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", RunID: runID, Result: result})
}

// Notify implements game.Controller.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "notify", Event: NewEventView(event)})
}
