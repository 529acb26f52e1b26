package mcp

import (
	"context"

	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/log"
	"github.com/peterkuimelis/magicka/internal/net"
)

// MCPController implements game.Controller by sending each scene to the
// MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	session    *GameSession
	responseCh chan game.Key
}

// NewMCPController creates a controller for session.
func NewMCPController(session *GameSession) *MCPController {
	return &MCPController{
		session:    session,
		responseCh: make(chan game.Key),
	}
}

// NextKey implements game.Controller.
func (c *MCPController) NextKey(ctx context.Context, scene game.Scene) (game.Key, error) {
	select {
	case c.session.pendingCh <- &PendingDecision{Type: DecisionChooseKey, Scene: &scene}:
	case <-ctx.Done():
		return game.KeyNone, ctx.Err()
	}

	select {
	case key := <-c.responseCh:
		return key, nil
	case <-ctx.Done():
		return game.KeyNone, ctx.Err()
	}
}

// Notify implements game.Controller.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.NewEventView(event))
	return nil
}
