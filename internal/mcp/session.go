package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/log"
	"github.com/peterkuimelis/magicka/internal/net"
)

// DecisionType identifies what the game is waiting for.
type DecisionType string

const (
	DecisionChooseKey DecisionType = "choose_key"
	DecisionGameOver  DecisionType = "game_over"
)

// PendingDecision is a prompt from the game loop.
type PendingDecision struct {
	Type  DecisionType `json:"type"`
	Scene *game.Scene  `json:"scene"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	RunID    string          `json:"run_id"`
	Events   []net.EventView `json:"events"`
	Scene    *game.Scene     `json:"scene,omitempty"`
	Waiting  bool            `json:"waiting_for_key"`
	GameOver bool            `json:"game_over"`
	Result   string          `json:"result,omitempty"`
}

// GameSession holds the state of a single MCP run. The game loop runs in
// its own goroutine and hands every key prompt to the tool handlers
// through pendingCh.
type GameSession struct {
	game   *game.Game
	ctrl   *MCPController
	cancel context.CancelFunc

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []net.EventView
	gameOver bool
	result   string
}

// NewGameSession deals a run and starts its game loop.
func NewGameSession(balance config.Balance, seed uint64) (*GameSession, error) {
	sess := &GameSession{
		// One unanswered key prompt plus the final game_over.
		pendingCh: make(chan *PendingDecision, 2),
	}
	sess.ctrl = NewMCPController(sess)

	g, err := game.NewGame(game.Config{
		Balance: &balance,
		Logger:  log.NewMemoryLogger(),
		Seed:    seed,
		NoDelay: true,
	}, sess.ctrl)
	if err != nil {
		return nil, fmt.Errorf("new run: %w", err)
	}
	sess.game = g

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	go func() {
		err := g.Run(ctx)
		result := fmt.Sprintf("Run closed on the %s screen", g.Mode)
		if err != nil {
			result = fmt.Sprintf("Run aborted: %v", err)
		}

		sess.mu.Lock()
		sess.gameOver = true
		sess.result = result
		sess.mu.Unlock()

		scene := g.Scene()
		sess.pendingCh <- &PendingDecision{Type: DecisionGameOver, Scene: &scene}
	}()

	return sess, nil
}

// Close stops the game loop.
func (s *GameSession) Close() {
	s.cancel()
}

// RunID returns the id of the run currently being played.
func (s *GameSession) RunID() string {
	if s.currentPending != nil && s.currentPending.Scene != nil {
		return s.currentPending.Scene.RunID
	}
	return ""
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev net.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []net.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []net.EventView{}
	}
	return events
}

// waitForPending blocks until the game asks for the next key or ends,
// then builds a ToolResponse with the events seen since the last call.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	select {
	case pending := <-s.pendingCh:
		s.currentPending = pending
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.response(), nil
}

// response describes the current pending decision without waiting.
func (s *GameSession) response() *ToolResponse {
	resp := &ToolResponse{
		RunID:  s.RunID(),
		Events: s.drainEvents(),
	}
	if s.currentPending != nil {
		resp.Scene = s.currentPending.Scene
		resp.Waiting = s.currentPending.Type == DecisionChooseKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPending != nil && s.currentPending.Type == DecisionGameOver {
		resp.GameOver = true
		resp.Result = s.result
	}
	return resp
}

// press sends key to the waiting game loop and waits for its next prompt.
func (s *GameSession) press(ctx context.Context, key game.Key) (*ToolResponse, error) {
	if s.currentPending == nil || s.currentPending.Type != DecisionChooseKey {
		return nil, fmt.Errorf("the run is not waiting for a key")
	}
	select {
	case s.ctrl.responseCh <- key:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.waitForPending(ctx)
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
