package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/net"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestSession(t *testing.T) *GameSession {
	t.Helper()
	sess, err := NewGameSession(config.Default(), 42)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return sess
}

func eventTypes(events []net.EventView) []string {
	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestSessionStartsOnTitle(t *testing.T) {
	ctx := testContext(t)
	sess := newTestSession(t)

	resp, err := sess.waitForPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.Scene)
	assert.Equal(t, "Title", resp.Scene.Mode)
	assert.True(t, resp.Waiting)
	assert.False(t, resp.GameOver)
	assert.NotEmpty(t, resp.RunID)
	assert.Contains(t, eventTypes(resp.Events), "RunStart")
}

func TestSessionPlaysIntoFirstBattle(t *testing.T) {
	ctx := testContext(t)
	sess := newTestSession(t)

	_, err := sess.waitForPending(ctx)
	require.NoError(t, err)

	resp, err := sess.press(ctx, game.KeyEnter)
	require.NoError(t, err)
	assert.Equal(t, "Map", resp.Scene.Mode)

	resp, err = sess.press(ctx, game.Key1)
	require.NoError(t, err)
	assert.Equal(t, "Battle", resp.Scene.Mode)
	require.NotNil(t, resp.Scene.Battle)
	assert.Len(t, resp.Scene.Battle.Enemies, 3)
	types := eventTypes(resp.Events)
	assert.Contains(t, types, "NodeEnter")
	assert.Contains(t, types, "BattleStart")

	// Events are handed out once.
	again := sess.response()
	assert.Empty(t, again.Events)
	assert.Equal(t, "Battle", again.Scene.Mode)
}

func TestSessionCloseKeyEndsRun(t *testing.T) {
	ctx := testContext(t)
	sess := newTestSession(t)

	_, err := sess.waitForPending(ctx)
	require.NoError(t, err)
	_, err = sess.press(ctx, game.KeyEnter)
	require.NoError(t, err)

	resp, err := sess.press(ctx, game.KeyClose)
	require.NoError(t, err)
	assert.True(t, resp.GameOver)
	assert.False(t, resp.Waiting)
	assert.Equal(t, "Run closed on the Map screen", resp.Result)

	_, err = sess.press(ctx, game.KeyEnter)
	assert.Error(t, err)
}

func TestSessionCloseAbortsWaitingLoop(t *testing.T) {
	ctx := testContext(t)
	sess := newTestSession(t)

	_, err := sess.waitForPending(ctx)
	require.NoError(t, err)

	sess.Close()
	resp, err := sess.waitForPending(ctx)
	require.NoError(t, err)
	assert.True(t, resp.GameOver)
	assert.Contains(t, resp.Result, "Run aborted")
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func decodeResponse(t *testing.T, res *mcp.CallToolResult) ToolResponse {
	t.Helper()
	require.False(t, res.IsError, toolText(t, res))
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &resp))
	return resp
}

func resetActiveSession(t *testing.T) {
	t.Cleanup(func() {
		sessionMu.Lock()
		defer sessionMu.Unlock()
		if activeSession != nil {
			activeSession.Close()
			activeSession = nil
		}
	})
}

func TestToolsRequireActiveRun(t *testing.T) {
	resetActiveSession(t)
	ctx := testContext(t)

	res, err := handleGetState(ctx, toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = handlePressKey(ctx, toolRequest(map[string]any{"key": "enter"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = handleEndRun(ctx, toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolsPlayAndCloseRun(t *testing.T) {
	resetActiveSession(t)
	ctx := testContext(t)

	res, err := handleStartRun(ctx, toolRequest(map[string]any{"seed": float64(7)}))
	require.NoError(t, err)
	resp := decodeResponse(t, res)
	assert.Equal(t, "Title", resp.Scene.Mode)
	runID := resp.RunID

	res, err = handleStartRun(ctx, toolRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError, "second run while one is active")

	res, err = handlePressKey(ctx, toolRequest(map[string]any{"key": "fireball"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = handlePressKey(ctx, toolRequest(map[string]any{"key": "enter"}))
	require.NoError(t, err)
	resp = decodeResponse(t, res)
	assert.Equal(t, "Map", resp.Scene.Mode)
	assert.Equal(t, runID, resp.RunID)

	res, err = handleGetState(ctx, toolRequest(nil))
	require.NoError(t, err)
	resp = decodeResponse(t, res)
	assert.Equal(t, "Map", resp.Scene.Mode)
	assert.True(t, resp.Waiting)

	res, err = handlePressKey(ctx, toolRequest(map[string]any{"key": "close"}))
	require.NoError(t, err)
	resp = decodeResponse(t, res)
	assert.True(t, resp.GameOver)

	sessionMu.Lock()
	assert.Nil(t, activeSession)
	sessionMu.Unlock()
}

func TestEndRunFreesSlot(t *testing.T) {
	resetActiveSession(t)
	ctx := testContext(t)

	res, err := handleStartRun(ctx, toolRequest(nil))
	require.NoError(t, err)
	started := decodeResponse(t, res)

	res, err = handleEndRun(ctx, toolRequest(nil))
	require.NoError(t, err)
	resp := decodeResponse(t, res)
	assert.True(t, resp.GameOver)
	assert.Equal(t, started.RunID, resp.RunID)

	res, err = handleStartRun(ctx, toolRequest(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
