package mcp

import (
	"context"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/net"
)

var (
	// sessionMu guards activeSession, the one run per stdio process.
	sessionMu     sync.Mutex
	activeSession *GameSession

	// balance is the tuning every new run starts from, set by main.
	balance = config.Default()
)

// SetBalance sets the tuning used by start_run.
func SetBalance(b config.Balance) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	balance = b
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startRunTool(), handleStartRun)
	s.AddTool(pressKeyTool(), handlePressKey)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(endRunTool(), handleEndRun)
}

// --- Tool definitions ---

func startRunTool() mcp.Tool {
	return mcp.NewTool("start_run",
		mcp.WithDescription("Start a new Magicka run on the title screen. Returns the first scene and the keys it accepts. "+
			"Only one run can be active at a time."),
		mcp.WithNumber("seed", mcp.Description("RNG seed for a reproducible run (omit or 0 for random)")),
	)
}

func pressKeyTool() mcp.Tool {
	return mcp.NewTool("press_key",
		mcp.WithDescription("Press a key on the current scene. Digits pick cards, enemies, shop offers and map nodes; "+
			"enter ends the turn or confirms; esc cancels a target or leaves the shop; close quits the run. "+
			"Returns the events it caused and the next scene."),
		mcp.WithString("key", mcp.Required(), mcp.Description("One of 1-8, enter, esc, close")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current scene and accumulated events without pressing a key. Read-only."),
	)
}

func endRunTool() mcp.Tool {
	return mcp.NewTool("end_run",
		mcp.WithDescription("Abandon the active run so a new one can be started."),
	)
}

// --- Tool handlers ---

func handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil {
		return mcp.NewToolResultError("A run is already active. Use end_run first."), nil
	}
	seed := request.GetInt("seed", 0)
	if seed < 0 {
		return mcp.NewToolResultError("seed must be >= 0"), nil
	}

	sess, err := NewGameSession(balance, uint64(seed))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start run: %v", err), nil
	}

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		sess.Close()
		return mcp.NewToolResultErrorf("Error waiting for the title screen: %v", err), nil
	}
	activeSession = sess
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handlePressKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No run is active. Use start_run first."), nil
	}
	raw := strings.TrimSpace(request.GetString("key", ""))
	if raw == "" {
		return mcp.NewToolResultError("key is required: one of 1-8, enter, esc, close"), nil
	}
	key, err := game.ParseKey(raw)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid key %q. Use 1-8, enter, esc or close.", raw), nil
	}

	sess := activeSession
	resp, err := sess.press(ctx, key)
	if err != nil {
		return mcp.NewToolResultErrorf("Error pressing %s: %v", key, err), nil
	}
	if resp.GameOver {
		sess.Close()
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No run is active. Use start_run first."), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.response())), nil
}

func handleEndRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No run is active."), nil
	}
	runID := activeSession.RunID()
	activeSession.Close()
	activeSession = nil
	return mcp.NewToolResultText(respondJSON(&ToolResponse{
		RunID:    runID,
		Events:   []net.EventView{},
		GameOver: true,
		Result:   "Run abandoned",
	})), nil
}
