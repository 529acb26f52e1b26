package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/game"
	magickanet "github.com/peterkuimelis/magicka/internal/net"
)

func TestCardsEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewServer(Options{Balance: config.Default(), ArtDir: t.TempDir()}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/cards")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cards []CardInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cards))
	require.Len(t, cards, len(game.CardKinds))

	byName := map[string]CardInfo{}
	for _, c := range cards {
		byName[c.Name] = c
	}
	slash := byName["Slash"]
	assert.Equal(t, 3, slash.Magnitude)
	assert.True(t, slash.Starter)
	assert.False(t, slash.AOE)
	assert.Equal(t, "/art/card_slash.png", slash.ArtPath)
	assert.Contains(t, slash.Description, "3 damage")

	magicka := byName["Magicka"]
	assert.True(t, magicka.AOE)
	assert.False(t, magicka.Starter)
	assert.Equal(t, 20, magicka.Magnitude)
}

func TestBalanceEndpointRoundTrips(t *testing.T) {
	b := config.Default()
	b.Player.HP = 40
	srv := httptest.NewServer(NewServer(Options{Balance: b}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/balance")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))

	var got config.Balance
	require.NoError(t, yaml.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, b, got)
}

func TestIndexServed(t *testing.T) {
	srv := httptest.NewServer(NewServer(Options{Balance: config.Default()}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestClientKeyFiltersFrames(t *testing.T) {
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)

	_, ok := clientKey([]byte(`not json`), lim)
	assert.False(t, ok)
	_, ok = clientKey([]byte(`{"type":"join","name":"x"}`), lim)
	assert.False(t, ok)
	_, ok = clientKey([]byte(`{"type":"key","key":"fireball"}`), lim)
	assert.False(t, ok)

	msg, ok := clientKey([]byte(`{"type":"key","key":"1"}`), lim)
	require.True(t, ok)
	assert.Equal(t, "1", msg.Key)

	_, ok = clientKey([]byte(`{"type":"key","key":"2"}`), lim)
	assert.False(t, ok, "burst used up")

	_, ok = clientKey([]byte(`{"type":"key","key":"close"}`), lim)
	assert.True(t, ok, "close is never throttled")
}

// fakeHost accepts one connection, expects a join, asks for a key and ends
// the run once it arrives.
func fakeHost(t *testing.T) (addr string, keys <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		dec := json.NewDecoder(conn)
		enc := json.NewEncoder(conn)

		var join magickanet.ClientMessage
		if dec.Decode(&join) != nil || join.Type != "join" {
			return
		}
		scene := game.Scene{Mode: "Title", Prompt: []string{"Press Enter to start"}}
		if enc.Encode(magickanet.ServerMessage{Type: "choose_key", Scene: &scene}) != nil {
			return
		}
		var key magickanet.ClientMessage
		if dec.Decode(&key) != nil {
			return
		}
		got <- key.Key
		enc.Encode(magickanet.ServerMessage{Type: "game_over", Result: "Run closed on the Title screen"})
	}()
	return ln.Addr().String(), got
}

func TestWebSocketBridge(t *testing.T) {
	addr, keys := fakeHost(t)
	srv := httptest.NewServer(NewServer(Options{Balance: config.Default(), GameAddr: addr}).Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.CloseNow()

	require.NoError(t, ws.Write(ctx, websocket.MessageText, []byte(`{"type":"connect","name":"browser"}`)))

	var msg magickanet.ServerMessage
	_, data, err := ws.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "choose_key", msg.Type)
	require.NotNil(t, msg.Scene)
	assert.Equal(t, "Title", msg.Scene.Mode)

	require.NoError(t, ws.Write(ctx, websocket.MessageText, []byte(`{"type":"key","key":"enter"}`)))
	select {
	case k := <-keys:
		assert.Equal(t, "enter", k)
	case <-ctx.Done():
		t.Fatal("key never reached the host")
	}

	_, data, err = ws.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "game_over", msg.Type)
	assert.Equal(t, "Run closed on the Title screen", msg.Result)
}

func TestWebSocketBridgeReportsDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	srv := httptest.NewServer(NewServer(Options{Balance: config.Default(), GameAddr: addr}).Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.CloseNow()

	require.NoError(t, ws.Write(ctx, websocket.MessageText, []byte(`{"type":"connect"}`)))
	_, data, err := ws.Read(ctx)
	require.NoError(t, err)
	var msg magickanet.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Result, "Could not connect")
}
