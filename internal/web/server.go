package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/time/rate"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/game"
	magickanet "github.com/peterkuimelis/magicka/internal/net"
)

//go:embed static
var staticFiles embed.FS

// Default browser key throttle.
const (
	DefaultKeyRate  = rate.Limit(8)
	DefaultKeyBurst = 4
)

// CardInfo is the JSON representation of a card kind for /api/cards.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AOE         bool   `json:"aoe"`
	Starter     bool   `json:"starter"`
	Magnitude   int    `json:"magnitude"`
	ManaCost    int    `json:"manaCost"`
	Price       int    `json:"price"`
	Visual      string `json:"visual"`
	ArtPath     string `json:"artPath,omitempty"`
}

// Options configures a web Server.
type Options struct {
	Balance  config.Balance
	GameAddr string     // TCP address of the hosted runs the /ws bridge joins
	ArtDir   string     // directory served under /art/, empty to disable
	KeyRate  rate.Limit // browser keys per second (0 = DefaultKeyRate)
	KeyBurst int        // (0 = DefaultKeyBurst)
}

// Server is the magicka web UI server.
type Server struct {
	opts Options
	mux  *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	if opts.KeyRate <= 0 {
		opts.KeyRate = DefaultKeyRate
	}
	if opts.KeyBurst <= 0 {
		opts.KeyBurst = DefaultKeyBurst
	}
	s := &Server{
		opts: opts,
		mux:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	if s.opts.ArtDir != "" {
		s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.opts.ArtDir))))
	}

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/balance", s.handleBalance)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	b := s.opts.Balance
	arsenal := game.NewArsenal(b.Cards)

	cards := make([]CardInfo, 0, len(game.CardKinds))
	for i, kind := range game.CardKinds {
		ci := CardInfo{
			Name:        kind.String(),
			Description: describeCard(kind, arsenal),
			AOE:         kind.IsAOE(),
			Starter:     game.NewCard(kind).Unlocked,
			Magnitude:   arsenal.Magnitude(kind),
			ManaCost:    b.Cards.ManaCost,
			Price:       b.Shop.CardPrices[i],
			Visual:      string(kind.Visual()),
		}
		if s.opts.ArtDir != "" {
			ci.ArtPath = "/art/" + ci.Visual + ".png"
		}
		cards = append(cards, ci)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	data, err := marshalBalanceYAML(s.opts.Balance)
	if err != nil {
		http.Error(w, "could not encode balance", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}

func describeCard(kind game.CardKind, a *game.Arsenal) string {
	switch kind {
	case game.CardSlash:
		return fmt.Sprintf("Deal %d damage to one enemy.", a.SlashAttack)
	case game.CardHeal:
		return fmt.Sprintf("Restore %d HP.", a.HealAmount)
	case game.CardDrain:
		return fmt.Sprintf("Deal %d damage to one enemy and restore %d HP.", a.DrainAttack, a.DrainHeal)
	case game.CardInquisition:
		return fmt.Sprintf("Deal %d damage to every enemy.", a.InquisitionAttack)
	case game.CardMagicka:
		return fmt.Sprintf("Deal %d damage to every enemy. Once per battle; only one copy fits in a deck.", a.MagickaDamage)
	default:
		return ""
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		slog.Warn("websocket read connect", "error", err)
		return
	}
	var connectMsg struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", s.opts.GameAddr)
	if err != nil {
		errMsg, _ := json.Marshal(magickanet.ServerMessage{
			Type:   "error",
			Result: fmt.Sprintf("Could not connect to game server at %s: %v", s.opts.GameAddr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	enc := json.NewEncoder(tcpConn)
	if err := enc.Encode(magickanet.ClientMessage{Type: "join", Name: connectMsg.Name}); err != nil {
		slog.Warn("tcp write join", "error", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					slog.Warn("tcp read failed", "error", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				slog.Warn("websocket write failed", "error", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser keys to server)
	go func() {
		defer tcpConn.Close()
		lim := rate.NewLimiter(s.opts.KeyRate, s.opts.KeyBurst)
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			msg, ok := clientKey(data, lim)
			if !ok {
				continue
			}
			if err := enc.Encode(msg); err != nil {
				slog.Warn("tcp write failed", "error", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "run ended")
}

// clientKey accepts a browser frame if it is a well-formed key message and
// the connection is within its key rate. Anything else is dropped.
func clientKey(data []byte, lim *rate.Limiter) (magickanet.ClientMessage, bool) {
	var msg magickanet.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "key" {
		return msg, false
	}
	if _, err := game.ParseKey(msg.Key); err != nil {
		return msg, false
	}
	// Close always goes through so a throttled player can still quit.
	if msg.Key != "close" && !lim.Allow() {
		slog.Debug("key dropped by rate limit", "key", msg.Key)
		return msg, false
	}
	return msg, true
}

// ListenAndServe serves HTTP on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
