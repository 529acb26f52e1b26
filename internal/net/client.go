package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/peterkuimelis/magicka/internal/game"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient creates a REPL client over conn reading keys from in.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the join handshake, and runs the REPL.
func Connect(ctx context.Context, addr, name string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the run to start...")

	return NewClient(conn, os.Stdin, os.Stdout).RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_key":
			if msg.Scene != nil {
				fmt.Fprint(c.out, RenderScene(*msg.Scene))
			}
			key := c.readKey()
			if err := enc.Encode(ClientMessage{Type: "key", Key: key}); err != nil {
				return fmt.Errorf("send key: %w", err)
			}

		case "game_over":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	scene := ev.Scene
	for len(scene) < 8 {
		scene += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, scene, ev.Details)
}

// readKey reads one line of input. A blank line is Enter; end of input
// closes the window.
func (c *Client) readKey() string {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			return "close"
		}
		if _, perr := game.ParseKey(line); perr != nil {
			fmt.Fprintln(c.out, "Keys: 1-8, enter (blank line), esc, q")
			if err != nil {
				return "close"
			}
			continue
		}
		return line
	}
}

// RenderScene draws a scene as terminal text.
func RenderScene(sc game.Scene) string {
	var b strings.Builder
	p := sc.Player
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(&b, "║  %s", strings.ToUpper(sc.Mode))
	if sc.Node >= 0 && sc.Mode != "Title" {
		fmt.Fprintf(&b, "  (node %d)", sc.Node)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "║  HP %d/%d  Mana %d/%d  Coins %d  Deck %d  [%s]\n",
		p.HP, p.MaxHP, p.Mana, p.MaxMana, p.Coins, sc.DeckCount, p.Pose)

	if bv := sc.Battle; bv != nil {
		fmt.Fprintln(&b, "║──────────────────────────────────────────────────────")
		fmt.Fprintf(&b, "║  Enemies: ")
		for _, e := range bv.Enemies {
			fmt.Fprintf(&b, "%s ", formatEnemy(e))
		}
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "║  Hand:    ")
		for i, name := range bv.Hand {
			if name == "" {
				name = " "
			}
			fmt.Fprintf(&b, "[%d %s] ", i+1, name)
		}
		fmt.Fprintln(&b)
	}

	if mv := sc.Map; mv != nil {
		fmt.Fprintln(&b, "║──────────────────────────────────────────────────────")
		fmt.Fprintf(&b, "║  Map:     ")
		for _, n := range mv.Nodes {
			fmt.Fprintf(&b, "%s ", formatNode(n))
		}
		fmt.Fprintln(&b)
	}

	if len(sc.Placeholders) > 0 {
		fmt.Fprintf(&b, "║  (missing visuals: %s)\n", strings.Join(sc.Placeholders, ", "))
	}
	fmt.Fprintln(&b, "╚══════════════════════════════════════════════════════╝")
	for _, line := range sc.Prompt {
		fmt.Fprintln(&b, line)
	}
	return b.String()
}

func formatEnemy(e game.EnemyView) string {
	if !e.Alive {
		return fmt.Sprintf("[%s x]", e.Kind)
	}
	if e.Pose != "standing" {
		return fmt.Sprintf("[%s %d %s]", e.Kind, e.HP, e.Pose)
	}
	return fmt.Sprintf("[%s %d]", e.Kind, e.HP)
}

func formatNode(n game.NodeView) string {
	mark := " "
	switch {
	case n.Active:
		mark = "*"
	case n.Visited:
		mark = "."
	}
	return fmt.Sprintf("[%d%s%s]", n.Index, mark, n.Type[:1])
}
