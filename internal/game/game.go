package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/magicka/internal/log"
)

// Game is the top-level session: title screen, map traversal and the
// victory and defeat screens with their reset and restart rules.
type Game struct {
	Mode Mode
	Map  *Map

	s *Session
}

// NewGame deals a new run and shows the title screen.
func NewGame(cfg Config, ctrl Controller) (*Game, error) {
	s, err := NewSession(cfg, ctrl)
	if err != nil {
		return nil, err
	}
	return &Game{Mode: ModeTitle, Map: NewMap(s), s: s}, nil
}

// Session returns the run state.
func (g *Game) Session() *Session {
	return g.s
}

// Run drives the game until the window is closed or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	g.s.bind(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.Mode == ModeMap {
			result, err := g.Map.Run(ctx)
			if err != nil {
				return err
			}
			if result == RunClosed {
				return nil
			}
			g.finish(result)
			continue
		}

		key, err := g.s.nextKey(ctx, g.Scene())
		if err != nil {
			return fmt.Errorf("%s screen: %w", g.Mode, err)
		}
		if key == KeyClose {
			return nil
		}
		if err := g.HandleKey(key); err != nil {
			return err
		}
	}
}

// finish moves to the victory or defeat screen.
func (g *Game) finish(result RunResult) {
	last := g.Map.Frontier().Last
	switch result {
	case RunVictory:
		g.Mode = ModeVictory
		g.s.log(log.NewVictoryEvent(last, g.s.Player.Coins))
	case RunDefeat:
		g.Mode = ModeDefeat
		g.s.log(log.NewDefeatEvent(last))
	}
}

// HandleKey applies a key on the title, victory or defeat screen.
func (g *Game) HandleKey(key Key) error {
	switch g.Mode {
	case ModeTitle:
		if key == KeyEnter {
			g.Mode = ModeMap
		}
	case ModeVictory:
		if key == KeyEnter {
			return g.Reset()
		}
	case ModeDefeat:
		if key == Key1 {
			g.Restart()
		}
	}
	return nil
}

// Reset starts over from the title screen with a brand-new run.
func (g *Game) Reset() error {
	if err := g.s.Reset(); err != nil {
		return err
	}
	g.Map = NewMap(g.s)
	g.Mode = ModeTitle
	return nil
}

// Restart resumes after a defeat: the player is healed to full and the map
// goes back to the frontier it had before the fatal node.
func (g *Game) Restart() {
	g.s.Player.RefillHP()
	g.Map.Restore(g.Map.Checkpoint())
	g.s.log(log.NewRestartEvent(g.Map.Frontier().Last, g.s.Player.HP))
	g.Mode = ModeMap
}

// Scene renders the current non-map screen.
func (g *Game) Scene() Scene {
	if g.Mode == ModeMap {
		return g.Map.Scene()
	}
	sc := g.s.scene(g.Mode)
	switch g.Mode {
	case ModeTitle:
		sc.Prompt = []string{"MAGICKA", "Press Enter to start"}
	case ModeVictory:
		sc.Prompt = []string{
			fmt.Sprintf("Victory! You finished with %d coins.", g.s.Player.Coins),
			"Press Enter to play again",
		}
	case ModeDefeat:
		sc.Prompt = []string{
			fmt.Sprintf("Defeat. Last completed node: %d", g.Map.Frontier().Last),
			"Press 1 to retry from there",
		}
	}
	return sc
}
