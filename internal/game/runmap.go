package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/magicka/internal/log"
)

// RunResult is how a pass over the map ended.
type RunResult int

const (
	RunContinue RunResult = iota // node done, keep traversing
	RunClosed
	RunVictory
	RunDefeat
)

func (r RunResult) String() string {
	switch r {
	case RunContinue:
		return "Continue"
	case RunClosed:
		return "Closed"
	case RunVictory:
		return "Victory"
	case RunDefeat:
		return "Defeat"
	default:
		return "Unknown"
	}
}

// NodeTypes is the fixed layout of the map.
var NodeTypes = [NodeCount]NodeType{
	NodeBattle, NodeShop, NodeBattle,
	NodeBattle, NodeBattle, NodeShop,
	NodeShop, NodeRefill, NodeBattle,
}

// Successors lists the nodes a completed node opens up.
var Successors = [NodeCount][]int{
	0: {1, 2},
	1: {3},
	2: {3},
	3: {4, 5},
	4: {6, 7},
	5: {6, 7},
	6: {8},
	7: {8},
	8: nil,
}

// Frontier is the traversal state of the map: which nodes can be entered
// next, which were entered, and the last one completed.
type Frontier struct {
	Active  [NodeCount]bool `yaml:"active" json:"active"`
	Visited [NodeCount]bool `yaml:"visited" json:"visited"`
	Last    int             `yaml:"last" json:"last"` // -1 before the first node is completed
}

// StartFrontier is the frontier of a fresh run: only node 0 is open.
func StartFrontier() Frontier {
	f := Frontier{Last: -1}
	f.Active[0] = true
	return f
}

// Options returns the active nodes in ascending order. Digit n on the map
// screen enters Options()[n-1].
func (f Frontier) Options() []int {
	var out []int
	for i, on := range f.Active {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// Map is the branching progression graph of a run.
type Map struct {
	s          *Session
	frontier   Frontier
	checkpoint Frontier // frontier before the node being played
}

// NewMap creates a map at the start of a run.
func NewMap(s *Session) *Map {
	return &Map{s: s, frontier: StartFrontier(), checkpoint: StartFrontier()}
}

// Frontier returns a copy of the traversal state.
func (m *Map) Frontier() Frontier {
	return m.frontier
}

// Checkpoint returns the frontier as it was before the last node entered.
func (m *Map) Checkpoint() Frontier {
	return m.checkpoint
}

// Restore replaces the traversal state directly.
func (m *Map) Restore(f Frontier) {
	m.frontier = f
	m.checkpoint = f
	m.s.node = f.Last
}

// Enter visits a node and plays it. Inactive or unknown nodes are ignored.
// It returns RunContinue when the node was completed and its successors
// opened.
func (m *Map) Enter(ctx context.Context, node int) (RunResult, error) {
	if node < 0 || node >= NodeCount || !m.frontier.Active[node] {
		return RunContinue, nil
	}
	s := m.s
	s.bind(ctx)
	m.checkpoint = m.frontier
	m.frontier.Visited[node] = true
	m.frontier.Active = [NodeCount]bool{}
	s.node = node
	s.log(log.NewNodeEnterEvent(node, NodeTypes[node].String()))

	switch NodeTypes[node] {
	case NodeBattle:
		outcome, err := NewBattle(s, node).Run(ctx)
		if err != nil {
			return RunClosed, err
		}
		switch outcome {
		case OutcomeLost:
			return RunDefeat, nil
		case OutcomeClosed:
			return RunClosed, nil
		}
		if node == FinalNode {
			m.complete(node)
			return RunVictory, nil
		}
	case NodeShop:
		closed, err := s.Shop.Run(ctx)
		if err != nil {
			return RunClosed, err
		}
		if closed {
			return RunClosed, nil
		}
	case NodeRefill:
		s.Player.RefillHP()
		s.log(log.NewRefillEvent(node, s.Player.HP))
	}
	m.complete(node)
	return RunContinue, nil
}

func (m *Map) complete(node int) {
	m.frontier.Last = node
	for _, next := range Successors[node] {
		m.frontier.Active[next] = true
	}
}

// Run lets the player pick nodes until the run is won, lost or the window
// is closed. Last on the frontier holds the last completed node.
func (m *Map) Run(ctx context.Context) (RunResult, error) {
	m.s.bind(ctx)
	for {
		m.s.node = m.frontier.Last
		key, err := m.s.nextKey(ctx, m.Scene())
		if err != nil {
			return RunClosed, fmt.Errorf("map: %w", err)
		}
		if key == KeyClose {
			return RunClosed, nil
		}
		options := m.frontier.Options()
		n := key.Digit()
		if n < 1 || n > len(options) {
			continue
		}
		result, err := m.Enter(ctx, options[n-1])
		if err != nil || result != RunContinue {
			return result, err
		}
	}
}

// Scene renders the map for the controller.
func (m *Map) Scene() Scene {
	sc := m.s.scene(ModeMap)
	view := &MapView{Current: m.frontier.Last}
	for i, t := range NodeTypes {
		view.Nodes = append(view.Nodes, NodeView{
			Index:   i,
			Type:    t.String(),
			Active:  m.frontier.Active[i],
			Visited: m.frontier.Visited[i],
		})
	}
	sc.Map = view
	sc.Prompt = append(sc.Prompt, fmt.Sprintf("HP %d/%d, %d coins, %d cards", m.s.Player.HP, m.s.Player.MaxHP, m.s.Player.Coins, m.s.Deck.Len()))
	for i, node := range m.frontier.Options() {
		sc.Prompt = append(sc.Prompt, fmt.Sprintf("Press %d for %s (node %d)", i+1, NodeTypes[node], node))
	}
	return sc
}
