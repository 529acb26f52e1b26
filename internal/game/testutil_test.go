package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/log"
)

// ScriptedController is a Controller that plays back a fixed list of keys.
// Once the script runs out it closes the window, so every Run loop ends.
type ScriptedController struct {
	t      *testing.T
	keys   []Key
	pos    int
	scenes []Scene
	events []log.GameEvent
}

func NewScriptedController(t *testing.T, keys ...Key) *ScriptedController {
	return &ScriptedController{t: t, keys: keys}
}

// Press appends keys to the script.
func (sc *ScriptedController) Press(keys ...Key) *ScriptedController {
	sc.keys = append(sc.keys, keys...)
	return sc
}

// Digits appends digit keys to the script.
func (sc *ScriptedController) Digits(ns ...int) *ScriptedController {
	for _, n := range ns {
		sc.keys = append(sc.keys, DigitKey(n))
	}
	return sc
}

func (sc *ScriptedController) NextKey(ctx context.Context, scene Scene) (Key, error) {
	sc.scenes = append(sc.scenes, scene)
	if sc.pos >= len(sc.keys) {
		return KeyClose, nil
	}
	k := sc.keys[sc.pos]
	sc.pos++
	return k, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	sc.events = append(sc.events, event)
	return nil
}

// Remaining is the number of scripted keys not yet consumed.
func (sc *ScriptedController) Remaining() int {
	return len(sc.keys) - sc.pos
}

// LastScene returns the last scene shown to the controller.
func (sc *ScriptedController) LastScene() Scene {
	if len(sc.scenes) == 0 {
		return Scene{}
	}
	return sc.scenes[len(sc.scenes)-1]
}

// --- Session helpers ---

// testConfig is a deterministic configuration: fixed seed, listed deck
// order and no attack pause. With the default deck the draw order is
// Heal, Heal, Slash, Slash, Slash, Slash.
func testConfig(logger log.EventLogger) Config {
	return Config{Logger: logger, Seed: 42, NoShuffle: true, NoDelay: true}
}

func newTestSession(t *testing.T, ctrl Controller) (*Session, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	s, err := NewSession(testConfig(logger), ctrl)
	require.NoError(t, err)
	return s, logger
}

func newTestSessionWithBalance(t *testing.T, ctrl Controller, b config.Balance) (*Session, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg := testConfig(logger)
	cfg.Balance = &b
	s, err := NewSession(cfg, ctrl)
	require.NoError(t, err)
	return s, logger
}

func cronies(s *Session, n int) []*Enemy {
	out := make([]*Enemy, n)
	for i := range out {
		out[i] = NewEnemy(EnemyCronie, s.Balance.Enemies)
	}
	return out
}

// handKinds lists the kinds in the hand; empty slots are skipped.
func handKinds(b *Battle) []CardKind {
	var out []CardKind
	for _, c := range b.Hand {
		if c != nil {
			out = append(out, c.Kind)
		}
	}
	return out
}

func handCount(b *Battle) int {
	return len(handKinds(b))
}

// slotOf returns the first hand slot holding a card of kind, or -1.
func slotOf(b *Battle, kind CardKind) int {
	for i, c := range b.Hand {
		if c != nil && c.Kind == kind {
			return i
		}
	}
	return -1
}

// failingAssets fails every load listed in missing.
type failingAssets struct {
	missing map[Visual]bool
}

func (a failingAssets) Load(v Visual) (Handle, error) {
	if a.missing[v] {
		return Handle{}, ErrNoAsset
	}
	return Handle{Visual: v}, nil
}
