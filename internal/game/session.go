package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/log"
)

// Config holds configuration for creating a new run.
type Config struct {
	Balance   *config.Balance // nil for config.Default()
	Logger    log.EventLogger
	Assets    Assets // nil for HeadlessAssets
	Seed      uint64 // RNG seed (0 for random)
	NoShuffle bool   // keep the starting deck in listed order (for deterministic tests)
	NoDelay   bool   // skip the pause between enemy attacks
}

// Session is the state shared by every screen of one run: the player, the
// deck, the per-kind card magnitudes and the shop's price book.
type Session struct {
	RunID      string
	Player     *Player
	Deck       *Deck
	Arsenal    *Arsenal
	Shop       *Shop
	Balance    config.Balance
	Logger     log.EventLogger
	Controller Controller
	Assets     Assets

	rng         *rand.Rand
	noShuffle   bool
	attackDelay time.Duration
	node        int // map node being played, -1 outside the map
	ctx         context.Context
}

// NewSession validates the configuration and deals a fresh run.
func NewSession(cfg Config, ctrl Controller) (*Session, error) {
	balance := config.Default()
	if cfg.Balance != nil {
		balance = *cfg.Balance
	}
	if err := balance.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	assets := cfg.Assets
	if assets == nil {
		assets = HeadlessAssets{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Session{
		Balance:     balance,
		Logger:      logger,
		Controller:  ctrl,
		Assets:      assets,
		rng:         rand.New(rand.NewPCG(seed, seed>>1|1)),
		noShuffle:   cfg.NoShuffle,
		attackDelay: balance.Battle.AttackDelay,
		node:        -1,
		ctx:         context.Background(),
	}
	if cfg.NoDelay {
		s.attackDelay = 0
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset throws away the current run and deals a new one: new player, new
// deck, base magnitudes, fresh shop prices and a new run id.
func (s *Session) Reset() error {
	var rng *rand.Rand
	if !s.noShuffle {
		rng = s.rng
	}
	deck, err := NewStartingDeck(s.Balance.Deck, rng)
	if err != nil {
		return fmt.Errorf("reset run: %w", err)
	}
	s.RunID = uuid.NewString()
	s.Player = NewPlayer(s.Balance.Player)
	s.Deck = deck
	s.Arsenal = NewArsenal(s.Balance.Cards)
	s.Shop = newShop(s)
	s.node = -1

	s.log(log.NewRunStartEvent(s.RunID))
	if rng != nil {
		s.log(log.NewShuffleEvent(deck.Len()))
	}
	return nil
}

// Node returns the map node being played, or -1.
func (s *Session) Node() int {
	return s.node
}

// bind makes ctx the context used for notifications until the next bind.
func (s *Session) bind(ctx context.Context) {
	s.ctx = ctx
}

// log records an event and forwards it to the controller.
func (s *Session) log(event log.GameEvent) {
	s.Logger.Log(event)
	if s.Controller != nil {
		// Notifications are best effort.
		_ = s.Controller.Notify(s.ctx, event)
	}
}

// nextKey shows scene and blocks for the next key press.
func (s *Session) nextKey(ctx context.Context, scene Scene) (Key, error) {
	if s.Controller == nil {
		return KeyClose, nil
	}
	key, err := s.Controller.NextKey(ctx, scene)
	if err != nil {
		return KeyNone, err
	}
	return key, nil
}

// pause blocks for the enemy attack delay.
func (s *Session) pause(ctx context.Context) error {
	if s.attackDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.attackDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// scene starts a Scene with the fields every screen shares.
func (s *Session) scene(mode Mode) Scene {
	return Scene{
		RunID:     s.RunID,
		Mode:      mode.String(),
		Node:      s.node,
		Player:    playerView(s.Player),
		DeckCount: s.Deck.Len(),
	}
}

// addCards puts n new cards of kind into the deck. Cards that do not fit
// are dropped and logged. Returns how many were added.
func (s *Session) addCards(scene string, kind CardKind, n int) int {
	added := 0
	for i := 0; i < n; i++ {
		card := NewCard(kind)
		card.Unlocked = true
		if !s.Deck.AddCard(card) {
			s.log(log.NewCapacityExceededEvent(scene, s.node, card.String(), s.Deck.Capacity()))
			continue
		}
		added++
	}
	return added
}
