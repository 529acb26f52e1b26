package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/log"
)

// Outcome is how a battle ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeWon
	OutcomeLost
	OutcomeClosed // window closed mid-battle
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "Pending"
	case OutcomeWon:
		return "Won"
	case OutcomeLost:
		return "Lost"
	case OutcomeClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Battle is one encounter: a roster of up to four enemies against the
// player's hand, driven by the SelectCard / SelectEnemy / Processing
// state machine.
type Battle struct {
	Roster [MaxRosterLen]*Enemy
	Hand   [HandSize]*Card
	State  BattleState
	Turn   int

	s        *Session
	node     int
	selected int // hand slot awaiting a target, -1 when none
	outcome  Outcome
	visuals  visualSet
	closed   bool
}

// RollRoster picks the enemies for a battle at the given map node.
func RollRoster(node int, b config.EnemyBalance, rng *rand.Rand) []*Enemy {
	roll := func() *Enemy {
		if rng.IntN(100) < b.CaptainChance {
			return NewEnemy(EnemyCaptain, b)
		}
		return NewEnemy(EnemyCronie, b)
	}
	var roster []*Enemy
	switch {
	case node < 3:
		for i := 0; i < 3; i++ {
			roster = append(roster, NewEnemy(EnemyCronie, b))
		}
	case node < 7:
		for i := 0; i < 4; i++ {
			roster = append(roster, roll())
		}
	default:
		roster = append(roster, NewEnemy(EnemyBoss, b))
		for i := 0; i < 3; i++ {
			roster = append(roster, roll())
		}
	}
	return roster
}

// NewBattle sets up the encounter for a map node and deals the first hand.
func NewBattle(s *Session, node int) *Battle {
	return newBattle(s, node, RollRoster(node, s.Balance.Enemies, s.rng))
}

func newBattle(s *Session, node int, roster []*Enemy) *Battle {
	b := &Battle{
		State:    StateSelectCard,
		Turn:     1,
		s:        s,
		node:     node,
		selected: -1,
	}
	visuals := []Visual{VisualFont, VisualBattleBG, VisualPlayer, VisualCardBack}
	names := make([]string, 0, len(roster))
	for i, e := range roster {
		if i >= MaxRosterLen {
			break
		}
		b.Roster[i] = e
		names = append(names, e.String())
		visuals = append(visuals, enemyVisual(e.Kind))
	}
	for _, k := range CardKinds {
		visuals = append(visuals, cardVisual(k))
	}

	s.Arsenal.ResetMagicka()
	s.Player.ResetMana()
	s.Player.Pose = PoseStanding

	s.log(log.NewBattleStartEvent(node, names))
	for _, e := range b.Roster {
		if e != nil {
			s.log(log.NewEnemyDeployedEvent(node, e.String(), e.HP))
		}
	}
	b.visuals = s.loadVisuals("Battle", visuals...)
	b.drawHand()
	return b
}

// Outcome reports whether the battle has been decided.
func (b *Battle) Outcome() Outcome {
	return b.outcome
}

// Living returns the enemies still alive, in roster order.
func (b *Battle) Living() []*Enemy {
	var out []*Enemy
	for _, e := range b.Roster {
		if e != nil && e.Alive {
			out = append(out, e)
		}
	}
	return out
}

// Selected returns the card awaiting a target, or nil.
func (b *Battle) Selected() *Card {
	if b.selected < 0 {
		return nil
	}
	return b.Hand[b.selected]
}

// SelectCard picks the card in a hand slot (0-3). Heal resolves at once;
// other cards wait for a target. Empty slots, missing mana and selections
// outside SelectCard are ignored.
func (b *Battle) SelectCard(slot int) bool {
	if b.outcome != OutcomePending || b.State != StateSelectCard {
		return false
	}
	if slot < 0 || slot >= HandSize || b.Hand[slot] == nil {
		return false
	}
	if b.s.Player.Mana < b.s.Balance.Cards.ManaCost {
		return false
	}
	if b.Hand[slot].Kind == CardHeal {
		b.resolve(slot, nil)
		return true
	}
	b.selected = slot
	b.State = StateSelectEnemy
	return true
}

// SelectEnemy aims the pending card at the n-th living enemy (1-based) and
// resolves it.
func (b *Battle) SelectEnemy(n int) bool {
	if b.outcome != OutcomePending || b.State != StateSelectEnemy {
		return false
	}
	living := b.Living()
	if n < 1 || n > len(living) {
		return false
	}
	b.resolve(b.selected, living[n-1])
	return true
}

// Cancel drops the pending card and returns to card selection.
func (b *Battle) Cancel() bool {
	if b.State != StateSelectEnemy {
		return false
	}
	b.selected = -1
	b.State = StateSelectCard
	return true
}

// resolve plays the card in slot, spends its mana and discards it.
func (b *Battle) resolve(slot int, target *Enemy) {
	s := b.s
	card := b.Hand[slot]

	var targets []*Enemy
	targetName := ""
	switch {
	case card.AOE:
		for _, e := range b.Roster {
			if e != nil {
				targets = append(targets, e)
			}
		}
		targetName = "all enemies"
	case target != nil:
		targets = []*Enemy{target}
		targetName = target.String()
	}

	hpBefore := make(map[*Enemy]int, len(targets))
	aliveBefore := make(map[*Enemy]bool, len(targets))
	for _, e := range targets {
		hpBefore[e] = e.HP
		aliveBefore[e] = e.Alive
	}
	playerHP := s.Player.HP

	s.log(log.NewCardPlayedEvent(b.Turn, b.node, card.String(), targetName))
	if card.Kind == CardMagicka && s.Arsenal.MagickaUsed() {
		s.log(log.NewCardFizzledEvent(b.Turn, b.node, card.String(), "already cast this battle"))
	}
	card.Play(s.Arsenal, s.Player, targets)

	for _, e := range targets {
		if dmg := hpBefore[e] - e.HP; dmg > 0 {
			s.log(log.NewDamageEvent(b.Turn, b.node, e.String(), dmg, e.HP))
		}
		if aliveBefore[e] && !e.Alive {
			s.log(log.NewEnemyDefeatedEvent(b.Turn, b.node, e.String()))
		}
	}
	if healed := s.Player.HP - playerHP; healed > 0 {
		s.log(log.NewHealEvent(b.Turn, "Battle", b.node, "Player", healed, s.Player.HP))
	}

	cost := s.Balance.Cards.ManaCost
	s.Player.SpendMana(cost)
	s.log(log.NewManaSpentEvent(b.Turn, b.node, cost, s.Player.Mana))

	b.Hand[slot] = nil
	b.discard(card)

	b.selected = -1
	b.State = StateSelectCard
	b.checkEnd()
}

// EndTurn runs the enemy phase: every living enemy attacks in roster order,
// then the turn resets. Allowed from either selection state.
func (b *Battle) EndTurn(ctx context.Context) error {
	if b.outcome != OutcomePending || b.State == StateProcessing {
		return nil
	}
	s := b.s
	b.selected = -1
	b.State = StateProcessing
	s.log(log.NewEndTurnEvent(b.Turn, b.node))

	attacked := 0
	for _, e := range b.Roster {
		if e == nil || !e.Alive {
			continue
		}
		if attacked > 0 {
			if err := s.pause(ctx); err != nil {
				return fmt.Errorf("enemy turn: %w", err)
			}
		}
		attacked++
		dmg := e.Attack(s.Player, s.rng)
		s.log(log.NewEnemyAttackEvent(b.Turn, b.node, e.String(), dmg, s.Player.HP))
		if healed := e.Heal(s.rng); healed > 0 {
			s.log(log.NewEnemyHealEvent(b.Turn, b.node, e.String(), healed, e.HP))
		}
	}

	b.checkEnd()
	if b.outcome != OutcomePending {
		return nil
	}
	b.resetTurn()
	return nil
}

// resetTurn refills mana, re-arms Magicka and deals a fresh hand.
func (b *Battle) resetTurn() {
	s := b.s
	b.Turn++
	s.Player.ResetMana()
	s.Player.DecrementPowerDuration()
	s.Player.Pose = PoseStanding
	s.Arsenal.ResetMagicka()
	for _, e := range b.Roster {
		if e != nil && e.Alive {
			e.Pose = PoseStanding
		}
	}
	s.log(log.NewTurnResetEvent(b.Turn, b.node, s.Player.Mana))

	for i, c := range b.Hand {
		if c == nil {
			continue
		}
		b.Hand[i] = nil
		b.discard(c)
	}
	b.drawHand()
	b.State = StateSelectCard
}

// drawHand fills empty hand slots from the top of the deck.
func (b *Battle) drawHand() {
	for i := range b.Hand {
		if b.Hand[i] != nil {
			continue
		}
		card := b.s.Deck.Draw()
		if card == nil {
			return
		}
		b.Hand[i] = card
		b.s.log(log.NewDrawEvent(b.Turn, b.node, card.String(), i))
	}
}

func (b *Battle) discard(card *Card) {
	if !b.s.Deck.Discard(card) {
		b.s.log(log.NewCapacityExceededEvent("Battle", b.node, card.String(), b.s.Deck.Capacity()))
		return
	}
	b.s.log(log.NewDiscardEvent(b.Turn, b.node, card.String()))
}

// checkEnd decides the battle once the player or the whole roster is down.
func (b *Battle) checkEnd() {
	if b.outcome != OutcomePending {
		return
	}
	s := b.s
	if !s.Player.Alive() {
		b.outcome = OutcomeLost
		s.log(log.NewBattleLostEvent(b.Turn, b.node, s.Player.HP))
		return
	}
	if len(b.Living()) > 0 {
		return
	}
	reward := s.Balance.Rewards.Victory
	for _, e := range b.Roster {
		if e != nil {
			reward += e.Reward(s.Balance.Rewards)
		}
	}
	s.Player.AddCoins(reward)
	b.outcome = OutcomeWon
	s.log(log.NewBattleWonEvent(b.Turn, b.node))
	s.log(log.NewCoinsEvent(b.node, reward, s.Player.Coins))
}

// HandleKey applies one key press to the state machine.
func (b *Battle) HandleKey(ctx context.Context, key Key) error {
	switch {
	case key == KeyEnter:
		return b.EndTurn(ctx)
	case key == KeyEscape:
		b.Cancel()
	case key.Digit() > 0:
		switch b.State {
		case StateSelectCard:
			b.SelectCard(key.Digit() - 1)
		case StateSelectEnemy:
			b.SelectEnemy(key.Digit())
		}
	}
	return nil
}

// Run drives the battle from the controller until it is won, lost or the
// window is closed. The hand always goes back into the deck on return.
func (b *Battle) Run(ctx context.Context) (Outcome, error) {
	b.s.bind(ctx)
	defer b.Close()
	for b.outcome == OutcomePending {
		key, err := b.s.nextKey(ctx, b.Scene())
		if err != nil {
			return OutcomeClosed, fmt.Errorf("battle at node %d: %w", b.node, err)
		}
		if key == KeyClose {
			return OutcomeClosed, nil
		}
		if err := b.HandleKey(ctx, key); err != nil {
			return OutcomeClosed, err
		}
	}
	return b.outcome, nil
}

// Close returns every hand card to the deck and releases the roster.
func (b *Battle) Close() {
	if b.closed {
		return
	}
	b.closed = true
	for i, c := range b.Hand {
		if c == nil {
			continue
		}
		b.Hand[i] = nil
		b.discard(c)
	}
	b.Roster = [MaxRosterLen]*Enemy{}
	b.selected = -1
}

// Scene renders the battle for the controller.
func (b *Battle) Scene() Scene {
	s := b.s
	sc := s.scene(ModeBattle)
	sc.Node = b.node
	view := &BattleView{
		State: b.State.String(),
		Turn:  b.Turn,
		Hand:  make([]string, HandSize),
	}
	for i, c := range b.Hand {
		if c != nil {
			view.Hand[i] = c.String()
		}
	}
	if c := b.Selected(); c != nil {
		view.Pending = c.String()
	}
	for _, e := range b.Roster {
		if e == nil {
			continue
		}
		view.Enemies = append(view.Enemies, EnemyView{
			Kind:  e.String(),
			HP:    e.HP,
			Alive: e.Alive,
			Pose:  e.Pose.String(),
		})
	}
	sc.Battle = view
	sc.Placeholders = b.visuals.placeholders()
	sc.Prompt = b.prompt()
	return sc
}

func (b *Battle) prompt() []string {
	s := b.s
	cost := s.Balance.Cards.ManaCost
	var lines []string
	switch b.State {
	case StateSelectCard:
		lines = append(lines, fmt.Sprintf("Turn %d. Mana %d/%d. Select a card:", b.Turn, s.Player.Mana, s.Player.MaxMana))
		for i, c := range b.Hand {
			if c == nil {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d: %s %d (%d mana)", i+1, c, s.Arsenal.Magnitude(c.Kind), cost))
		}
		lines = append(lines, "Enter: end turn")
	case StateSelectEnemy:
		lines = append(lines, fmt.Sprintf("Select a target for %s:", b.Selected()))
		for i, e := range b.Living() {
			lines = append(lines, fmt.Sprintf("%d: %s (HP %d)", i+1, e, e.HP))
		}
		lines = append(lines, "Esc: back", "Enter: end turn")
	case StateProcessing:
		lines = append(lines, "Enemies are attacking...")
	}
	return lines
}
