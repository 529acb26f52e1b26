package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	scene := e.Scene
	// Pad scene to 8 chars for alignment
	for len(scene) < 8 {
		scene += " "
	}
	node := "  "
	if e.Node >= 0 {
		node = fmt.Sprintf("N%d", e.Node)
	}
	return fmt.Sprintf("%s T%-2d %s| %s", node, e.Turn, scene, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewRunStartEvent(runID string) GameEvent {
	return GameEvent{
		Scene:   "Title",
		Node:    -1,
		Type:    EventRunStart,
		Details: fmt.Sprintf("=== Run %s ===", runID),
	}
}

func NewNodeEnterEvent(node int, nodeType string) GameEvent {
	return GameEvent{
		Scene:   "Map",
		Node:    node,
		Type:    EventNodeEnter,
		Details: fmt.Sprintf("Entering node %d (%s)", node, nodeType),
	}
}

func NewBattleStartEvent(node int, enemies []string) GameEvent {
	return GameEvent{
		Turn:    1,
		Scene:   "Battle",
		Node:    node,
		Type:    EventBattleStart,
		Details: fmt.Sprintf("Battle begins against %s", strings.Join(enemies, ", ")),
	}
}

func NewEnemyDeployedEvent(node int, enemy string, hp int) GameEvent {
	return GameEvent{
		Turn:    1,
		Scene:   "Battle",
		Node:    node,
		Type:    EventEnemyDeployed,
		Card:    enemy,
		Amount:  hp,
		Details: fmt.Sprintf("%s deployed (HP %d)", enemy, hp),
	}
}

func NewDrawEvent(turn, node int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("Draws %s into slot %d", cardName, slot+1),
	}
}

func NewShuffleEvent(cards int) GameEvent {
	return GameEvent{
		Scene:   "Deck",
		Node:    -1,
		Type:    EventShuffle,
		Amount:  cards,
		Details: fmt.Sprintf("Deck shuffled (%d cards)", cards),
	}
}

func NewCardPlayedEvent(turn, node int, cardName, target string) GameEvent {
	details := fmt.Sprintf("Plays %s", cardName)
	if target != "" {
		details = fmt.Sprintf("Plays %s → %s", cardName, target)
	}
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventCardPlayed,
		Card:    cardName,
		Details: details,
	}
}

func NewCardFizzledEvent(turn, node int, cardName, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventCardFizzled,
		Card:    cardName,
		Details: fmt.Sprintf("%s has no effect (%s)", cardName, reason),
	}
}

func NewDamageEvent(turn, node int, target string, amount, hpLeft int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventDamage,
		Card:    target,
		Amount:  amount,
		Details: fmt.Sprintf("%s takes %d damage (HP %d)", target, amount, hpLeft),
	}
}

func NewHealEvent(turn int, scene string, node int, target string, amount, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   scene,
		Node:    node,
		Type:    EventHeal,
		Card:    target,
		Amount:  amount,
		Details: fmt.Sprintf("%s heals %d (HP %d)", target, amount, hp),
	}
}

func NewManaSpentEvent(turn, node int, amount, left int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventManaSpent,
		Amount:  amount,
		Details: fmt.Sprintf("Spends %d mana (%d left)", amount, left),
	}
}

func NewEnemyDefeatedEvent(turn, node int, enemy string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventEnemyDefeated,
		Card:    enemy,
		Details: fmt.Sprintf("%s is defeated", enemy),
	}
}

func NewEndTurnEvent(turn, node int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventEndTurn,
		Details: "Player ends the turn",
	}
}

func NewEnemyAttackEvent(turn, node int, enemy string, damage, playerHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventEnemyAttack,
		Card:    enemy,
		Amount:  damage,
		Details: fmt.Sprintf("%s attacks for %d (player HP %d)", enemy, damage, playerHP),
	}
}

func NewEnemyHealEvent(turn, node int, enemy string, amount, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventEnemyHeal,
		Card:    enemy,
		Amount:  amount,
		Details: fmt.Sprintf("%s heals %d (HP %d)", enemy, amount, hp),
	}
}

func NewTurnResetEvent(turn, node int, mana int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventTurnReset,
		Amount:  mana,
		Details: fmt.Sprintf("=== Turn %d === mana refilled to %d", turn, mana),
	}
}

func NewDiscardEvent(turn, node int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s goes to the bottom of the deck", cardName),
	}
}

func NewCapacityExceededEvent(scene string, node int, cardName string, capacity int) GameEvent {
	return GameEvent{
		Scene:   scene,
		Node:    node,
		Type:    EventCapacityExceeded,
		Card:    cardName,
		Amount:  capacity,
		Details: fmt.Sprintf("%s does not fit in the deck (capacity %d) and is lost", cardName, capacity),
	}
}

func NewCoinsEvent(node int, amount, total int) GameEvent {
	return GameEvent{
		Scene:   "Battle",
		Node:    node,
		Type:    EventCoins,
		Amount:  amount,
		Details: fmt.Sprintf("Earns %d coins (%d total)", amount, total),
	}
}

func NewBattleWonEvent(turn, node int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventBattleWon,
		Details: "All enemies defeated",
	}
}

func NewBattleLostEvent(turn, node int, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Scene:   "Battle",
		Node:    node,
		Type:    EventBattleLost,
		Amount:  hp,
		Details: fmt.Sprintf("Player falls (HP %d)", hp),
	}
}

func NewPurchaseEvent(node int, item string, price, coinsLeft int) GameEvent {
	return GameEvent{
		Scene:   "Shop",
		Node:    node,
		Type:    EventPurchase,
		Card:    item,
		Amount:  price,
		Details: fmt.Sprintf("Buys %s for %d coins (%d left)", item, price, coinsLeft),
	}
}

func NewUnlockEvent(node int, cardName string, copies int) GameEvent {
	return GameEvent{
		Scene:   "Shop",
		Node:    node,
		Type:    EventUnlock,
		Card:    cardName,
		Amount:  copies,
		Details: fmt.Sprintf("Unlocks %s: %d added to the deck", cardName, copies),
	}
}

func NewUpgradeEvent(node int, cardName string, magnitude int) GameEvent {
	return GameEvent{
		Scene:   "Shop",
		Node:    node,
		Type:    EventUpgrade,
		Card:    cardName,
		Amount:  magnitude,
		Details: fmt.Sprintf("%s upgraded to %d", cardName, magnitude),
	}
}

func NewRefillEvent(node int, hp int) GameEvent {
	return GameEvent{
		Scene:   "Map",
		Node:    node,
		Type:    EventRefill,
		Amount:  hp,
		Details: fmt.Sprintf("Health refilled to %d", hp),
	}
}

func NewVictoryEvent(node int, coins int) GameEvent {
	return GameEvent{
		Scene:   "Victory",
		Node:    node,
		Type:    EventVictory,
		Amount:  coins,
		Details: fmt.Sprintf("VICTORY with %d coins", coins),
	}
}

func NewDefeatEvent(node int) GameEvent {
	return GameEvent{
		Scene:   "Defeat",
		Node:    node,
		Type:    EventDefeat,
		Details: fmt.Sprintf("DEFEAT (last completed node %d)", node),
	}
}

func NewRestartEvent(node int, hp int) GameEvent {
	return GameEvent{
		Scene:   "Map",
		Node:    node,
		Type:    EventRestart,
		Amount:  hp,
		Details: fmt.Sprintf("Restarting after node %d with HP %d", node, hp),
	}
}

func NewResourceFailureEvent(scene string, node int, visual string) GameEvent {
	return GameEvent{
		Scene:   scene,
		Node:    node,
		Type:    EventResourceFailure,
		Card:    visual,
		Details: fmt.Sprintf("Could not load %q, using placeholder", visual),
	}
}
