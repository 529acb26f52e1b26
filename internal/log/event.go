package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventRunStart EventType = iota
	EventNodeEnter
	EventBattleStart
	EventEnemyDeployed
	EventDraw
	EventShuffle
	EventCardPlayed
	EventCardFizzled // played with no effect (no living target, Magicka spent)
	EventDamage
	EventHeal
	EventManaSpent
	EventEnemyDefeated
	EventEndTurn
	EventEnemyAttack
	EventEnemyHeal
	EventTurnReset
	EventDiscard
	EventCapacityExceeded
	EventCoins
	EventBattleWon
	EventBattleLost
	EventPurchase
	EventUnlock
	EventUpgrade
	EventRefill
	EventVictory
	EventDefeat
	EventRestart
	EventResourceFailure
)

func (e EventType) String() string {
	switch e {
	case EventRunStart:
		return "RunStart"
	case EventNodeEnter:
		return "NodeEnter"
	case EventBattleStart:
		return "BattleStart"
	case EventEnemyDeployed:
		return "EnemyDeployed"
	case EventDraw:
		return "Draw"
	case EventShuffle:
		return "Shuffle"
	case EventCardPlayed:
		return "CardPlayed"
	case EventCardFizzled:
		return "CardFizzled"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventManaSpent:
		return "ManaSpent"
	case EventEnemyDefeated:
		return "EnemyDefeated"
	case EventEndTurn:
		return "EndTurn"
	case EventEnemyAttack:
		return "EnemyAttack"
	case EventEnemyHeal:
		return "EnemyHeal"
	case EventTurnReset:
		return "TurnReset"
	case EventDiscard:
		return "Discard"
	case EventCapacityExceeded:
		return "CapacityExceeded"
	case EventCoins:
		return "Coins"
	case EventBattleWon:
		return "BattleWon"
	case EventBattleLost:
		return "BattleLost"
	case EventPurchase:
		return "Purchase"
	case EventUnlock:
		return "Unlock"
	case EventUpgrade:
		return "Upgrade"
	case EventRefill:
		return "Refill"
	case EventVictory:
		return "Victory"
	case EventDefeat:
		return "Defeat"
	case EventRestart:
		return "Restart"
	case EventResourceFailure:
		return "ResourceFailure"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a run.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // battle turn (1-based), 0 outside battle
	Scene   string    // "Map", "Battle", "Shop", ...
	Node    int       // map node the event happened at, -1 before the first
	Type    EventType // event type
	Card    string    // card or enemy name (if applicable)
	Amount  int       // damage, healing, coins, price (if applicable)
	Details string    // human-readable detail string
}
