package game

import "fmt"

const (
	MaxDeckSize  = 25
	HandSize     = 4
	MaxRosterLen = 4
	NodeCount    = 9
	FinalNode    = NodeCount - 1
)

// --- Enums ---

type CardKind int

const (
	CardSlash CardKind = iota
	CardHeal
	CardDrain
	CardInquisition
	CardMagicka
)

// CardKinds lists every card kind in shop order.
var CardKinds = []CardKind{CardSlash, CardHeal, CardInquisition, CardDrain, CardMagicka}

func (k CardKind) String() string {
	switch k {
	case CardSlash:
		return "Slash"
	case CardHeal:
		return "Heal"
	case CardDrain:
		return "Drain"
	case CardInquisition:
		return "Inquisition"
	case CardMagicka:
		return "Magicka"
	default:
		return "Unknown"
	}
}

// IsAOE reports whether cards of this kind hit the whole roster.
func (k CardKind) IsAOE() bool {
	return k == CardInquisition || k == CardMagicka
}

// ParseCardKind maps a balance-file name ("slash", "Heal", ...) to a kind.
func ParseCardKind(name string) (CardKind, error) {
	switch name {
	case "slash", "Slash":
		return CardSlash, nil
	case "heal", "Heal":
		return CardHeal, nil
	case "drain", "Drain":
		return CardDrain, nil
	case "inquisition", "Inquisition":
		return CardInquisition, nil
	case "magicka", "Magicka":
		return CardMagicka, nil
	default:
		return 0, fmt.Errorf("unknown card kind %q", name)
	}
}

type EnemyKind int

const (
	EnemyCronie EnemyKind = iota
	EnemyCaptain
	EnemyBoss
)

func (k EnemyKind) String() string {
	switch k {
	case EnemyCronie:
		return "Cronie"
	case EnemyCaptain:
		return "Captain"
	case EnemyBoss:
		return "Boss"
	default:
		return "Unknown"
	}
}

// Pose is the display state of a combatant.
type Pose int

const (
	PoseStanding Pose = iota
	PoseAttacking
	PoseDying
	PoseHealing
)

func (p Pose) String() string {
	switch p {
	case PoseAttacking:
		return "attacking"
	case PoseDying:
		return "dying"
	case PoseHealing:
		return "healing"
	default:
		return "standing"
	}
}

type BattleState int

const (
	StateSelectCard BattleState = iota
	StateSelectEnemy
	StateProcessing
)

func (s BattleState) String() string {
	switch s {
	case StateSelectCard:
		return "Select Card"
	case StateSelectEnemy:
		return "Select Enemy"
	case StateProcessing:
		return "Processing"
	default:
		return "Unknown"
	}
}

type NodeType int

const (
	NodeBattle NodeType = iota
	NodeShop
	NodeRefill
)

func (t NodeType) String() string {
	switch t {
	case NodeBattle:
		return "Battle"
	case NodeShop:
		return "Shop"
	case NodeRefill:
		return "Refill Health"
	default:
		return "Unknown"
	}
}

// Mode is the screen the run is currently on.
type Mode int

const (
	ModeTitle Mode = iota
	ModeMap
	ModeBattle
	ModeShop
	ModeVictory
	ModeDefeat
)

func (m Mode) String() string {
	switch m {
	case ModeTitle:
		return "Title"
	case ModeMap:
		return "Map"
	case ModeBattle:
		return "Battle"
	case ModeShop:
		return "Shop"
	case ModeVictory:
		return "Victory"
	case ModeDefeat:
		return "Defeat"
	default:
		return "Unknown"
	}
}

// --- Input ---

// Key is a single debounced key press.
type Key int

const (
	KeyNone Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	KeyEnter
	KeyEscape
	KeyClose // window closed
)

func (k Key) String() string {
	switch {
	case k >= Key1 && k <= Key8:
		return fmt.Sprintf("%d", k.Digit())
	case k == KeyEnter:
		return "enter"
	case k == KeyEscape:
		return "escape"
	case k == KeyClose:
		return "close"
	default:
		return "none"
	}
}

// Digit returns 1-8 for digit keys and 0 otherwise.
func (k Key) Digit() int {
	if k >= Key1 && k <= Key8 {
		return int(k-Key1) + 1
	}
	return 0
}

// DigitKey returns the key for digit n (1-8), or KeyNone.
func DigitKey(n int) Key {
	if n < 1 || n > 8 {
		return KeyNone
	}
	return Key1 + Key(n-1)
}

// ParseKey maps the text form used by the transports ("1", "enter", "esc") to a key.
func ParseKey(s string) (Key, error) {
	switch s {
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return DigitKey(int(s[0] - '0')), nil
	case "enter", "Enter", "ENTER", "":
		return KeyEnter, nil
	case "esc", "escape", "Escape", "ESC":
		return KeyEscape, nil
	case "close", "quit", "q":
		return KeyClose, nil
	default:
		return KeyNone, fmt.Errorf("unknown key %q", s)
	}
}
