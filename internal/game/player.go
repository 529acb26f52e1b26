package game

import "github.com/peterkuimelis/magicka/internal/config"

// Player holds the run's persistent stats.
type Player struct {
	HP      int
	MaxHP   int
	Coins   int
	Mana    int
	MaxMana int

	// Temporary power boost. Kept in state; no card uses it yet.
	PowerBoost    int
	PowerDuration int

	Pose Pose
}

// NewPlayer creates a player with the balance's starting stats.
func NewPlayer(b config.PlayerBalance) *Player {
	return &Player{
		HP:      b.HP,
		MaxHP:   b.HP,
		Coins:   b.Coins,
		Mana:    b.Mana,
		MaxMana: b.Mana,
	}
}

// Alive reports whether the player still has HP.
func (p *Player) Alive() bool {
	return p.HP > 0
}

// TakeDamage removes HP and switches to the dying pose at 0.
func (p *Player) TakeDamage(n int) {
	p.HP -= n
	if p.HP <= 0 {
		p.Pose = PoseDying
	}
}

// DecHP removes a single HP with no clamp and no pose change.
// HP can go negative; Alive still reports correctly.
func (p *Player) DecHP() {
	p.HP--
}

// Heal restores HP up to MaxHP.
func (p *Player) Heal(n int) {
	p.HP += n
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// RefillHP heals the player to full and returns the amount restored.
func (p *Player) RefillHP() int {
	missing := p.MaxHP - p.HP
	if missing < 0 {
		missing = 0
	}
	p.Heal(missing)
	if p.Alive() {
		p.Pose = PoseStanding
	}
	return missing
}

func (p *Player) SpendMana(n int) {
	p.Mana -= n
}

func (p *Player) ResetMana() {
	p.Mana = p.MaxMana
}

func (p *Player) AddCoins(n int) {
	p.Coins += n
}

// Buy deducts a price. Callers check CanAfford first.
func (p *Player) Buy(price int) {
	p.Coins -= price
}

func (p *Player) CanAfford(price int) bool {
	return p.Coins >= price
}

func (p *Player) SetMaxHP(n int) {
	p.MaxHP = n
}

func (p *Player) IncreaseMaxMana(n int) {
	p.MaxMana += n
}

func (p *Player) SetPowerBoost(n int) {
	p.PowerBoost = n
}

func (p *Player) SetPowerDuration(n int) {
	p.PowerDuration = n
}

func (p *Player) DecrementPowerDuration() {
	if p.PowerDuration > 0 {
		p.PowerDuration--
	}
}
