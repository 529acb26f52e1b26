package game

import (
	"math/rand/v2"

	"github.com/peterkuimelis/magicka/internal/config"
)

// Enemy is one roster entry. Death is terminal: once Alive is false it
// stays false for the lifetime of the instance.
type Enemy struct {
	Kind  EnemyKind
	HP    int
	Alive bool
	Pose  Pose

	maxHit     int // Captain/Boss damage roll upper bound, inclusive
	healAmount int // Boss only
	healChance int // Boss only, out of 6
}

// NewEnemy creates an enemy of the given kind with the balance's stats.
func NewEnemy(kind EnemyKind, b config.EnemyBalance) *Enemy {
	e := &Enemy{Kind: kind, Alive: true}
	switch kind {
	case EnemyCronie:
		e.HP = b.CronieHP
		e.maxHit = 1
	case EnemyCaptain:
		e.HP = b.CaptainHP
		e.maxHit = b.CaptainMaxHit
	case EnemyBoss:
		e.HP = b.BossHP
		e.maxHit = b.BossMaxHit
		e.healAmount = b.BossHealAmount
		e.healChance = b.BossHealChance
	}
	return e
}

func (e *Enemy) String() string {
	return e.Kind.String()
}

// TakeDamage removes HP; at 0 or below the enemy dies.
func (e *Enemy) TakeDamage(n int) {
	e.HP -= n
	if e.HP <= 0 {
		e.Alive = false
		e.Pose = PoseDying
	}
}

// Attack strikes the player and returns the damage dealt.
//
// A Cronie always deals exactly 1 through Player.DecHP, which skips the
// dying-pose transition and can push HP below zero.
func (e *Enemy) Attack(p *Player, rng *rand.Rand) int {
	e.Pose = PoseAttacking
	switch e.Kind {
	case EnemyCronie:
		p.DecHP()
		return 1
	default:
		dmg := rng.IntN(e.maxHit + 1)
		p.TakeDamage(dmg)
		return dmg
	}
}

// Heal gives a Boss a chance to restore HP, uncapped. It returns the amount
// healed, 0 when the roll fails or the enemy cannot heal.
func (e *Enemy) Heal(rng *rand.Rand) int {
	if e.Kind != EnemyBoss || !e.Alive {
		return 0
	}
	// Roll 0-5; the top healChance faces succeed.
	if rng.IntN(6) < 6-e.healChance {
		return 0
	}
	e.HP += e.healAmount
	e.Pose = PoseHealing
	return e.healAmount
}

// Reward returns the coins this enemy is worth.
func (e *Enemy) Reward(b config.RewardBalance) int {
	switch e.Kind {
	case EnemyCronie:
		return b.Cronie
	case EnemyCaptain:
		return b.Captain
	case EnemyBoss:
		return b.Boss
	default:
		return 0
	}
}
