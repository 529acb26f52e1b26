package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Balance holds every tunable number of a run.
type Balance struct {
	Player  PlayerBalance `yaml:"player"`
	Cards   CardBalance   `yaml:"cards"`
	Enemies EnemyBalance  `yaml:"enemies"`
	Rewards RewardBalance `yaml:"rewards"`
	Shop    ShopBalance   `yaml:"shop"`
	Battle  BattleBalance `yaml:"battle"`
	Deck    []DeckEntry   `yaml:"starting_deck"`
}

// PlayerBalance is the player's starting stat line.
type PlayerBalance struct {
	HP    int `yaml:"hp"`
	Coins int `yaml:"coins"`
	Mana  int `yaml:"mana"`
}

// CardBalance holds the starting per-kind card magnitudes.
type CardBalance struct {
	SlashAttack       int `yaml:"slash_attack"`
	HealAmount        int `yaml:"heal_amount"`
	DrainAttack       int `yaml:"drain_attack"`
	DrainHeal         int `yaml:"drain_heal"`
	InquisitionAttack int `yaml:"inquisition_attack"`
	MagickaDamage     int `yaml:"magicka_damage"`
	ManaCost          int `yaml:"mana_cost"`
}

// EnemyBalance holds enemy hit points and attack ranges.
type EnemyBalance struct {
	CronieHP  int `yaml:"cronie_hp"`
	CaptainHP int `yaml:"captain_hp"`
	BossHP    int `yaml:"boss_hp"`

	// Highest damage roll, inclusive.
	CaptainMaxHit int `yaml:"captain_max_hit"`
	BossMaxHit    int `yaml:"boss_max_hit"`

	BossHealAmount int `yaml:"boss_heal_amount"`
	BossHealChance int `yaml:"boss_heal_chance"` // out of 6
	CaptainChance  int `yaml:"captain_chance"`   // percent, per rolled slot
}

// RewardBalance holds the coins paid out when a battle is won.
type RewardBalance struct {
	Cronie  int `yaml:"cronie"`
	Captain int `yaml:"captain"`
	Boss    int `yaml:"boss"`
	Victory int `yaml:"victory"`
}

// ShopBalance holds shop prices and how they grow.
type ShopBalance struct {
	// Slash, Heal, Inquisition, Drain, Magicka
	CardPrices    [5]int `yaml:"card_prices"`
	CardPriceStep int    `yaml:"card_price_step"`
	UnlockCopies  int    `yaml:"unlock_copies"`
	MagickaCopies int    `yaml:"magicka_copies"`

	// Refill HP, Increase HP, Increase Mana
	StatPrices     [3]int `yaml:"stat_prices"`
	StatPriceSteps [3]int `yaml:"stat_price_steps"`
	MaxHPRaise     int    `yaml:"max_hp_raise"`
	MaxManaRaise   int    `yaml:"max_mana_raise"`
}

// BattleBalance holds pacing knobs for the enemy turn.
type BattleBalance struct {
	AttackDelay time.Duration `yaml:"attack_delay"`
}

// DeckEntry is a card kind and how many copies the starting deck holds.
type DeckEntry struct {
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count"`
}

// Default returns the standard balance.
func Default() Balance {
	return Balance{
		Player: PlayerBalance{
			HP:    25,
			Coins: 100,
			Mana:  5,
		},
		Cards: CardBalance{
			SlashAttack:       3,
			HealAmount:        2,
			DrainAttack:       2,
			DrainHeal:         1,
			InquisitionAttack: 2,
			MagickaDamage:     20,
			ManaCost:          1,
		},
		Enemies: EnemyBalance{
			CronieHP:       5,
			CaptainHP:      7,
			BossHP:         15,
			CaptainMaxHit:  2,
			BossMaxHit:     4,
			BossHealAmount: 2,
			BossHealChance: 3,
			CaptainChance:  25,
		},
		Rewards: RewardBalance{
			Cronie:  15,
			Captain: 25,
			Boss:    50,
			Victory: 50,
		},
		Shop: ShopBalance{
			CardPrices:     [5]int{50, 50, 100, 100, 200},
			CardPriceStep:  25,
			UnlockCopies:   4,
			MagickaCopies:  1,
			StatPrices:     [3]int{20, 50, 50},
			StatPriceSteps: [3]int{10, 20, 25},
			MaxHPRaise:     5,
			MaxManaRaise:   1,
		},
		Battle: BattleBalance{
			AttackDelay: 300 * time.Millisecond,
		},
		Deck: []DeckEntry{
			{Kind: "slash", Count: 4},
			{Kind: "heal", Count: 2},
		},
	}
}

// Load reads a balance file on top of the defaults.
// A missing file is not an error.
func Load(path string) (Balance, error) {
	b := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return b, fmt.Errorf("reading balance %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("parsing balance %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("balance %s: %w", path, err)
	}

	return b, nil
}

// Validate rejects values the game cannot run with.
func (b Balance) Validate() error {
	if b.Player.HP <= 0 {
		return fmt.Errorf("player.hp must be positive, got %d", b.Player.HP)
	}
	if b.Player.Mana < 0 {
		return fmt.Errorf("player.mana must not be negative, got %d", b.Player.Mana)
	}
	if b.Cards.ManaCost < 0 {
		return fmt.Errorf("cards.mana_cost must not be negative, got %d", b.Cards.ManaCost)
	}
	if b.Enemies.CronieHP <= 0 || b.Enemies.CaptainHP <= 0 || b.Enemies.BossHP <= 0 {
		return fmt.Errorf("enemy hit points must be positive")
	}
	if b.Enemies.CaptainMaxHit < 0 || b.Enemies.BossMaxHit < 0 {
		return fmt.Errorf("enemy max hits must not be negative")
	}
	if b.Enemies.CaptainChance < 0 || b.Enemies.CaptainChance > 100 {
		return fmt.Errorf("enemies.captain_chance must be within 0-100, got %d", b.Enemies.CaptainChance)
	}
	if b.Enemies.BossHealChance < 0 || b.Enemies.BossHealChance > 6 {
		return fmt.Errorf("enemies.boss_heal_chance must be within 0-6, got %d", b.Enemies.BossHealChance)
	}
	if b.Battle.AttackDelay < 0 {
		return fmt.Errorf("battle.attack_delay must not be negative")
	}
	for _, e := range b.Deck {
		if e.Count < 0 {
			return fmt.Errorf("starting_deck: negative count for %q", e.Kind)
		}
	}
	return nil
}
