package game

import "github.com/peterkuimelis/magicka/internal/config"

// Card is a single owned card. Its strength is not stored on the card:
// every card of a kind reads the same magnitude from the run's Arsenal.
type Card struct {
	Kind     CardKind
	AOE      bool
	Unlocked bool
}

// NewCard creates a card of the given kind.
func NewCard(kind CardKind) *Card {
	return &Card{
		Kind:     kind,
		AOE:      kind.IsAOE(),
		Unlocked: kind == CardSlash || kind == CardHeal,
	}
}

func (c *Card) String() string {
	if c == nil {
		return "(empty)"
	}
	return c.Kind.String()
}

// Arsenal holds the per-kind magnitudes shared by all cards of a run,
// plus the once-per-battle Magicka flag.
type Arsenal struct {
	SlashAttack       int
	HealAmount        int
	DrainAttack       int
	DrainHeal         int
	InquisitionAttack int
	MagickaDamage     int

	magickaUsed bool
}

// NewArsenal creates an arsenal with the balance's starting magnitudes.
func NewArsenal(b config.CardBalance) *Arsenal {
	return &Arsenal{
		SlashAttack:       b.SlashAttack,
		HealAmount:        b.HealAmount,
		DrainAttack:       b.DrainAttack,
		DrainHeal:         b.DrainHeal,
		InquisitionAttack: b.InquisitionAttack,
		MagickaDamage:     b.MagickaDamage,
	}
}

// Upgrade permanently raises the magnitude of every card of the kind.
// Magicka cannot be upgraded.
func (a *Arsenal) Upgrade(kind CardKind) bool {
	switch kind {
	case CardSlash:
		a.SlashAttack++
	case CardHeal:
		a.HealAmount++
	case CardDrain:
		a.DrainAttack++
		a.DrainHeal++
	case CardInquisition:
		a.InquisitionAttack++
	default:
		return false
	}
	return true
}

// Magnitude returns the headline number of a kind (damage, or healing for Heal).
func (a *Arsenal) Magnitude(kind CardKind) int {
	switch kind {
	case CardSlash:
		return a.SlashAttack
	case CardHeal:
		return a.HealAmount
	case CardDrain:
		return a.DrainAttack
	case CardInquisition:
		return a.InquisitionAttack
	case CardMagicka:
		return a.MagickaDamage
	default:
		return 0
	}
}

// MagickaUsed reports whether Magicka was cast since the last reset.
func (a *Arsenal) MagickaUsed() bool {
	return a.magickaUsed
}

// ResetMagicka makes Magicka playable again.
func (a *Arsenal) ResetMagicka() {
	a.magickaUsed = false
}

// Play applies the card's effect. It never fails: with no valid target
// it does nothing.
func (c *Card) Play(a *Arsenal, p *Player, targets []*Enemy) {
	switch c.Kind {
	case CardSlash:
		if e := firstAlive(targets); e != nil {
			e.TakeDamage(a.SlashAttack)
		}
	case CardHeal:
		p.Heal(a.HealAmount)
	case CardDrain:
		if e := firstAlive(targets); e != nil {
			e.TakeDamage(a.DrainAttack)
			p.Heal(a.DrainHeal)
		}
	case CardInquisition:
		for _, e := range targets {
			if e != nil && e.Alive {
				e.TakeDamage(a.InquisitionAttack)
			}
		}
	case CardMagicka:
		if a.magickaUsed {
			return
		}
		for _, e := range targets {
			if e != nil && e.Alive {
				e.TakeDamage(a.MagickaDamage)
			}
		}
		a.magickaUsed = true
	}
}

func firstAlive(enemies []*Enemy) *Enemy {
	for _, e := range enemies {
		if e != nil && e.Alive {
			return e
		}
	}
	return nil
}
