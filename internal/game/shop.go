package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/magicka/internal/log"
)

// Shop slots, in key order. The first five sell cards (CardKinds order),
// the last three sell stats.
const (
	ShopSlotCards   = 5
	ShopSlotRefill  = 5
	ShopSlotMaxHP   = 6
	ShopSlotMaxMana = 7
	ShopSlotCount   = 8
)

var statNames = [3]string{"Refill HP", "Increase HP", "Increase Mana"}

// Shop is the run's price book. Prices and unlocks last for the whole run,
// so a locked slot can only be unlocked once.
type Shop struct {
	s          *Session
	cardPrices [ShopSlotCards]int
	unlocked   [ShopSlotCards]bool
	statPrices [3]int
	visuals    visualSet
}

func newShop(s *Session) *Shop {
	sh := &Shop{
		s:          s,
		cardPrices: s.Balance.Shop.CardPrices,
		statPrices: s.Balance.Shop.StatPrices,
	}
	for i, k := range CardKinds {
		sh.unlocked[i] = NewCard(k).Unlocked
	}
	return sh
}

// Price returns the current price of a slot (0-7).
func (sh *Shop) Price(slot int) int {
	switch {
	case slot >= 0 && slot < ShopSlotCards:
		return sh.cardPrices[slot]
	case slot >= ShopSlotRefill && slot < ShopSlotCount:
		return sh.statPrices[slot-ShopSlotRefill]
	default:
		return 0
	}
}

// Unlocked reports whether the card in a slot is owned.
func (sh *Shop) Unlocked(kind CardKind) bool {
	for i, k := range CardKinds {
		if k == kind {
			return sh.unlocked[i]
		}
	}
	return false
}

// Select buys slot 0-7. Unknown slots and insufficient coins are silent
// no-ops; it reports whether anything was bought.
func (sh *Shop) Select(slot int) bool {
	if slot < 0 || slot >= ShopSlotCount {
		return false
	}
	price := sh.Price(slot)
	if !sh.s.Player.CanAfford(price) {
		return false
	}
	if slot < ShopSlotCards {
		return sh.buyCard(slot, price)
	}
	sh.buyStat(slot, price)
	return true
}

func (sh *Shop) buyCard(slot, price int) bool {
	s := sh.s
	kind := CardKinds[slot]
	if sh.unlocked[slot] {
		if !s.Arsenal.Upgrade(kind) {
			// Magicka has nothing to upgrade once owned.
			return false
		}
		s.Player.Buy(price)
		sh.cardPrices[slot] += s.Balance.Shop.CardPriceStep
		s.log(log.NewPurchaseEvent(s.node, "Upgrade "+kind.String(), price, s.Player.Coins))
		s.log(log.NewUpgradeEvent(s.node, kind.String(), s.Arsenal.Magnitude(kind)))
		return true
	}

	s.Player.Buy(price)
	sh.unlocked[slot] = true
	sh.cardPrices[slot] += s.Balance.Shop.CardPriceStep
	copies := s.Balance.Shop.UnlockCopies
	if kind == CardMagicka {
		copies = s.Balance.Shop.MagickaCopies
	}
	s.log(log.NewPurchaseEvent(s.node, "Unlock "+kind.String(), price, s.Player.Coins))
	added := s.addCards("Shop", kind, copies)
	s.log(log.NewUnlockEvent(s.node, kind.String(), added))
	return true
}

func (sh *Shop) buyStat(slot, price int) {
	s := sh.s
	b := s.Balance.Shop
	stat := slot - ShopSlotRefill
	s.Player.Buy(price)
	sh.statPrices[stat] += b.StatPriceSteps[stat]
	s.log(log.NewPurchaseEvent(s.node, statNames[stat], price, s.Player.Coins))

	switch slot {
	case ShopSlotRefill:
		healed := s.Player.RefillHP()
		s.log(log.NewHealEvent(0, "Shop", s.node, "Player", healed, s.Player.HP))
	case ShopSlotMaxHP:
		s.Player.SetMaxHP(s.Player.MaxHP + b.MaxHPRaise)
		before := s.Player.HP
		s.Player.Heal(b.MaxHPRaise)
		s.log(log.NewHealEvent(0, "Shop", s.node, "Player", s.Player.HP-before, s.Player.HP))
	case ShopSlotMaxMana:
		s.Player.IncreaseMaxMana(b.MaxManaRaise)
	}
}

// Offers lists every slot with its label and current price.
func (sh *Shop) Offers() []OfferView {
	offers := make([]OfferView, 0, ShopSlotCount)
	for i, k := range CardKinds {
		action := "Unlock"
		if sh.unlocked[i] {
			action = "Upgrade"
		}
		offers = append(offers, OfferView{
			Key:        i + 1,
			Name:       k.String(),
			Action:     action,
			Price:      sh.cardPrices[i],
			Affordable: sh.s.Player.CanAfford(sh.cardPrices[i]),
		})
	}
	for i, name := range statNames {
		offers = append(offers, OfferView{
			Key:        ShopSlotRefill + i + 1,
			Name:       name,
			Action:     "Buy",
			Price:      sh.statPrices[i],
			Affordable: sh.s.Player.CanAfford(sh.statPrices[i]),
		})
	}
	return offers
}

// Scene renders the shop for the controller.
func (sh *Shop) Scene() Scene {
	sc := sh.s.scene(ModeShop)
	offers := sh.Offers()
	sc.Shop = &ShopView{Offers: offers}
	sc.Placeholders = sh.visuals.placeholders()
	sc.Prompt = append(sc.Prompt, fmt.Sprintf("Coins: %d", sh.s.Player.Coins))
	for _, o := range offers {
		line := fmt.Sprintf("%d: %s %s (%d coins)", o.Key, o.Action, o.Name, o.Price)
		if o.Name == CardMagicka.String() && o.Action == "Upgrade" {
			line = fmt.Sprintf("%d: %s (owned)", o.Key, o.Name)
		} else if !o.Affordable {
			line += " - not enough coins"
		}
		sc.Prompt = append(sc.Prompt, line)
	}
	sc.Prompt = append(sc.Prompt, "Esc: leave the shop")
	return sc
}

// Run lets the player shop until they leave. It reports closed when the
// window was closed instead.
func (sh *Shop) Run(ctx context.Context) (closed bool, err error) {
	s := sh.s
	s.bind(ctx)
	visuals := []Visual{VisualFont, VisualShopBG, VisualShopFrame}
	for _, k := range CardKinds {
		visuals = append(visuals, cardVisual(k))
	}
	sh.visuals = s.loadVisuals("Shop", visuals...)

	for {
		key, err := s.nextKey(ctx, sh.Scene())
		if err != nil {
			return true, fmt.Errorf("shop: %w", err)
		}
		switch {
		case key == KeyClose:
			return true, nil
		case key == KeyEscape || key == KeyEnter:
			return false, nil
		case key.Digit() > 0:
			sh.Select(key.Digit() - 1)
		}
	}
}
