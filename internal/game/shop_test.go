package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/magicka/internal/log"
)

func TestShopStartingPrices(t *testing.T) {
	s, _ := newTestSession(t, nil)
	want := []int{50, 50, 100, 100, 200, 20, 50, 50}
	for slot, price := range want {
		assert.Equal(t, price, s.Shop.Price(slot), "slot %d", slot)
	}
	assert.True(t, s.Shop.Unlocked(CardSlash))
	assert.True(t, s.Shop.Unlocked(CardHeal))
	assert.False(t, s.Shop.Unlocked(CardInquisition))
	assert.False(t, s.Shop.Unlocked(CardDrain))
	assert.False(t, s.Shop.Unlocked(CardMagicka))
}

func TestShopUpgradeOwnedCard(t *testing.T) {
	s, logger := newTestSession(t, nil)

	require.True(t, s.Shop.Select(0))
	assert.Equal(t, 50, s.Player.Coins)
	assert.Equal(t, 4, s.Arsenal.SlashAttack)
	assert.Equal(t, 75, s.Shop.Price(0))
	assert.Equal(t, 6, s.Deck.Len(), "upgrades add no cards")

	up := logger.EventsOfType(log.EventUpgrade)
	require.Len(t, up, 1)
	assert.Equal(t, "Slash", up[0].Card)
	assert.Equal(t, 4, up[0].Amount)
}

func TestShopInsufficientCoinsIsNoop(t *testing.T) {
	s, logger := newTestSession(t, nil)
	s.Player.Coins = 40

	for slot := 0; slot < ShopSlotCount; slot++ {
		if s.Shop.Price(slot) > 40 {
			assert.False(t, s.Shop.Select(slot), "slot %d", slot)
		}
	}
	assert.Equal(t, 40, s.Player.Coins)
	assert.Equal(t, 6, s.Deck.Len())
	assert.Empty(t, logger.EventsOfType(log.EventPurchase))
}

func TestShopUnlockThenUpgrade(t *testing.T) {
	s, logger := newTestSession(t, nil)

	require.True(t, s.Shop.Select(2))
	assert.Zero(t, s.Player.Coins)
	assert.True(t, s.Shop.Unlocked(CardInquisition))
	assert.Equal(t, 4, s.Deck.Count(CardInquisition))
	assert.Equal(t, 10, s.Deck.Len())
	assert.Equal(t, 125, s.Shop.Price(2))
	assert.Equal(t, 2, s.Arsenal.InquisitionAttack, "unlocking does not upgrade")

	unlocks := logger.EventsOfType(log.EventUnlock)
	require.Len(t, unlocks, 1)
	assert.Equal(t, 4, unlocks[0].Amount)

	s.Player.Coins = 125
	require.True(t, s.Shop.Select(2))
	assert.Equal(t, 3, s.Arsenal.InquisitionAttack)
	assert.Equal(t, 4, s.Deck.Count(CardInquisition))
	assert.Equal(t, 150, s.Shop.Price(2))
}

func TestShopMagickaOnlyOnce(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Player.Coins = 1000

	require.True(t, s.Shop.Select(4))
	assert.Equal(t, 800, s.Player.Coins)
	assert.Equal(t, 1, s.Deck.Count(CardMagicka))

	assert.False(t, s.Shop.Select(4))
	assert.Equal(t, 800, s.Player.Coins)
	assert.Equal(t, 1, s.Deck.Count(CardMagicka))
}

func TestShopUnlockOverflowDropsCards(t *testing.T) {
	s, logger := newTestSession(t, nil)
	for s.Deck.Len() < MaxDeckSize-2 {
		require.True(t, s.Deck.AddCard(NewCard(CardSlash)))
	}

	require.True(t, s.Shop.Select(3))
	assert.Equal(t, MaxDeckSize, s.Deck.Len())
	assert.Equal(t, 2, s.Deck.Count(CardDrain))
	assert.Zero(t, s.Player.Coins, "coins are spent even when cards are lost")
	assert.Len(t, logger.EventsOfType(log.EventCapacityExceeded), 2)
}

func TestShopStatUpgrades(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Player.Coins = 1000
	s.Player.TakeDamage(15)

	require.True(t, s.Shop.Select(ShopSlotRefill))
	assert.Equal(t, 25, s.Player.HP)
	assert.Equal(t, 30, s.Shop.Price(ShopSlotRefill))

	s.Player.TakeDamage(10)
	require.True(t, s.Shop.Select(ShopSlotMaxHP))
	assert.Equal(t, 30, s.Player.MaxHP)
	assert.Equal(t, 20, s.Player.HP)
	assert.Equal(t, 70, s.Shop.Price(ShopSlotMaxHP))

	require.True(t, s.Shop.Select(ShopSlotMaxMana))
	assert.Equal(t, 6, s.Player.MaxMana)
	assert.Equal(t, 75, s.Shop.Price(ShopSlotMaxMana))

	assert.Equal(t, 1000-20-50-50, s.Player.Coins)
	assert.False(t, s.Shop.Select(ShopSlotCount))
}

func TestShopRun(t *testing.T) {
	ctrl := NewScriptedController(t).Digits(1, 2).Press(KeyEscape)
	s, _ := newTestSession(t, ctrl)

	closed, err := s.Shop.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Zero(t, s.Player.Coins)
	assert.Equal(t, 4, s.Arsenal.SlashAttack)
	assert.Equal(t, 3, s.Arsenal.HealAmount)

	first := ctrl.scenes[0]
	require.NotNil(t, first.Shop)
	require.Len(t, first.Shop.Offers, ShopSlotCount)
	assert.Equal(t, "Unlock", first.Shop.Offers[2].Action)
	assert.Contains(t, first.Prompt, "1: Upgrade Slash (50 coins)")
	assert.Contains(t, first.Prompt, "5: Unlock Magicka (200 coins) - not enough coins")

	closed, err = s.Shop.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, closed, "an exhausted script closes the window")
}

func TestShopResetsWithRun(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.True(t, s.Shop.Select(0))
	require.NoError(t, s.Reset())
	assert.Equal(t, 50, s.Shop.Price(0))
	assert.Equal(t, 3, s.Arsenal.SlashAttack)
	assert.Equal(t, 100, s.Player.Coins)
}
