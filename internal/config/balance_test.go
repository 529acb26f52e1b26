package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	data := []byte(`
player:
  hp: 40
cards:
  slash_attack: 5
battle:
  attack_delay: 50ms
starting_deck:
  - kind: slash
    count: 6
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	b, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, b.Player.HP)
	assert.Equal(t, 100, b.Player.Coins, "unset keys keep their defaults")
	assert.Equal(t, 5, b.Cards.SlashAttack)
	assert.Equal(t, 2, b.Cards.HealAmount)
	assert.Equal(t, 50*time.Millisecond, b.Battle.AttackDelay)
	assert.Equal(t, []DeckEntry{{Kind: "slash", Count: 6}}, b.Deck)
}

func TestLoadRejectsInvalidBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enemies:\n  captain_chance: 150\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "captain_chance")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing balance")
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestShippedBalanceMatchesDefault(t *testing.T) {
	path := filepath.Join("..", "..", "balance.yaml")
	_, err := os.Stat(path)
	require.NoError(t, err)

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}
