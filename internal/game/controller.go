package game

import (
	"context"

	"github.com/peterkuimelis/magicka/internal/log"
)

// Controller is the interface that terminal (TCP), browser (WebSocket) and
// AI (MCP) players implement.
type Controller interface {
	// NextKey shows the current scene and waits for one key press.
	NextKey(ctx context.Context, scene Scene) (Key, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// Scene is everything a front end needs to draw the current screen.
type Scene struct {
	RunID        string      `json:"run_id"`
	Mode         string      `json:"mode"`
	Node         int         `json:"node"`
	Player       PlayerView  `json:"player"`
	DeckCount    int         `json:"deck_count"`
	Battle       *BattleView `json:"battle,omitempty"`
	Shop         *ShopView   `json:"shop,omitempty"`
	Map          *MapView    `json:"map,omitempty"`
	Prompt       []string    `json:"prompt"`
	Placeholders []string    `json:"placeholders,omitempty"` // visuals that failed to load
}

type PlayerView struct {
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Coins   int    `json:"coins"`
	Mana    int    `json:"mana"`
	MaxMana int    `json:"max_mana"`
	Pose    string `json:"pose"`
}

// BattleView shows the hand and the roster. Empty hand slots are "".
type BattleView struct {
	State   string      `json:"state"`
	Turn    int         `json:"turn"`
	Hand    []string    `json:"hand"`
	Pending string      `json:"pending,omitempty"` // card awaiting a target
	Enemies []EnemyView `json:"enemies"`
}

type EnemyView struct {
	Kind  string `json:"kind"`
	HP    int    `json:"hp"`
	Alive bool   `json:"alive"`
	Pose  string `json:"pose"`
}

type ShopView struct {
	Offers []OfferView `json:"offers"`
}

// OfferView is one purchasable shop slot. Key is the digit that buys it.
type OfferView struct {
	Key        int    `json:"key"`
	Name       string `json:"name"`
	Action     string `json:"action"` // "Unlock", "Upgrade" or "Buy"
	Price      int    `json:"price"`
	Affordable bool   `json:"affordable"`
}

type MapView struct {
	Current int        `json:"current"`
	Nodes   []NodeView `json:"nodes"`
}

type NodeView struct {
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Active  bool   `json:"active"`
	Visited bool   `json:"visited"`
}

func playerView(p *Player) PlayerView {
	return PlayerView{
		HP:      p.HP,
		MaxHP:   p.MaxHP,
		Coins:   p.Coins,
		Mana:    p.Mana,
		MaxMana: p.MaxMana,
		Pose:    p.Pose.String(),
	}
}
