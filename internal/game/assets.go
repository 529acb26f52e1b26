package game

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/peterkuimelis/magicka/internal/log"
)

// Visual names an image or font the presentation layer can supply.
type Visual string

const (
	VisualFont        Visual = "font"
	VisualPlayer      Visual = "player"
	VisualCronie      Visual = "cronie"
	VisualCaptain     Visual = "captain"
	VisualBoss        Visual = "boss"
	VisualCardBack    Visual = "card_back"
	VisualBattleBG    Visual = "battle_background"
	VisualShopBG      Visual = "shop_background"
	VisualShopFrame   Visual = "shop_frame"
	VisualSlash       Visual = "card_slash"
	VisualHeal        Visual = "card_heal"
	VisualDrain       Visual = "card_drain"
	VisualInquisition Visual = "card_inquisition"
	VisualMagicka     Visual = "card_magicka"
)

// ErrNoAsset is returned by asset providers that have nothing for a visual.
var ErrNoAsset = errors.New("asset not available")

// Handle is an opaque reference to a loaded visual.
type Handle struct {
	Visual      Visual
	Placeholder bool
	Data        any
}

// Placeholder returns the stand-in used when a visual fails to load.
func Placeholder(v Visual) Handle {
	return Handle{Visual: v, Placeholder: true}
}

// Assets loads visuals for the presentation layer.
type Assets interface {
	Load(v Visual) (Handle, error)
}

// HeadlessAssets satisfies every load with an empty handle. Used by the
// terminal, web and MCP front ends, which draw from the Scene instead.
type HeadlessAssets struct{}

func (HeadlessAssets) Load(v Visual) (Handle, error) {
	return Handle{Visual: v}, nil
}

// Visual returns the card face drawn for cards of this kind.
func (k CardKind) Visual() Visual {
	return cardVisual(k)
}

func cardVisual(k CardKind) Visual {
	switch k {
	case CardSlash:
		return VisualSlash
	case CardHeal:
		return VisualHeal
	case CardDrain:
		return VisualDrain
	case CardInquisition:
		return VisualInquisition
	default:
		return VisualMagicka
	}
}

func enemyVisual(k EnemyKind) Visual {
	switch k {
	case EnemyCaptain:
		return VisualCaptain
	case EnemyBoss:
		return VisualBoss
	default:
		return VisualCronie
	}
}

// visualSet holds the handles a screen loaded at construction.
type visualSet map[Visual]Handle

// placeholders lists the visuals that fell back, sorted by name.
func (vs visualSet) placeholders() []string {
	var out []string
	for v, h := range vs {
		if h.Placeholder {
			out = append(out, string(v))
		}
	}
	slices.Sort(out)
	return out
}

// loadVisuals loads each visual, substituting a placeholder on failure.
// A missing font is fatal for drawing text but the screen still runs.
func (s *Session) loadVisuals(scene string, visuals ...Visual) visualSet {
	set := make(visualSet, len(visuals))
	for _, v := range visuals {
		if _, ok := set[v]; ok {
			continue
		}
		h, err := s.Assets.Load(v)
		if err != nil {
			if v == VisualFont {
				slog.Error("font unavailable, text will not render", "scene", scene, "error", err)
			} else {
				slog.Warn("visual failed to load, using placeholder", "scene", scene, "visual", v, "error", err)
			}
			s.log(log.NewResourceFailureEvent(scene, s.node, string(v)))
			h = Placeholder(v)
		}
		set[v] = h
	}
	return set
}
