package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/peterkuimelis/magicka/internal/config"
)

// Deck owns every card of the run that is not currently in a hand slot.
type Deck struct {
	cards      []*Card // top of deck is last element (pop from end)
	capacity   int
	hasMagicka bool
}

// NewDeck creates an empty deck with the standard capacity.
func NewDeck() *Deck {
	return &Deck{capacity: MaxDeckSize}
}

// NewStartingDeck builds the deck listed in the balance file and shuffles it.
// A nil rng keeps the listed order, so the last listed card is drawn first.
func NewStartingDeck(entries []config.DeckEntry, rng *rand.Rand) (*Deck, error) {
	d := NewDeck()
	for _, entry := range entries {
		kind, err := ParseCardKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("starting deck: %w", err)
		}
		for i := 0; i < entry.Count; i++ {
			if !d.AddCard(NewCard(kind)) {
				return nil, fmt.Errorf("starting deck: cannot add %s #%d (capacity %d)", kind, i+1, d.capacity)
			}
		}
	}
	if rng != nil {
		d.Shuffle(rng)
	}
	return d, nil
}

// AddCard puts a new card on top of the deck. It reports false and drops the
// card when the deck is full or when a second Magicka is offered.
func (d *Deck) AddCard(card *Card) bool {
	if len(d.cards) >= d.capacity {
		return false
	}
	if card.Kind == CardMagicka {
		if d.hasMagicka {
			return false
		}
		d.hasMagicka = true
	}
	d.cards = append(d.cards, card)
	return true
}

// Draw removes the top card. Returns nil if the deck is empty.
func (d *Deck) Draw() *Card {
	if len(d.cards) == 0 {
		return nil
	}
	card := d.cards[len(d.cards)-1]
	d.cards[len(d.cards)-1] = nil
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// Discard puts a card at the bottom of the deck if there is room.
func (d *Deck) Discard(card *Card) bool {
	if len(d.cards) >= d.capacity {
		return false
	}
	d.cards = append(d.cards, nil)
	copy(d.cards[1:], d.cards[:len(d.cards)-1])
	d.cards[0] = card
	return true
}

// ReturnToDeck puts a card back on top if there is room.
func (d *Deck) ReturnToDeck(card *Card) bool {
	if len(d.cards) >= d.capacity {
		return false
	}
	d.cards = append(d.cards, card)
	return true
}

// Shuffle randomizes the deck order.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) Capacity() int {
	return d.capacity
}

// HasMagicka reports whether the deck ever admitted a Magicka card.
func (d *Deck) HasMagicka() bool {
	return d.hasMagicka
}

// Count returns how many cards of the kind are in the deck.
func (d *Deck) Count(kind CardKind) int {
	n := 0
	for _, c := range d.cards {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Peek returns the top card without removing it, or nil.
func (d *Deck) Peek() *Card {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[len(d.cards)-1]
}
