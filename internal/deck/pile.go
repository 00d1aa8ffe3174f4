package deck

import (
	"fmt"
	"sort"

	"github.com/rawblock/arkham-companion/internal/catalog"
)

// Pile is the common interface of every pile variant. Clone produces a
// deep copy that shares nothing with the receiver; the history engine
// relies on that to keep snapshots immutable.
type Pile interface {
	Clone() Pile
	Size() int
}

// Ordered is a bottom-to-top sequence of cards. The top of the pile is the
// last element.
type Ordered struct {
	Cards    []Card
	CardBack string
}

// NewOrdered builds an ordered pile over a copy of cards.
func NewOrdered(cards []Card, cardBack string) *Ordered {
	return &Ordered{Cards: append([]Card(nil), cards...), CardBack: cardBack}
}

func (p *Ordered) Clone() Pile {
	return &Ordered{Cards: append([]Card(nil), p.Cards...), CardBack: p.CardBack}
}

func (p *Ordered) Size() int { return len(p.Cards) }

// Draw removes and returns the top (last) or bottom (first) card.
func (p *Ordered) Draw(fromTop bool) (Card, error) {
	if len(p.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	if fromTop {
		c := p.Cards[len(p.Cards)-1]
		p.Cards = p.Cards[:len(p.Cards)-1]
		return c, nil
	}
	c := p.Cards[0]
	p.Cards = append([]Card(nil), p.Cards[1:]...)
	return c, nil
}

// Top places a card on top of the pile.
func (p *Ordered) Top(c Card) { p.Cards = append(p.Cards, c) }

// Bottom places a card on the bottom of the pile.
func (p *Ordered) Bottom(c Card) {
	p.Cards = append([]Card{c}, p.Cards...)
}

// PeekTop returns the top card without removing it.
func (p *Ordered) PeekTop() (Card, error) {
	if len(p.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	return p.Cards[len(p.Cards)-1], nil
}

// PeekBottom returns the bottom card without removing it.
func (p *Ordered) PeekBottom() (Card, error) {
	if len(p.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	return p.Cards[0], nil
}

// Shuffle permutes the pile uniformly.
func (p *Ordered) Shuffle() { secureShuffle(p.Cards) }

// ShuffleIntoTopThree removes the current two top cards, adds card, and
// pushes all three back in uniform random order. With fewer than two cards
// left it combines with whatever exists.
func (p *Ordered) ShuffleIntoTopThree(card Card) {
	take := 2
	if len(p.Cards) < take {
		take = len(p.Cards)
	}
	top := append([]Card(nil), p.Cards[len(p.Cards)-take:]...)
	p.Cards = p.Cards[:len(p.Cards)-take]
	top = append(top, card)
	secureShuffle(top)
	p.Cards = append(p.Cards, top...)
}

// NeighbourhoodPile is an ordered encounter pile with an attached terror
// sub-pile and at most one attached codex card.
type NeighbourhoodPile struct {
	Ordered
	Neighbourhood  catalog.Neighbourhood
	AttachedTerror Ordered
	AttachedCodex  *Card
}

// NewNeighbourhoodPile builds a neighbourhood pile over a copy of cards.
func NewNeighbourhoodPile(nb catalog.Neighbourhood, cards []Card, cardBack string) *NeighbourhoodPile {
	return &NeighbourhoodPile{
		Ordered:       Ordered{Cards: append([]Card(nil), cards...), CardBack: cardBack},
		Neighbourhood: nb,
	}
}

func (p *NeighbourhoodPile) Clone() Pile {
	cp := &NeighbourhoodPile{
		Ordered:       Ordered{Cards: append([]Card(nil), p.Cards...), CardBack: p.CardBack},
		Neighbourhood: p.Neighbourhood,
		AttachedTerror: Ordered{
			Cards:    append([]Card(nil), p.AttachedTerror.Cards...),
			CardBack: p.AttachedTerror.CardBack,
		},
	}
	if p.AttachedCodex != nil {
		c := *p.AttachedCodex
		cp.AttachedCodex = &c
	}
	return cp
}

// AddTerror pushes a terror card on top of the attached terror sub-pile.
func (p *NeighbourhoodPile) AddTerror(c Card) { p.AttachedTerror.Top(c) }

// AttachCodex stores a codex card on the pile. Only one may be attached.
func (p *NeighbourhoodPile) AttachCodex(c Card) error {
	if p.AttachedCodex != nil {
		return fmt.Errorf("%w: codex card already attached to %s", ErrInvalidOp, p.Neighbourhood)
	}
	cc := c
	p.AttachedCodex = &cc
	return nil
}

// PopCodex removes and returns the attached codex card.
func (p *NeighbourhoodPile) PopCodex() (Card, error) {
	if p.AttachedCodex == nil {
		return Card{}, fmt.Errorf("%w: no codex card attached to %s", ErrNotFound, p.Neighbourhood)
	}
	c := *p.AttachedCodex
	p.AttachedCodex = nil
	return c, nil
}

// HasCodex reports whether a specific codex card is attached.
func (p *NeighbourhoodPile) HasCodex(number int) bool {
	return p.AttachedCodex != nil && p.AttachedCodex.Number == number
}

// ModifyCodexCounters adds delta to the attached card's counters, clamping
// at zero. A missing attachment is a no-op.
func (p *NeighbourhoodPile) ModifyCodexCounters(delta int) {
	if p.AttachedCodex == nil {
		return
	}
	p.AttachedCodex.Counters += delta
	if p.AttachedCodex.Counters < 0 {
		p.AttachedCodex.Counters = 0
	}
}

// FlipCodex marks the attached card flipped. A missing attachment is a
// no-op.
func (p *NeighbourhoodPile) FlipCodex() {
	if p.AttachedCodex != nil {
		p.AttachedCodex.IsFlipped = true
	}
}

// EventPile is an ordered pile of event cards, one per neighbourhood.
type EventPile struct {
	Ordered
}

// NewEventPile builds an event pile over a copy of cards.
func NewEventPile(cards []Card) *EventPile {
	return &EventPile{Ordered: Ordered{Cards: append([]Card(nil), cards...)}}
}

func (p *EventPile) Clone() Pile {
	return &EventPile{Ordered: Ordered{Cards: append([]Card(nil), p.Cards...), CardBack: p.CardBack}}
}

// RemoveNeighbourhood partitions the pile, keeping cards whose
// neighbourhood is not listed and returning the removed cards as one
// sub-pile per neighbourhood.
func (p *EventPile) RemoveNeighbourhood(nbs []catalog.Neighbourhood) map[catalog.Neighbourhood]*EventPile {
	wanted := make(map[catalog.Neighbourhood]bool, len(nbs))
	for _, nb := range nbs {
		wanted[nb] = true
	}

	kept := p.Cards[:0:0]
	removed := make(map[catalog.Neighbourhood]*EventPile)
	for _, c := range p.Cards {
		if !wanted[c.Neighbourhood] {
			kept = append(kept, c)
			continue
		}
		sub, ok := removed[c.Neighbourhood]
		if !ok {
			sub = NewEventPile(nil)
			removed[c.Neighbourhood] = sub
		}
		sub.Top(c)
	}
	p.Cards = kept
	return removed
}

// ShuffleDiscard shuffles discard and places it underneath the pile, so the
// discard becomes the new bottom. The discard itself is left to the caller
// to clear.
func (p *EventPile) ShuffleDiscard(discard *EventPile) {
	reshuffled := append([]Card(nil), discard.Cards...)
	secureShuffle(reshuffled)
	p.Cards = append(reshuffled, p.Cards...)
}

// Extend appends cards on top of the pile.
func (p *EventPile) Extend(cards []Card) {
	p.Cards = append(p.Cards, cards...)
}

// Clear empties the pile.
func (p *EventPile) Clear() { p.Cards = nil }

// KeyedPile maps codex numbers to codex cards; it backs the archive and
// the codex.
type KeyedPile struct {
	Cards    map[int]Card
	CardBack string
}

// NewKeyedPile builds a keyed pile over a copy of cards.
func NewKeyedPile(cards map[int]Card, cardBack string) *KeyedPile {
	cp := make(map[int]Card, len(cards))
	for n, c := range cards {
		cp[n] = c
	}
	return &KeyedPile{Cards: cp, CardBack: cardBack}
}

func (p *KeyedPile) Clone() Pile {
	return NewKeyedPile(p.Cards, p.CardBack)
}

func (p *KeyedPile) Size() int { return len(p.Cards) }

// Has reports whether the pile holds card number n.
func (p *KeyedPile) Has(n int) bool {
	_, ok := p.Cards[n]
	return ok
}

// GetCard removes and returns card number n.
func (p *KeyedPile) GetCard(n int) (Card, error) {
	c, ok := p.Cards[n]
	if !ok {
		return Card{}, fmt.Errorf("%w: codex card %d", ErrNotFound, n)
	}
	delete(p.Cards, n)
	return c, nil
}

// AddCard inserts a card keyed by its number.
func (p *KeyedPile) AddCard(c Card) {
	if p.Cards == nil {
		p.Cards = make(map[int]Card)
	}
	p.Cards[c.Number] = c
}

// Get returns card number n without removing it.
func (p *KeyedPile) Get(n int) (Card, bool) {
	c, ok := p.Cards[n]
	return c, ok
}

// Put replaces card number n in place.
func (p *KeyedPile) Put(c Card) { p.AddCard(c) }

// Numbers returns the held card numbers in ascending order.
func (p *KeyedPile) Numbers() []int {
	ns := make([]int, 0, len(p.Cards))
	for n := range p.Cards {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// PendingPile holds event cards awaiting pass/fail resolution, keyed by an
// opaque ticket string.
type PendingPile struct {
	Cards map[string]Card
}

// NewPendingPile builds an empty pending pile.
func NewPendingPile() *PendingPile {
	return &PendingPile{Cards: make(map[string]Card)}
}

func (p *PendingPile) Clone() Pile {
	cp := make(map[string]Card, len(p.Cards))
	for t, c := range p.Cards {
		cp[t] = c
	}
	return &PendingPile{Cards: cp}
}

func (p *PendingPile) Size() int { return len(p.Cards) }

// Put stores a card under ticket.
func (p *PendingPile) Put(ticket string, c Card) {
	if p.Cards == nil {
		p.Cards = make(map[string]Card)
	}
	p.Cards[ticket] = c
}

// Peek returns the card under ticket without removing it.
func (p *PendingPile) Peek(ticket string) (Card, bool) {
	c, ok := p.Cards[ticket]
	return c, ok
}

// Take removes and returns the card under ticket.
func (p *PendingPile) Take(ticket string) (Card, error) {
	c, ok := p.Cards[ticket]
	if !ok {
		return Card{}, fmt.Errorf("%w: ticket %q", ErrNotFound, ticket)
	}
	delete(p.Cards, ticket)
	return c, nil
}
