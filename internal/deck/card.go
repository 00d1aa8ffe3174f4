// Package deck implements the card pile variants the game state is built
// from: plain ordered piles, neighbourhood piles with attached terror and
// codex sub-piles, the event deck, keyed archive/codex piles and the
// pending-action pile. All shuffling draws from crypto/rand.
package deck

import (
	"errors"

	"github.com/rawblock/arkham-companion/internal/catalog"
)

var (
	// ErrEmptyDeck means an operation needed a card and the pile was empty.
	ErrEmptyDeck = errors.New("deck is empty")
	// ErrNotFound means a codex number, ticket or neighbourhood key was absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOp means the operation is not applicable in the current state.
	ErrInvalidOp = errors.New("operation not applicable")
)

// CardKind tags the card variants.
type CardKind int

const (
	KindPlain CardKind = iota
	KindHeadline
	KindNeighbourhood
	KindCodex
	KindCodexNeighbourhood
)

// Card is the tagged union of all card variants. Face and Back are opaque
// image identifiers. Cards are plain values; copying one copies it fully.
type Card struct {
	Kind CardKind
	Face string
	Back string

	// Headline.
	IsRumor  bool
	Counters int // -1 when not a rumor

	// Neighbourhood (also CodexNeighbourhood).
	Neighbourhood catalog.Neighbourhood
	IsEvent       bool

	// Codex (also CodexNeighbourhood).
	Number      int
	IsItem      bool
	IsMonster   bool
	CanAttach   bool
	IsEncounter bool
	IsFlipped   bool
}

// IsCodex reports whether the card is a codex card of either flavour.
func (c Card) IsCodex() bool {
	return c.Kind == KindCodex || c.Kind == KindCodexNeighbourhood
}

// PlainCard builds a card with no variant payload.
func PlainCard(face, back string) Card {
	return Card{Kind: KindPlain, Face: face, Back: back}
}

// HeadlineCard builds a headline card. Non-rumor headlines carry -1
// counters so the projection can tell them apart.
func HeadlineCard(face, back string, isRumor bool) Card {
	counters := -1
	if isRumor {
		counters = 0
	}
	return Card{Kind: KindHeadline, Face: face, Back: back, IsRumor: isRumor, Counters: counters}
}

// NeighbourhoodCard builds an encounter or event card for a neighbourhood.
func NeighbourhoodCard(face, back string, nb catalog.Neighbourhood, isEvent bool) Card {
	return Card{Kind: KindNeighbourhood, Face: face, Back: back, Neighbourhood: nb, IsEvent: isEvent}
}

// CodexCard builds a codex card that has no neighbourhood.
func CodexCard(face, back string, number int) Card {
	return Card{
		Kind:      KindCodex,
		Face:      face,
		Back:      back,
		Number:    number,
		IsItem:    catalog.IsCodexItem(number),
		IsMonster: catalog.IsCodexMonster(number),
	}
}

// CodexNeighbourhoodCard builds a codex card bound to a neighbourhood. It
// is never an item, monster or event.
func CodexNeighbourhoodCard(face, back string, number int, nb catalog.Neighbourhood) Card {
	return Card{
		Kind:          KindCodexNeighbourhood,
		Face:          face,
		Back:          back,
		Number:        number,
		Neighbourhood: nb,
		CanAttach:     catalog.IsCodexAttachable(number),
		IsEncounter:   catalog.IsCodexEncounter(number),
	}
}
