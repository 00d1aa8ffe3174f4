package game

import (
	"sort"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/deck"
)

// DeckInfo describes one visible pile in the broadcast update.
type DeckInfo struct {
	Name              string `json:"name"`
	VisibleImage      string `json:"visible_image"`
	NumCards          int    `json:"num_cards"`
	HasAttachedCodex  bool   `json:"has_attached_codex"`
	NumAttachedTerror int    `json:"num_attached_terror"`
}

// Info is the full board projection broadcast after every mutation.
type Info struct {
	Decks         []DeckInfo `json:"decks"`
	HasTerror     bool       `json:"has_terror"`
	HasRumor      bool       `json:"has_rumor"`
	RumorCounters int        `json:"rumor_counters"`
	AddableDecks  []string   `json:"addable_decks"`
}

// Fixed pile display names.
const (
	NameEventDeck    = "Event Deck"
	NameEventDiscard = "Event Discard"
	NameHeadline     = "Headline"
	NameTerror       = "Terror"
)

// UpdateInfo projects the live piles into the broadcast payload. The deck
// order is stable: event deck, event discard, headline, the live
// neighbourhoods in play order, then terror when the scenario has one.
func (s *State) UpdateInfo() Info {
	info := Info{
		HasTerror:    s.HasTerror(),
		AddableDecks: []string{},
	}

	eventDeck := s.eventDeck()
	eventImage := ""
	if c, err := eventDeck.PeekTop(); err == nil {
		eventImage = c.Back
	}
	info.Decks = append(info.Decks, DeckInfo{
		Name:         NameEventDeck,
		VisibleImage: eventImage,
		NumCards:     eventDeck.Size(),
	})

	discard := s.eventDiscard()
	discardImage := ""
	if c, err := discard.PeekBottom(); err == nil {
		discardImage = c.Face
	}
	info.Decks = append(info.Decks, DeckInfo{
		Name:         NameEventDiscard,
		VisibleImage: discardImage,
		NumCards:     discard.Size(),
	})

	headline := s.headline()
	headlineImage := ""
	if headline.Size() > 0 {
		headlineImage = headline.CardBack
	}
	info.Decks = append(info.Decks, DeckInfo{
		Name:         NameHeadline,
		VisibleImage: headlineImage,
		NumCards:     headline.Size(),
	})

	for _, nb := range s.order {
		pile, err := s.neighbourhood(nb)
		if err != nil {
			// Unlocked and then undone; skip until re-added.
			continue
		}
		info.Decks = append(info.Decks, DeckInfo{
			Name:              string(nb),
			VisibleImage:      pile.CardBack,
			NumCards:          pile.Size(),
			HasAttachedCodex:  pile.AttachedCodex != nil,
			NumAttachedTerror: pile.AttachedTerror.Size(),
		})
	}

	if terror := s.terror(); terror != nil {
		terrorImage := ""
		if terror.Size() > 0 {
			terrorImage = terror.CardBack
		}
		info.Decks = append(info.Decks, DeckInfo{
			Name:         NameTerror,
			VisibleImage: terrorImage,
			NumCards:     terror.Size(),
		})
	}

	if rumor := s.rumor(); rumor.Size() > 0 {
		info.HasRumor = true
		info.RumorCounters = rumor.Cards[0].Counters
	}

	for nb := range s.laterNeighbourhoods {
		if s.hist.current(NeighbourhoodLabel(nb)) == nil {
			info.AddableDecks = append(info.AddableDecks, string(nb))
		}
	}
	sort.Strings(info.AddableDecks)

	return info
}

// ArchiveCards returns the archive contents sorted by codex number.
func (s *State) ArchiveCards() []deck.Card {
	return keyedCards(s.archive())
}

// CodexCards returns the codex contents sorted by codex number.
func (s *State) CodexCards() []deck.Card {
	return keyedCards(s.codex())
}

func keyedCards(p *deck.KeyedPile) []deck.Card {
	cards := make([]deck.Card, 0, p.Size())
	for _, n := range p.Numbers() {
		c, _ := p.Get(n)
		cards = append(cards, c)
	}
	return cards
}

// DiscardCards returns the event discard bottom-to-top.
func (s *State) DiscardCards() []deck.Card {
	return append([]deck.Card(nil), s.eventDiscard().Cards...)
}

// RumorCard returns the active rumor, if any.
func (s *State) RumorCard() (deck.Card, bool) {
	r := s.rumor()
	if r.Size() == 0 {
		return deck.Card{}, false
	}
	return r.Cards[0], true
}

// AttachedCodexCard returns the codex card attached to a neighbourhood.
func (s *State) AttachedCodexCard(nb catalog.Neighbourhood) (deck.Card, error) {
	pile, err := s.neighbourhood(nb)
	if err != nil {
		return deck.Card{}, err
	}
	if pile.AttachedCodex == nil {
		return deck.Card{}, deck.ErrNotFound
	}
	return *pile.AttachedCodex, nil
}

// HeadlineRemaining returns how many headline cards are left to draw.
func (s *State) HeadlineRemaining() int { return s.headline().Size() }

// Stable reports whether no event card is awaiting resolution.
func (s *State) Stable() bool { return s.pending().Size() == 0 }
