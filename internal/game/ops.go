package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/deck"
)

// Every write operation follows the same discipline: validate everything
// that can fail first, then commit, which checkpoints the touched labels,
// applies the mutation to the fresh snapshots and records the change-set
// on the acting player's log. Nothing after commit may fail.

// DrawFromNeighbourhood draws the top card of a neighbourhood pile. Codex
// cards return to the archive, event cards wait in the pending pile under
// the returned ticket, anything else goes back to the bottom.
func (s *State) DrawFromNeighbourhood(nb catalog.Neighbourhood, player string) (deck.Card, string, error) {
	pile, err := s.neighbourhood(nb)
	if err != nil {
		return deck.Card{}, "", err
	}
	card, err := pile.PeekTop()
	if err != nil {
		return deck.Card{}, "", err
	}

	label := NeighbourhoodLabel(nb)
	switch {
	case card.Kind == deck.KindCodexNeighbourhood:
		card.IsFlipped = false
		s.commit(player, NewChangeSet(label, LabelArchive), func() {
			p, _ := s.neighbourhood(nb)
			p.Draw(true)
			s.archive().AddCard(card)
		})
		return card, "", nil

	case card.IsEvent:
		ticket := uuid.NewString()
		s.commit(player, NewChangeSet(label, LabelActionRequired), func() {
			p, _ := s.neighbourhood(nb)
			p.Draw(true)
			s.pending().Put(ticket, card)
		})
		return card, ticket, nil

	default:
		s.commit(player, NewChangeSet(label), func() {
			p, _ := s.neighbourhood(nb)
			c, _ := p.Draw(true)
			p.Bottom(c)
		})
		return card, "", nil
	}
}

// ResolvePending settles an event card previously drawn into the pending
// pile. A passed event goes to the bottom of the discard; a failed one is
// shuffled into the top three of its neighbourhood.
func (s *State) ResolvePending(ticket string, passed bool, player string) (deck.Card, error) {
	card, ok := s.pending().Peek(ticket)
	if !ok {
		return deck.Card{}, fmt.Errorf("%w: ticket %q", deck.ErrNotFound, ticket)
	}

	if passed {
		s.commit(player, NewChangeSet(LabelActionRequired, LabelEventDiscard), func() {
			s.pending().Take(ticket)
			s.eventDiscard().Bottom(card)
		})
		return card, nil
	}

	nb := card.Neighbourhood
	if _, err := s.neighbourhood(nb); err != nil {
		return deck.Card{}, err
	}
	s.commit(player, NewChangeSet(LabelActionRequired, NeighbourhoodLabel(nb)), func() {
		s.pending().Take(ticket)
		p, _ := s.neighbourhood(nb)
		p.ShuffleIntoTopThree(card)
	})
	return card, nil
}

// DrawTerrorFromNeighbourhood draws the top card of a neighbourhood's
// attached terror sub-pile and returns it to the bottom of the terror
// pile.
func (s *State) DrawTerrorFromNeighbourhood(nb catalog.Neighbourhood, player string) (deck.Card, error) {
	if !s.HasTerror() {
		return deck.Card{}, fmt.Errorf("%w: scenario has no terror deck", deck.ErrInvalidOp)
	}
	pile, err := s.neighbourhood(nb)
	if err != nil {
		return deck.Card{}, err
	}
	card, err := pile.AttachedTerror.PeekTop()
	if err != nil {
		return deck.Card{}, err
	}

	s.commit(player, NewChangeSet(NeighbourhoodLabel(nb), LabelTerror), func() {
		p, _ := s.neighbourhood(nb)
		c, _ := p.AttachedTerror.Draw(true)
		s.terror().Bottom(c)
	})
	return card, nil
}

// SpreadDoom moves the bottom card of the event deck onto the bottom of
// the discard. When the deck is exhausted the discard is reshuffled
// underneath it and ErrEmptyDeck is still returned, so the next call
// succeeds.
func (s *State) SpreadDoom(player string) (deck.Card, error) {
	if s.eventDeck().Size() == 0 {
		s.reshuffleEvents(player)
		return deck.Card{}, deck.ErrEmptyDeck
	}

	card, _ := s.eventDeck().PeekBottom()
	s.commit(player, NewChangeSet(LabelEventDeck, LabelEventDiscard), func() {
		c, _ := s.eventDeck().Draw(false)
		s.eventDiscard().Bottom(c)
	})
	return card, nil
}

// SpreadClue moves the top card of the event deck into the top three of
// its neighbourhood. Empty-deck behaviour matches SpreadDoom.
func (s *State) SpreadClue(player string) (deck.Card, error) {
	if s.eventDeck().Size() == 0 {
		s.reshuffleEvents(player)
		return deck.Card{}, deck.ErrEmptyDeck
	}

	card, _ := s.eventDeck().PeekTop()
	nb := card.Neighbourhood
	if _, err := s.neighbourhood(nb); err != nil {
		return deck.Card{}, err
	}

	s.commit(player, NewChangeSet(LabelEventDeck, NeighbourhoodLabel(nb)), func() {
		c, _ := s.eventDeck().Draw(true)
		p, _ := s.neighbourhood(nb)
		p.ShuffleIntoTopThree(c)
	})
	return card, nil
}

// reshuffleEvents shuffles the discard underneath the event deck and
// clears it. An empty discard leaves the state alone.
func (s *State) reshuffleEvents(player string) {
	if s.eventDiscard().Size() == 0 {
		return
	}
	s.commit(player, NewChangeSet(LabelEventDeck, LabelEventDiscard), func() {
		s.eventDeck().ShuffleDiscard(s.eventDiscard())
		s.eventDiscard().Clear()
	})
}

// TerrorSpread is the outcome of SpreadTerror: the destination
// neighbourhood, plus the discard card that chose it when one existed.
type TerrorSpread struct {
	Destination catalog.Neighbourhood
	Card        deck.Card
	FromDiscard bool
}

// SpreadTerror draws the top terror card and attaches it to the
// neighbourhood named by the bottom of the event discard, falling back to
// the scenario's default destination when the discard is empty.
func (s *State) SpreadTerror(player string) (TerrorSpread, error) {
	if !s.HasTerror() {
		return TerrorSpread{}, fmt.Errorf("%w: scenario has no terror deck", deck.ErrInvalidOp)
	}
	if s.terror().Size() == 0 {
		return TerrorSpread{}, deck.ErrEmptyDeck
	}

	var spread TerrorSpread
	if s.eventDiscard().Size() > 0 {
		c, _ := s.eventDiscard().PeekBottom()
		spread = TerrorSpread{Destination: c.Neighbourhood, Card: c, FromDiscard: true}
	} else {
		nb, ok := catalog.DefaultTerrorNeighbourhood[s.Settings.Scenario]
		if !ok {
			return TerrorSpread{}, fmt.Errorf("%w: no default terror destination", deck.ErrInvalidOp)
		}
		spread = TerrorSpread{Destination: nb}
	}
	if _, err := s.neighbourhood(spread.Destination); err != nil {
		return TerrorSpread{}, err
	}

	s.commit(player, NewChangeSet(LabelTerror, NeighbourhoodLabel(spread.Destination)), func() {
		c, _ := s.terror().Draw(true)
		p, _ := s.neighbourhood(spread.Destination)
		p.AddTerror(c)
	})
	return spread, nil
}

// PlaceTerror draws the top terror card and attaches it to the named
// neighbourhood.
func (s *State) PlaceTerror(nb catalog.Neighbourhood, player string) error {
	if !s.HasTerror() {
		return fmt.Errorf("%w: scenario has no terror deck", deck.ErrInvalidOp)
	}
	if s.terror().Size() == 0 {
		return deck.ErrEmptyDeck
	}
	if _, err := s.neighbourhood(nb); err != nil {
		return err
	}

	s.commit(player, NewChangeSet(LabelTerror, NeighbourhoodLabel(nb)), func() {
		c, _ := s.terror().Draw(true)
		p, _ := s.neighbourhood(nb)
		p.AddTerror(c)
	})
	return nil
}

// GateBurst draws the top event card, then shuffles the whole discard
// (including that card) underneath the event deck and clears the discard.
// With an empty event deck only the reshuffle happens and no card is
// returned.
func (s *State) GateBurst(player string) (deck.Card, bool, error) {
	if s.eventDeck().Size() == 0 {
		s.commit(player, NewChangeSet(LabelEventDeck, LabelEventDiscard), func() {
			s.eventDeck().ShuffleDiscard(s.eventDiscard())
			s.eventDiscard().Clear()
		})
		return deck.Card{}, false, nil
	}

	card, _ := s.eventDeck().PeekTop()
	s.commit(player, NewChangeSet(LabelEventDeck, LabelEventDiscard), func() {
		c, _ := s.eventDeck().Draw(true)
		s.eventDiscard().Bottom(c)
		s.eventDeck().ShuffleDiscard(s.eventDiscard())
		s.eventDiscard().Clear()
	})
	return card, true, nil
}

// DrawHeadline draws the top headline card. A rumor replaces whatever sits
// in the rumor pile.
func (s *State) DrawHeadline(player string) (deck.Card, error) {
	card, err := s.headline().PeekTop()
	if err != nil {
		return deck.Card{}, err
	}

	if card.IsRumor {
		s.commit(player, NewChangeSet(LabelHeadline, LabelRumor), func() {
			c, _ := s.headline().Draw(true)
			s.rumor().Cards = []deck.Card{c}
		})
		return card, nil
	}
	s.commit(player, NewChangeSet(LabelHeadline), func() {
		s.headline().Draw(true)
	})
	return card, nil
}

// ClearRumor discards the active rumor.
func (s *State) ClearRumor(player string) error {
	if s.rumor().Size() == 0 {
		return fmt.Errorf("%w: no active rumor", deck.ErrInvalidOp)
	}
	s.commit(player, NewChangeSet(LabelRumor), func() {
		s.rumor().Cards = nil
	})
	return nil
}

// ModifyCounterOnRumor adds delta to the active rumor's counters,
// clamping at zero.
func (s *State) ModifyCounterOnRumor(delta int, player string) (deck.Card, error) {
	if s.rumor().Size() == 0 {
		return deck.Card{}, fmt.Errorf("%w: no active rumor", deck.ErrInvalidOp)
	}
	s.commit(player, NewChangeSet(LabelRumor), func() {
		c := &s.rumor().Cards[0]
		c.Counters += delta
		if c.Counters < 0 {
			c.Counters = 0
		}
	})
	return s.rumor().Cards[0], nil
}

// AddFromArchive promotes codex card n out of the archive: attachable
// cards attach to their neighbourhood, encounter cards join their
// neighbourhood pile, everything else goes to the codex.
func (s *State) AddFromArchive(n int, player string) (deck.Card, error) {
	card, ok := s.archive().Get(n)
	if !ok {
		return deck.Card{}, fmt.Errorf("%w: codex card %d not in archive", deck.ErrNotFound, n)
	}

	if card.Kind == deck.KindCodexNeighbourhood {
		nb := card.Neighbourhood
		pile, err := s.neighbourhood(nb)
		if err != nil {
			return deck.Card{}, err
		}
		label := NeighbourhoodLabel(nb)

		switch {
		case card.CanAttach:
			if pile.AttachedCodex != nil {
				return deck.Card{}, fmt.Errorf("%w: codex card already attached to %s", deck.ErrInvalidOp, nb)
			}
			s.commit(player, NewChangeSet(LabelArchive, label), func() {
				c, _ := s.archive().GetCard(n)
				p, _ := s.neighbourhood(nb)
				p.AttachCodex(c)
			})
			return card, nil

		case card.IsEncounter && catalog.IsCodexShuffleEncounter(n):
			s.commit(player, NewChangeSet(LabelArchive, label), func() {
				c, _ := s.archive().GetCard(n)
				p, _ := s.neighbourhood(nb)
				p.ShuffleIntoTopThree(c)
			})
			return card, nil

		case card.IsEncounter && catalog.IsCodexTopEncounter(n):
			s.commit(player, NewChangeSet(LabelArchive, label), func() {
				c, _ := s.archive().GetCard(n)
				p, _ := s.neighbourhood(nb)
				p.Top(c)
			})
			return card, nil
		}
	}

	s.commit(player, NewChangeSet(LabelArchive, LabelCodex), func() {
		c, _ := s.archive().GetCard(n)
		s.codex().AddCard(c)
	})
	return card, nil
}

// codexHome finds where codex card n currently lives: the codex pile or a
// neighbourhood attachment.
func (s *State) codexHome(n int) (Label, bool) {
	if s.codex().Has(n) {
		return LabelCodex, true
	}
	for _, nb := range s.order {
		pile, err := s.neighbourhood(nb)
		if err != nil {
			continue
		}
		if pile.HasCodex(n) {
			return NeighbourhoodLabel(nb), true
		}
	}
	return "", false
}

// ReturnToArchive moves codex card n back into the archive with counters
// and flip state reset.
func (s *State) ReturnToArchive(n int, player string) error {
	home, ok := s.codexHome(n)
	if !ok {
		return fmt.Errorf("%w: codex card %d is not in play", deck.ErrNotFound, n)
	}

	s.commit(player, NewChangeSet(home, LabelArchive), func() {
		var card deck.Card
		if home == LabelCodex {
			card, _ = s.codex().GetCard(n)
		} else {
			p := s.hist.current(home).(*deck.NeighbourhoodPile)
			card, _ = p.PopCodex()
		}
		card.Counters = 0
		card.IsFlipped = false
		s.archive().AddCard(card)
	})
	return nil
}

// ModifyCounterOnCodex adds delta to codex card n's counters wherever it
// lives, clamping at zero.
func (s *State) ModifyCounterOnCodex(n, delta int, player string) (deck.Card, error) {
	home, ok := s.codexHome(n)
	if !ok {
		return deck.Card{}, fmt.Errorf("%w: codex card %d is not in play", deck.ErrNotFound, n)
	}

	s.commit(player, NewChangeSet(home), func() {
		if home == LabelCodex {
			c, _ := s.codex().Get(n)
			c.Counters += delta
			if c.Counters < 0 {
				c.Counters = 0
			}
			s.codex().Put(c)
			return
		}
		p := s.hist.current(home).(*deck.NeighbourhoodPile)
		p.ModifyCodexCounters(delta)
	})
	return s.codexAt(home, n), nil
}

// FlipCodex marks codex card n flipped wherever it lives.
func (s *State) FlipCodex(n int, player string) (deck.Card, error) {
	home, ok := s.codexHome(n)
	if !ok {
		return deck.Card{}, fmt.Errorf("%w: codex card %d is not in play", deck.ErrNotFound, n)
	}

	s.commit(player, NewChangeSet(home), func() {
		if home == LabelCodex {
			c, _ := s.codex().Get(n)
			c.IsFlipped = true
			s.codex().Put(c)
			return
		}
		p := s.hist.current(home).(*deck.NeighbourhoodPile)
		p.FlipCodex()
	})
	return s.codexAt(home, n), nil
}

func (s *State) codexAt(home Label, n int) deck.Card {
	if home == LabelCodex {
		c, _ := s.codex().Get(n)
		return c
	}
	p := s.hist.current(home).(*deck.NeighbourhoodPile)
	if p.AttachedCodex != nil {
		return *p.AttachedCodex
	}
	return deck.Card{}
}

// underworldProbeDraws is how many event cards are burned when The
// Underworld opens.
const underworldProbeDraws = 4

// AddNeighbourhood unlocks a held-aside neighbourhood deck. The Underworld
// additionally burns four event draws (each failed draw is a doom token
// for the scenario sheet) and splits its event cards between deck and
// discard. The returned count is the doom to add.
func (s *State) AddNeighbourhood(nb catalog.Neighbourhood, player string) (int, error) {
	pile, ok := s.laterNeighbourhoods[nb]
	if !ok {
		return 0, fmt.Errorf("%w: no held-aside deck for %s", deck.ErrNotFound, nb)
	}
	if s.hist.current(NeighbourhoodLabel(nb)) != nil {
		return 0, fmt.Errorf("%w: %s is already in play", deck.ErrInvalidOp, nb)
	}
	events := s.laterEvents[nb]

	if nb == catalog.TheUnderworld {
		return s.addUnderworld(pile, events, player)
	}

	label := NeighbourhoodLabel(nb)
	if events == nil || events.Size() == 0 {
		s.commit(player, NewChangeSet(label), func() {
			s.hist.install(label, pile.Clone())
			s.appendOrder(nb)
		})
		return 0, nil
	}

	s.commit(player, NewChangeSet(label, LabelEventDeck, LabelEventDiscard), func() {
		s.hist.install(label, pile.Clone())
		s.appendOrder(nb)
		s.eventDeck().Extend(append([]deck.Card(nil), events.Cards...))
		s.eventDeck().ShuffleDiscard(s.eventDiscard())
		s.eventDiscard().Clear()
	})
	return 0, nil
}

func (s *State) addUnderworld(pile *deck.NeighbourhoodPile, events *deck.EventPile, player string) (int, error) {
	if events == nil || events.Size() < underworldProbeDraws {
		return 0, fmt.Errorf("%w: The Underworld needs %d held-aside event cards", deck.ErrInvalidOp, underworldProbeDraws)
	}

	label := NeighbourhoodLabel(catalog.TheUnderworld)
	doom := 0
	s.commit(player, NewChangeSet(label, LabelEventDeck, LabelEventDiscard), func() {
		for i := 0; i < underworldProbeDraws; i++ {
			c, err := s.eventDeck().Draw(true)
			if err != nil {
				doom++
				continue
			}
			s.eventDiscard().Bottom(c)
		}

		held := append([]deck.Card(nil), events.Cards...)
		split := len(held) - 2
		s.eventDeck().Extend(held[:split])
		s.eventDeck().Shuffle()
		for _, c := range held[split:] {
			s.eventDiscard().Bottom(c)
		}

		s.hist.install(label, pile.Clone())
		s.appendOrder(catalog.TheUnderworld)
	})
	return doom, nil
}

// appendOrder adds nb to the projection order once.
func (s *State) appendOrder(nb catalog.Neighbourhood) {
	for _, have := range s.order {
		if have == nb {
			return
		}
	}
	s.order = append(s.order, nb)
}
