package game

import (
	"fmt"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/deck"
)

// State is the single authoritative game state. Every live pile is owned
// by the label histories; reads and writes both go through the current
// snapshot, so an undo is just moving a timeline index.
//
// State is not safe for concurrent use; the session serialises access.
type State struct {
	Settings catalog.Settings

	hist    *histories
	players *playerLog

	// Order of the live neighbourhood piles for stable projection.
	order []catalog.Neighbourhood

	// Decks held aside until add_neighbourhood unlocks them. These are
	// outside the history: unlocking consumes them permanently.
	laterNeighbourhoods map[catalog.Neighbourhood]*deck.NeighbourhoodPile
	laterEvents         map[catalog.Neighbourhood]*deck.EventPile
}

// New builds the game state for the given settings from the card reference
// table.
func New(set *catalog.CardSet, settings catalog.Settings) (*State, error) {
	setup, err := deck.BuildScenario(set, settings)
	if err != nil {
		return nil, err
	}

	s := &State{
		Settings:            settings,
		hist:                newHistories(),
		players:             newPlayerLog(),
		order:               setup.Order,
		laterNeighbourhoods: setup.LaterNeighbourhoods,
		laterEvents:         setup.LaterEvents,
	}

	for nb, pile := range setup.Neighbourhoods {
		s.hist.init(NeighbourhoodLabel(nb), pile)
	}
	s.hist.init(LabelEventDeck, setup.EventDeck)
	s.hist.init(LabelEventDiscard, deck.NewEventPile(nil))
	s.hist.init(LabelHeadline, setup.Headline)
	s.hist.init(LabelArchive, setup.Archive)
	s.hist.init(LabelCodex, deck.NewKeyedPile(nil, catalog.ArchiveBack))
	s.hist.init(LabelRumor, deck.NewOrdered(nil, setup.Headline.CardBack))
	s.hist.init(LabelActionRequired, deck.NewPendingPile())
	if setup.Terror != nil {
		s.hist.init(LabelTerror, setup.Terror)
	} else {
		s.hist.init(LabelTerror, nil)
	}

	return s, nil
}

// ---- typed accessors over the current snapshots ----

func (s *State) neighbourhood(nb catalog.Neighbourhood) (*deck.NeighbourhoodPile, error) {
	p := s.hist.current(NeighbourhoodLabel(nb))
	if p == nil {
		return nil, fmt.Errorf("%w: neighbourhood %s is not in play", deck.ErrNotFound, nb)
	}
	return p.(*deck.NeighbourhoodPile), nil
}

func (s *State) eventDeck() *deck.EventPile {
	return s.hist.current(LabelEventDeck).(*deck.EventPile)
}

func (s *State) eventDiscard() *deck.EventPile {
	return s.hist.current(LabelEventDiscard).(*deck.EventPile)
}

func (s *State) headline() *deck.Ordered {
	return s.hist.current(LabelHeadline).(*deck.Ordered)
}

func (s *State) rumor() *deck.Ordered {
	return s.hist.current(LabelRumor).(*deck.Ordered)
}

func (s *State) archive() *deck.KeyedPile {
	return s.hist.current(LabelArchive).(*deck.KeyedPile)
}

func (s *State) codex() *deck.KeyedPile {
	return s.hist.current(LabelCodex).(*deck.KeyedPile)
}

func (s *State) pending() *deck.PendingPile {
	return s.hist.current(LabelActionRequired).(*deck.PendingPile)
}

func (s *State) terror() *deck.Ordered {
	p := s.hist.current(LabelTerror)
	if p == nil {
		return nil
	}
	return p.(*deck.Ordered)
}

// HasTerror reports whether the scenario plays with a terror deck.
func (s *State) HasTerror() bool { return s.terror() != nil }

// commit checkpoints the touched labels, runs the mutation on the fresh
// snapshots, and records the change-set on the acting player's log. The
// mutation must not fail: all fallible checks happen before commit so that
// label timelines and player logs never drift apart.
func (s *State) commit(player string, cs ChangeSet, mutate func()) {
	s.hist.record(cs)
	mutate()
	s.players.record(player, cs)
}

// ---- undo / redo ----

// CanUndo reports whether the player's most recent action can be rolled
// back without reaching through another player's work.
func (s *State) CanUndo(player string) bool { return s.players.canUndo(player) }

// CanRedo reports whether the player has a rolled-back action to replay.
func (s *State) CanRedo(player string) bool { return s.players.canRedo(player) }

// Undo rolls back the player's most recent change-set.
func (s *State) Undo(player string) error {
	cs, err := s.players.undo(player)
	if err != nil {
		return err
	}
	return s.hist.undo(cs)
}

// Redo replays the player's most recently undone change-set.
func (s *State) Redo(player string) error {
	cs, err := s.players.redo(player)
	if err != nil {
		return err
	}
	return s.hist.redo(cs)
}
