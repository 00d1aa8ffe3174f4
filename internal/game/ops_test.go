package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/deck"
)

func TestDrawFromNeighbourhood_NonEventReturnsToBottom(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	h := mustNeighbourhood(t, s, catalog.Downtown)

	card, ticket, err := s.DrawFromNeighbourhood(catalog.Downtown, "p")
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if ticket != "" {
		t.Errorf("Non-event draw must not issue a ticket. Got: %q", ticket)
	}
	if h.delta(t) != 0 {
		t.Errorf("Card must return to the bottom; size delta %d", h.delta(t))
	}

	pile, _ := s.neighbourhood(catalog.Downtown)
	bottom, _ := pile.PeekBottom()
	if bottom.Face != card.Face {
		t.Errorf("Expected drawn card at the bottom. Got: %q", bottom.Face)
	}
}

func TestDrawFromNeighbourhood_EventGoesPending(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	pile, _ := s.neighbourhood(catalog.Downtown)
	pile.Top(deck.NeighbourhoodCard("staged_event", pile.CardBack, catalog.Downtown, true))

	card, ticket, err := s.DrawFromNeighbourhood(catalog.Downtown, "p")
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if ticket == "" || card.Face != "staged_event" {
		t.Fatalf("Expected event draw with ticket. Got: %q, %q", card.Face, ticket)
	}
	if s.pending().Size() != 1 {
		t.Errorf("Expected 1 pending card. Got: %d", s.pending().Size())
	}
	if s.Stable() {
		t.Error("State must be unstable with a pending event")
	}
}

func TestDrawFromNeighbourhood_CodexReturnsToArchive(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)

	// 13 is a Downtown shuffle-encounter in the archive; promote it, then
	// stage it on top so the draw hits it.
	if _, err := s.AddFromArchive(13, "p"); err != nil {
		t.Fatalf("AddFromArchive failed: %v", err)
	}
	pile, _ := s.neighbourhood(catalog.Downtown)
	for i, c := range pile.Cards {
		if c.Number == 13 {
			c.IsFlipped = true
			pile.Cards = append(pile.Cards[:i], pile.Cards[i+1:]...)
			pile.Cards = append(pile.Cards, c)
			break
		}
	}

	card, ticket, err := s.DrawFromNeighbourhood(catalog.Downtown, "p")
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if ticket != "" || card.Number != 13 {
		t.Fatalf("Expected codex card 13. Got: %d, ticket %q", card.Number, ticket)
	}
	if !s.archive().Has(13) {
		t.Error("Codex card must return to the archive")
	}
	got, _ := s.archive().Get(13)
	if got.IsFlipped {
		t.Error("Flip state must reset on the way back to the archive")
	}
}

func TestResolvePending_PassedGoesToDiscardBottom(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	pile, _ := s.neighbourhood(catalog.Downtown)
	pile.Top(deck.NeighbourhoodCard("staged_event", pile.CardBack, catalog.Downtown, true))
	_, ticket, _ := s.DrawFromNeighbourhood(catalog.Downtown, "p")

	if _, err := s.ResolvePending(ticket, true, "p"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.pending().Size() != 0 {
		t.Error("Pending pile must be empty after resolution")
	}
	bottom, err := s.eventDiscard().PeekBottom()
	if err != nil || bottom.Face != "staged_event" {
		t.Errorf("Expected the event at the discard bottom. Got: %v, %v", bottom.Face, err)
	}
}

func TestResolvePending_FailedShufflesIntoNeighbourhood(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	pile, _ := s.neighbourhood(catalog.Downtown)
	pile.Top(deck.NeighbourhoodCard("staged_event", pile.CardBack, catalog.Downtown, true))
	h := mustNeighbourhood(t, s, catalog.Downtown)
	_, ticket, _ := s.DrawFromNeighbourhood(catalog.Downtown, "p")

	if _, err := s.ResolvePending(ticket, false, "p"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if h.delta(t) != 0 {
		t.Errorf("Failed event must rejoin its neighbourhood; delta %d", h.delta(t))
	}
	if s.eventDiscard().Size() != 0 {
		t.Error("Failed event must not reach the discard")
	}
}

func TestResolvePending_UnknownTicket(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	if _, err := s.ResolvePending("nope", true, "p"); !errors.Is(err, deck.ErrNotFound) {
		t.Errorf("Expected ErrNotFound. Got: %v", err)
	}
}

func TestSpreadDoom_MovesBottomToDiscardBottom(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	before := s.eventDeck().Size()
	want, _ := s.eventDeck().PeekBottom()

	card, err := s.SpreadDoom("p")
	if err != nil {
		t.Fatalf("SpreadDoom failed: %v", err)
	}
	if card.Face != want.Face {
		t.Errorf("Expected the bottom card. Got: %q", card.Face)
	}
	if s.eventDeck().Size() != before-1 || s.eventDiscard().Size() != 1 {
		t.Error("Card counts off after spread doom")
	}
	bottom, _ := s.eventDiscard().PeekBottom()
	if bottom.Face != card.Face {
		t.Error("Card must land on the discard bottom")
	}
}

func TestSpreadDoom_EmptyDeckReshufflesFirst(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	s.SpreadDoom("p")
	discarded := s.eventDiscard().Size()
	s.eventDeck().Cards = nil

	if _, err := s.SpreadDoom("p"); !errors.Is(err, deck.ErrEmptyDeck) {
		t.Fatalf("Expected ErrEmptyDeck. Got: %v", err)
	}
	if s.eventDeck().Size() != discarded || s.eventDiscard().Size() != 0 {
		t.Error("Discard must be reshuffled into the deck before the error")
	}

	// The reshuffle restocked the deck, so the next call succeeds.
	if _, err := s.SpreadDoom("p"); err != nil {
		t.Errorf("Expected the follow-up spread to succeed. Got: %v", err)
	}
}

func TestSpreadClue_ShufflesIntoNeighbourhoodTop(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	want, _ := s.eventDeck().PeekTop()
	h := mustNeighbourhood(t, s, want.Neighbourhood)

	card, err := s.SpreadClue("p")
	if err != nil {
		t.Fatalf("SpreadClue failed: %v", err)
	}
	if card.Face != want.Face {
		t.Errorf("Expected the top event card. Got: %q", card.Face)
	}
	if h.delta(t) != 1 {
		t.Errorf("Neighbourhood must grow by one; delta %d", h.delta(t))
	}
}

func TestSpreadTerror_DefaultDestination(t *testing.T) {
	s := stateFor(t, catalog.TyrantsOfRuin, int(catalog.UnderDarkWaves))
	terrorBefore := s.terror().Size()

	spread, err := s.SpreadTerror("p")
	if err != nil {
		t.Fatalf("SpreadTerror failed: %v", err)
	}
	if spread.FromDiscard {
		t.Error("Empty discard must use the default destination")
	}
	if spread.Destination != catalog.InnsmouthShore {
		t.Errorf("Expected Innsmouth Shore. Got: %s", spread.Destination)
	}
	pile, _ := s.neighbourhood(catalog.InnsmouthShore)
	if pile.AttachedTerror.Size() != 1 {
		t.Error("Destination must gain one attached terror card")
	}
	if s.terror().Size() != terrorBefore-1 {
		t.Error("Terror pile must shrink by one")
	}
}

func TestSpreadTerror_DiscardDestination(t *testing.T) {
	s := stateFor(t, catalog.TyrantsOfRuin, int(catalog.UnderDarkWaves))
	doomed, _ := s.SpreadDoom("p")

	spread, err := s.SpreadTerror("p")
	if err != nil {
		t.Fatalf("SpreadTerror failed: %v", err)
	}
	if !spread.FromDiscard || spread.Destination != doomed.Neighbourhood {
		t.Errorf("Expected destination from discard bottom %s. Got: %+v", doomed.Neighbourhood, spread)
	}
}

func TestSpreadTerror_NoTerrorScenario(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	if _, err := s.SpreadTerror("p"); !errors.Is(err, deck.ErrInvalidOp) {
		t.Errorf("Expected ErrInvalidOp. Got: %v", err)
	}
}

func TestDrawTerrorFromNeighbourhood_ReturnsToTerrorBottom(t *testing.T) {
	s := stateFor(t, catalog.TyrantsOfRuin, int(catalog.UnderDarkWaves))
	if err := s.PlaceTerror(catalog.Northside, "p"); err != nil {
		t.Fatalf("PlaceTerror failed: %v", err)
	}
	terrorBefore := s.terror().Size()

	card, err := s.DrawTerrorFromNeighbourhood(catalog.Northside, "p")
	if err != nil {
		t.Fatalf("DrawTerror failed: %v", err)
	}
	if s.terror().Size() != terrorBefore+1 {
		t.Error("Terror card must rejoin the terror pile")
	}
	bottom, _ := s.terror().PeekBottom()
	if bottom.Face != card.Face {
		t.Error("Terror card must land on the bottom of the terror pile")
	}

	pile, _ := s.neighbourhood(catalog.Northside)
	if pile.AttachedTerror.Size() != 0 {
		t.Error("Attached terror sub-pile must be empty again")
	}
}

func TestDrawTerror_EmptyAttachedPile(t *testing.T) {
	s := stateFor(t, catalog.TyrantsOfRuin, int(catalog.UnderDarkWaves))
	if _, err := s.DrawTerrorFromNeighbourhood(catalog.Northside, "p"); !errors.Is(err, deck.ErrEmptyDeck) {
		t.Errorf("Expected ErrEmptyDeck. Got: %v", err)
	}
}

func TestGateBurst_DrawsAndReshuffles(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	s.SpreadDoom("p")
	deckBefore := s.eventDeck().Size()
	discardBefore := s.eventDiscard().Size()
	want, _ := s.eventDeck().PeekTop()

	card, drew, err := s.GateBurst("p")
	if err != nil || !drew {
		t.Fatalf("GateBurst failed: %v, drew=%v", err, drew)
	}
	if card.Face != want.Face {
		t.Errorf("Expected the top card. Got: %q", card.Face)
	}
	if s.eventDiscard().Size() != 0 {
		t.Error("Discard must be cleared")
	}
	// The drawn card and the old discard both return underneath the deck.
	if s.eventDeck().Size() != deckBefore+discardBefore {
		t.Errorf("Expected %d cards in the deck. Got: %d", deckBefore+discardBefore, s.eventDeck().Size())
	}
}

func TestGateBurst_EmptyDeckOnlyReshuffles(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	s.SpreadDoom("p")
	discarded := s.eventDiscard().Size()
	s.eventDeck().Cards = nil

	_, drew, err := s.GateBurst("p")
	if err != nil {
		t.Fatalf("GateBurst failed: %v", err)
	}
	if drew {
		t.Error("No card must be drawn from an empty deck")
	}
	if s.eventDeck().Size() != discarded || s.eventDiscard().Size() != 0 {
		t.Error("Discard must move underneath the deck")
	}
}

func TestDrawHeadline_RumorReplacesRumorPile(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	back := s.headline().CardBack
	s.headline().Cards = []deck.Card{
		deck.HeadlineCard("headline_29", back, true),
		deck.HeadlineCard("headline_1", back, false),
	}

	card, err := s.DrawHeadline("p")
	if err != nil || card.IsRumor {
		t.Fatalf("Expected a non-rumor first. Got: %+v, %v", card, err)
	}
	if _, ok := s.RumorCard(); ok {
		t.Error("Non-rumor headline must not create a rumor")
	}

	card, err = s.DrawHeadline("p")
	if err != nil || !card.IsRumor {
		t.Fatalf("Expected the rumor. Got: %+v, %v", card, err)
	}
	rumor, ok := s.RumorCard()
	if !ok || rumor.Counters != 0 {
		t.Errorf("Expected active rumor with 0 counters. Got: %+v, %v", rumor, ok)
	}
	if s.rumor().Size() != 1 {
		t.Errorf("Rumor pile must hold exactly one card. Got: %d", s.rumor().Size())
	}
}

func TestDrawHeadline_BoundDecreasesMonotonically(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	start := s.HeadlineRemaining()
	if start > 13 {
		t.Fatalf("Headline pile must start at 13 or fewer. Got: %d", start)
	}
	for draws := 1; draws <= start; draws++ {
		if _, err := s.DrawHeadline("p"); err != nil {
			t.Fatalf("Draw %d failed: %v", draws, err)
		}
		if s.HeadlineRemaining() != start-draws {
			t.Fatalf("Expected %d headlines left after %d draws. Got: %d", start-draws, draws, s.HeadlineRemaining())
		}
	}
	if _, err := s.DrawHeadline("p"); !errors.Is(err, deck.ErrEmptyDeck) {
		t.Errorf("Expected ErrEmptyDeck. Got: %v", err)
	}
}

func TestRumorCounters_ModifyAndClear(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	back := s.headline().CardBack
	s.headline().Cards = []deck.Card{deck.HeadlineCard("headline_29", back, true)}
	s.DrawHeadline("p")

	if _, err := s.ModifyCounterOnRumor(2, "p"); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	card, _ := s.ModifyCounterOnRumor(-5, "p")
	if card.Counters != 0 {
		t.Errorf("Counters must clamp at 0. Got: %d", card.Counters)
	}

	if err := s.ClearRumor("p"); err != nil {
		t.Fatalf("ClearRumor failed: %v", err)
	}
	if err := s.ClearRumor("p"); !errors.Is(err, deck.ErrInvalidOp) {
		t.Errorf("Expected ErrInvalidOp without a rumor. Got: %v", err)
	}
}

func TestAddFromArchive_PlainCodexGoesToCodex(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)

	card, err := s.AddFromArchive(19, "p")
	if err != nil {
		t.Fatalf("AddFromArchive failed: %v", err)
	}
	if card.Kind != deck.KindCodex {
		t.Fatalf("Expected plain codex card. Got: %+v", card)
	}
	if !s.codex().Has(19) || s.archive().Has(19) {
		t.Error("Card 19 must move from archive to codex")
	}

	if _, err := s.AddFromArchive(19, "p"); !errors.Is(err, deck.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a promoted card. Got: %v", err)
	}
}

func TestAddFromArchive_ShuffleEncounterJoinsNeighbourhood(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	h := mustNeighbourhood(t, s, catalog.Downtown)

	if _, err := s.AddFromArchive(13, "p"); err != nil {
		t.Fatalf("AddFromArchive failed: %v", err)
	}
	if h.delta(t) != 1 {
		t.Errorf("Downtown must gain the encounter; delta %d", h.delta(t))
	}
	if s.codex().Has(13) || s.archive().Has(13) {
		t.Error("Card 13 must live in the neighbourhood pile only")
	}
}

func TestAddFromArchive_AttachableAttaches(t *testing.T) {
	s := stateFor(t, catalog.EchoesOfTheDeep, 0)

	if _, err := s.AddFromArchive(32, "p"); err != nil {
		t.Fatalf("AddFromArchive failed: %v", err)
	}
	pile, _ := s.neighbourhood(catalog.Rivertown)
	if !pile.HasCodex(32) {
		t.Error("Card 32 must attach to Rivertown")
	}
}

func TestReturnToArchive_ResetsCardState(t *testing.T) {
	s := stateFor(t, catalog.EchoesOfTheDeep, 0)
	s.AddFromArchive(32, "p")
	s.ModifyCounterOnCodex(32, 3, "p")
	s.FlipCodex(32, "p")

	if err := s.ReturnToArchive(32, "p"); err != nil {
		t.Fatalf("ReturnToArchive failed: %v", err)
	}
	card, ok := s.archive().Get(32)
	if !ok {
		t.Fatal("Card 32 must be back in the archive")
	}
	if card.Counters != 0 || card.IsFlipped {
		t.Errorf("Counters and flip state must reset. Got: %+v", card)
	}

	pile, _ := s.neighbourhood(catalog.Rivertown)
	if pile.AttachedCodex != nil {
		t.Error("Rivertown must no longer hold the attachment")
	}
}

func TestModifyCounterOnCodex_InCodexPile(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	s.AddFromArchive(19, "p")

	card, err := s.ModifyCounterOnCodex(19, 2, "p")
	if err != nil || card.Counters != 2 {
		t.Fatalf("Expected 2 counters. Got: %+v, %v", card, err)
	}
	card, _ = s.ModifyCounterOnCodex(19, -5, "p")
	if card.Counters != 0 {
		t.Errorf("Counters must clamp at 0. Got: %d", card.Counters)
	}

	if _, err := s.ModifyCounterOnCodex(999, 1, "p"); !errors.Is(err, deck.ErrNotFound) {
		t.Errorf("Expected ErrNotFound. Got: %v", err)
	}
}

func TestCodexUniqueness_AcrossMoves(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)

	countOccurrences := func(n int) int {
		count := 0
		if s.archive().Has(n) {
			count++
		}
		if s.codex().Has(n) {
			count++
		}
		for _, nb := range s.order {
			pile, err := s.neighbourhood(nb)
			if err != nil {
				continue
			}
			if pile.HasCodex(n) {
				count++
			}
			for _, c := range pile.Cards {
				if c.IsCodex() && c.Number == n {
					count++
				}
			}
		}
		return count
	}

	if countOccurrences(13) != 1 {
		t.Fatal("Card 13 must start in exactly one place")
	}
	s.AddFromArchive(13, "p")
	if countOccurrences(13) != 1 {
		t.Error("Card 13 duplicated after promotion")
	}
	s.AddFromArchive(19, "p")
	if countOccurrences(19) != 1 {
		t.Error("Card 19 duplicated after promotion")
	}
	s.ReturnToArchive(19, "p")
	if countOccurrences(19) != 1 {
		t.Error("Card 19 duplicated after return")
	}
}

func TestAddNeighbourhood_GeneralCase(t *testing.T) {
	s := stateFor(t, catalog.DreamsOfRlyeh, int(catalog.UnderDarkWaves))
	s.SpreadDoom("p")
	deckBefore := s.eventDeck().Size()
	discardBefore := s.eventDiscard().Size()

	doom, err := s.AddNeighbourhood(catalog.CentralKingsport, "p")
	if err != nil {
		t.Fatalf("AddNeighbourhood failed: %v", err)
	}
	if doom != 0 {
		t.Errorf("General case must add no doom. Got: %d", doom)
	}

	pile, err := s.neighbourhood(catalog.CentralKingsport)
	if err != nil || pile.Size() != 4 {
		t.Fatalf("Expected the unlocked pile live with 4 cards. Got: %v, %v", pile, err)
	}
	// Two held-aside event cards plus the reshuffled discard join the deck.
	if s.eventDeck().Size() != deckBefore+2+discardBefore {
		t.Errorf("Event deck size off: %d", s.eventDeck().Size())
	}
	if s.eventDiscard().Size() != 0 {
		t.Error("Discard must be cleared after the reshuffle")
	}

	if _, err := s.AddNeighbourhood(catalog.CentralKingsport, "p"); !errors.Is(err, deck.ErrInvalidOp) {
		t.Errorf("Expected ErrInvalidOp for a second unlock. Got: %v", err)
	}
	if _, err := s.AddNeighbourhood(catalog.Downtown, "p"); !errors.Is(err, deck.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a deck never held aside. Got: %v", err)
	}
}

func TestAddNeighbourhood_TheUnderworld(t *testing.T) {
	s := stateFor(t, catalog.TheKeyAndTheGate, int(catalog.SecretsOfTheOrder))

	// Leave exactly two cards in the event deck so two of the four probe
	// draws fail.
	s.eventDeck().Cards = s.eventDeck().Cards[:2]

	doom, err := s.AddNeighbourhood(catalog.TheUnderworld, "p")
	if err != nil {
		t.Fatalf("AddNeighbourhood failed: %v", err)
	}
	if doom != 2 {
		t.Errorf("Expected 2 doom from failed probe draws. Got: %d", doom)
	}

	if _, err := s.neighbourhood(catalog.TheUnderworld); err != nil {
		t.Fatalf("The Underworld must be live: %v", err)
	}
	// Two probe draws landed in the discard plus the last two held-aside
	// event cards.
	if s.eventDiscard().Size() != 4 {
		t.Errorf("Expected 4 cards in the discard. Got: %d", s.eventDiscard().Size())
	}
	// The first two held-aside cards restock the deck.
	if s.eventDeck().Size() != 2 {
		t.Errorf("Expected 2 cards in the event deck. Got: %d", s.eventDeck().Size())
	}
}

func TestUndoRedo_RoundTripRestoresState(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)

	if _, err := s.SpreadDoom("p"); err != nil {
		t.Fatalf("SpreadDoom failed: %v", err)
	}
	afterDeck := append([]deck.Card(nil), s.eventDeck().Cards...)
	afterDiscard := append([]deck.Card(nil), s.eventDiscard().Cards...)

	if err := s.Undo("p"); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if s.eventDiscard().Size() != 0 {
		t.Error("Undo must empty the discard again")
	}
	if err := s.Redo("p"); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}

	if !reflect.DeepEqual(s.eventDeck().Cards, afterDeck) {
		t.Error("Redo did not restore the event deck")
	}
	if !reflect.DeepEqual(s.eventDiscard().Cards, afterDiscard) {
		t.Error("Redo did not restore the discard")
	}
}

func TestUndo_NonInterferenceBetweenPlayers(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)

	// X draws an event from Rivertown, Y spreads doom: disjoint labels.
	pile, _ := s.neighbourhood(catalog.Rivertown)
	pile.Top(deck.NeighbourhoodCard("staged_event", pile.CardBack, catalog.Rivertown, true))
	_, ticket, err := s.DrawFromNeighbourhood(catalog.Rivertown, "x")
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if _, err := s.SpreadDoom("y"); err != nil {
		t.Fatalf("SpreadDoom failed: %v", err)
	}
	if !s.CanUndo("x") || !s.CanUndo("y") {
		t.Fatal("Disjoint actions must both stay undoable")
	}

	// X resolves the event as failed: {ActionRequired, Rivertown}, still
	// disjoint from Y's {EventDeck, EventDiscard}.
	if _, err := s.ResolvePending(ticket, false, "x"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !s.CanUndo("x") || !s.CanUndo("y") {
		t.Error("Still-disjoint actions must both stay undoable")
	}
}

func TestUndo_BlockedByOverlappingLabels(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)

	pile, _ := s.neighbourhood(catalog.Rivertown)
	pile.Top(deck.NeighbourhoodCard("staged_event", pile.CardBack, catalog.Rivertown, true))
	if _, _, err := s.DrawFromNeighbourhood(catalog.Rivertown, "x"); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	// Force Y's clue into Rivertown so the change-sets overlap.
	riverCard := deck.NeighbourhoodCard("staged_clue", pile.CardBack, catalog.Rivertown, true)
	s.eventDeck().Top(riverCard)
	if _, err := s.SpreadClue("y"); err != nil {
		t.Fatalf("SpreadClue failed: %v", err)
	}

	if s.CanUndo("x") {
		t.Error("X's undo must be blocked while Y's overlapping action is current")
	}
	if !s.CanUndo("y") {
		t.Fatal("Y must be able to undo")
	}

	if err := s.Undo("y"); err != nil {
		t.Fatalf("Y's undo failed: %v", err)
	}
	if !s.CanUndo("x") {
		t.Error("X's undo must unblock once Y steps back")
	}
}

func TestUndo_NothingToUndo(t *testing.T) {
	s := stateFor(t, catalog.FeastForUmordhoth, 0)
	if s.CanUndo("p") || s.CanRedo("p") {
		t.Error("Fresh state must have nothing to undo or redo")
	}
	if err := s.Undo("p"); !errors.Is(err, deck.ErrInvalidOp) {
		t.Errorf("Expected ErrInvalidOp. Got: %v", err)
	}
	if err := s.Redo("p"); !errors.Is(err, deck.ErrInvalidOp) {
		t.Errorf("Expected ErrInvalidOp. Got: %v", err)
	}
}

func TestUndo_AddNeighbourhoodMakesDeckAddableAgain(t *testing.T) {
	s := stateFor(t, catalog.DreamsOfRlyeh, int(catalog.UnderDarkWaves))

	if _, err := s.AddNeighbourhood(catalog.KingsportHarbor, "p"); err != nil {
		t.Fatalf("AddNeighbourhood failed: %v", err)
	}
	info := s.UpdateInfo()
	for _, name := range info.AddableDecks {
		if name == string(catalog.KingsportHarbor) {
			t.Fatal("Unlocked deck must leave the addable list")
		}
	}

	if err := s.Undo("p"); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if _, err := s.neighbourhood(catalog.KingsportHarbor); err == nil {
		t.Error("Undone neighbourhood must not be live")
	}
	found := false
	for _, name := range s.UpdateInfo().AddableDecks {
		if name == string(catalog.KingsportHarbor) {
			found = true
		}
	}
	if !found {
		t.Error("Undone deck must be addable again")
	}
}
