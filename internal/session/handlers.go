package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/deck"
	"github.com/rawblock/arkham-companion/internal/game"
)

func (s *Session) handleStartGame(msg *ClientMessage, sender *Client) {
	settings := catalog.Settings{
		Scenario:   catalog.Scenario(msg.Scenario),
		Expansions: msg.Expansions,
	}
	state, err := game.New(s.cards, settings)
	if err != nil {
		s.sendError("Bad scenario or expansion values.", sender)
		return
	}
	s.game = state

	// A new game boots every previously seated player.
	s.broadcastPlayers(newBoot())
	s.players = make(map[*Client]string)
	s.byName = make(map[string]*Client)
	s.colours = make(map[*Client]string)
	s.logs = nil

	sender.enqueue(updateMessage{Action: "update", GameData: s.game.UpdateInfo()})
	s.players[sender] = msg.PlayerName
	s.byName[msg.PlayerName] = sender
	s.colours[sender] = msg.PlayerColour

	s.sendHellos()
	s.sendLog(fmt.Sprintf("%%s Started the Game! Scenario: %s; Expansion(s): %s",
		msg.Scenario, catalog.ExpansionText(msg.Expansions)), sender, nil)

	if s.store != nil {
		if err := s.store.SaveSessionStart(context.Background(), msg.Scenario, msg.Expansions, msg.PlayerName); err != nil {
			log.Printf("Failed to save session start: %v", err)
		}
	}
}

func (s *Session) handleConnect(msg *ClientMessage, sender *Client) {
	if s.game == nil {
		s.sendError("The game has not been started yet.", sender)
		return
	}
	if _, taken := s.byName[msg.PlayerName]; taken {
		s.sendError("That name has already been chosen.", sender)
		return
	}
	for _, colour := range s.colours {
		if colour == msg.PlayerColour {
			s.sendError("That color has already been chosen.", sender)
			return
		}
	}

	sender.enqueue(updateMessage{Action: "update", GameData: s.game.UpdateInfo()})
	s.players[sender] = msg.PlayerName
	s.byName[msg.PlayerName] = sender
	s.colours[sender] = msg.PlayerColour

	sender.enqueue(allLogsMessage{Action: "all_logs", Logs: append([]LogMessage{}, s.logs...)})
	s.sendHellos()
	s.sendLog("%s has joined!", sender, nil)
}

func (s *Session) handleReconnect(_ *ClientMessage, sender *Client) {
	if !s.seated(sender) {
		s.sendError("Can't Reconnect. Please use the join button.", sender)
		return
	}
	sender.enqueue(reconnectMessage{
		Action: "reconnect_reply",
		Name:   s.players[sender],
		Colour: s.colours[sender],
	})
	s.sendLog("%s has reconnected!", sender, nil)
}

func (s *Session) handleDraw(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	nb := catalog.Neighbourhood(msg.Deck)
	card, ticket, err := s.game.DrawFromNeighbourhood(nb, sender.ID)
	if err != nil {
		s.sendError("Bad draw message.", sender)
		return
	}

	state := ViewFaceBack
	if card.IsEvent {
		state = ViewEvent
	}
	view := NewCardView(card, state, ticket)
	sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{view}})
	s.sendLog(fmt.Sprintf("%%s has drawn from the %s deck: View Card", nb), sender, &view)
	s.update()
}

func (s *Session) handleResolveEvent(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if _, err := s.game.ResolvePending(msg.Identifier, msg.Passed, sender.ID); err != nil {
		s.sendError("Bad resolve event message.", sender)
		return
	}
	outcome := "failed"
	if msg.Passed {
		outcome = "passed"
	}
	s.sendLog(fmt.Sprintf("%%s has %s his event!", outcome), sender, nil)
	s.update()
}

func (s *Session) handleViewDiscard(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	cards := s.game.DiscardCards()
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, NewCardView(c, ViewFaceBack, ""))
	}
	sender.enqueue(viewerReply{Action: "viewer_reply", Trigger: "view_discard", Cards: views})
}

func (s *Session) handleViewCodex(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	cards := s.game.CodexCards()
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, NewCardView(c, codexViewState(c), ""))
	}
	sender.enqueue(viewerReply{Action: "viewer_reply", Trigger: "view_codex", Cards: views})
}

func (s *Session) handleViewArchive(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	cards := s.game.ArchiveCards()
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, NewCardView(c, ViewArchive, ""))
	}
	sender.enqueue(viewerReply{Action: "viewer_reply", Trigger: "view_archive", Cards: views})
}

func (s *Session) handleAddCodex(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, err := s.game.AddFromArchive(msg.Codex, sender.ID)
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) {
			s.sendError("Card already in Codex", sender)
			return
		}
		s.sendError("Bad add codex message.", sender)
		return
	}

	s.sendAck("Codex card added!", sender)
	switch {
	case card.Kind == deck.KindCodexNeighbourhood && card.CanAttach:
		s.sendLog(fmt.Sprintf("%%s has attached Codex card %d to the %s deck.", msg.Codex, card.Neighbourhood), sender, nil)
	case card.Kind == deck.KindCodexNeighbourhood && card.IsEncounter:
		s.sendLog(fmt.Sprintf("%%s has added Codex card %d to the %s deck.", msg.Codex, card.Neighbourhood), sender, nil)
	default:
		s.sendLog(fmt.Sprintf("%%s has added card %d to the codex.", msg.Codex), sender, nil)
	}
	s.update()
}

func (s *Session) handleFlipCodex(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, err := s.game.FlipCodex(msg.Codex, sender.ID)
	if err != nil {
		s.sendError("Can't find card to flip!", sender)
		return
	}
	view := NewCardView(card, ViewFlippedCodex, "")
	s.sendAck("Codex card flipped!", sender)
	s.sendLog(fmt.Sprintf("%%s has flipped Codex card %d. View Card", msg.Codex), sender, &view)
	s.update()
}

func (s *Session) handleRemoveCodex(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if err := s.game.ReturnToArchive(msg.Codex, sender.ID); err != nil {
		s.sendError("Bad remove codex message.", sender)
		return
	}
	s.sendAck("Codex card moved to archive!", sender)
	s.sendLog(fmt.Sprintf("%%s has returned Codex card %d to the archive.", msg.Codex), sender, nil)
	s.update()
}

func (s *Session) handleViewAttachedCodex(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	nb := catalog.Neighbourhood(msg.Deck)
	card, err := s.game.AttachedCodexCard(nb)
	if err != nil {
		sender.enqueue(viewerReply{Action: "viewer_reply", Trigger: "view_attached_codex", Deck: msg.Deck, Cards: []CardView{}})
		return
	}
	view := NewCardView(card, codexViewState(card), "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Trigger: "view_attached_codex", Deck: msg.Deck, Cards: []CardView{view}})
}

func (s *Session) handleAddCounterCodex(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if _, err := s.game.ModifyCounterOnCodex(msg.Codex, 1, sender.ID); err != nil {
		s.sendError("Invalid codex card number!", sender)
		return
	}
	s.sendAck("Counter Added", sender)
	s.update()
}

func (s *Session) handleRemoveCounterCodex(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if _, err := s.game.ModifyCounterOnCodex(msg.Codex, -1, sender.ID); err != nil {
		s.sendError("Invalid codex card number!", sender)
		return
	}
	s.sendAck("Counter Removed", sender)
	s.update()
}

func (s *Session) handleDrawTerror(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	nb := catalog.Neighbourhood(msg.Deck)
	card, err := s.game.DrawTerrorFromNeighbourhood(nb, sender.ID)
	if err != nil {
		s.sendError("No Terror cards were attached.", sender)
		return
	}
	view := NewCardView(card, ViewFaceBack, "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{view}})
	s.sendLog(fmt.Sprintf("%%s has drawn a terror card the %s deck: View Card", nb), sender, &view)
	s.update()
}

func (s *Session) handleAddDeck(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	nb := catalog.Neighbourhood(msg.Deck)
	doom, err := s.game.AddNeighbourhood(nb, sender.ID)
	if err != nil {
		s.sendError("Bad add deck message.", sender)
		return
	}
	if doom == 0 {
		s.sendAck("Deck added!", sender)
		s.sendLog(fmt.Sprintf("%%s has added the %s deck to the game!", nb), sender, nil)
	} else {
		s.sendAck(fmt.Sprintf("Deck added! Add %d doom tokens to the scenario sheet.", doom), sender)
		s.sendLog(fmt.Sprintf("%%s has added the %s deck to the game and added %d doom tokens to the scenario sheet!", nb, doom), sender, nil)
	}
	s.update()
}

func (s *Session) handleSpreadClue(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, err := s.game.SpreadClue(sender.ID)
	if err != nil {
		sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{}})
		s.sendLog("%s tried to spread a clue, but the Event deck was empty! Add a doom to the sheet instead.", sender, nil)
		s.update()
		return
	}
	view := NewCardView(card, ViewBackFace, "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{view}})
	s.sendLog(fmt.Sprintf("%%s has spread a clue to the %s deck: View Card", card.Neighbourhood), sender, &view)
	s.update()
}

func (s *Session) handleSpreadDoom(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, err := s.game.SpreadDoom(sender.ID)
	if err != nil {
		sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{}})
		s.sendLog("%s tried to spread doom, but the Event deck was empty! Add a doom to the sheet instead.", sender, nil)
		s.update()
		return
	}
	view := NewCardView(card, ViewFaceBack, "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{view}})
	s.sendLog(fmt.Sprintf("%%s has spread doom to the %s deck: View Card", card.Neighbourhood), sender, &view)
	s.update()
}

func (s *Session) handleSpreadTerror(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	spread, err := s.game.SpreadTerror(sender.ID)
	if err != nil {
		if errors.Is(err, deck.ErrEmptyDeck) {
			s.sendAck("No Terror Cards Remaining!", sender)
			s.sendLog("%s tried to spread terror, but the Terror deck was empty! Add a doom to the sheet instead.", sender, nil)
			return
		}
		s.sendError("This scenario has no Terror deck.", sender)
		return
	}

	s.sendAck("Terror Spread!", sender)
	if spread.FromDiscard {
		view := NewCardView(spread.Card, ViewFaceBack, "")
		s.sendLog(fmt.Sprintf("%%s has spread terror to the %s: View Card", spread.Destination), sender, &view)
	} else {
		s.sendLog(fmt.Sprintf("%%s has spread terror to the %s deck using the default location.", spread.Destination), sender, nil)
	}
	s.update()
}

func (s *Session) handlePlaceTerror(msg *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	nb := catalog.Neighbourhood(msg.Deck)
	if err := s.game.PlaceTerror(nb, sender.ID); err != nil {
		if errors.Is(err, deck.ErrEmptyDeck) {
			s.sendAck("No Terror Cards Remaining!", sender)
			s.sendLog("%s tried to spread terror, but the Terror deck was empty! Add a doom to the sheet instead.", sender, nil)
			return
		}
		s.sendError("This scenario has no Terror deck.", sender)
		return
	}
	s.sendAck("Terror Spread!", sender)
	s.sendLog(fmt.Sprintf("%%s has spread terror to the %s neighbourhood!", nb), sender, nil)
	s.update()
}

func (s *Session) handleGateBurst(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, drew, err := s.game.GateBurst(sender.ID)
	if err != nil {
		s.sendError("Bad gate burst message.", sender)
		return
	}
	if !drew {
		sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{}})
		s.sendLog("%s tried to gate burst, but the Event deck was empty. Add a doom to the sheet instead.", sender, nil)
		s.update()
		return
	}
	view := NewCardView(card, ViewBackFace, "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{view}})
	s.sendLog(fmt.Sprintf("%%s caused a gate burst in %s: View Card", card.Neighbourhood), sender, &view)
	s.update()
}

func (s *Session) handleHeadline(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, err := s.game.DrawHeadline(sender.ID)
	if err != nil {
		sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{}})
		s.sendLog("%s tried to read a headline, but the deck was empty. Add a doom to the sheet instead.", sender, nil)
		return
	}
	view := NewCardView(card, ViewFaceBack, "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Cards: []CardView{view}})
	s.sendLog(fmt.Sprintf("%%s has read a headline. Only %d headlines left: View Card", s.game.HeadlineRemaining()), sender, &view)
	s.update()
}

func (s *Session) handleViewRumor(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, ok := s.game.RumorCard()
	if !ok {
		s.sendError("There were no active rumors!", sender)
		return
	}
	view := NewCardView(card, ViewRumor, "")
	sender.enqueue(viewerReply{Action: "viewer_reply", Trigger: "view_rumor", Cards: []CardView{view}})
}

func (s *Session) handleRemoveRumor(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if err := s.game.ClearRumor(sender.ID); err != nil {
		s.sendError("There were no active rumors!", sender)
		return
	}
	s.sendAck("Removed Rumor!", sender)
	s.sendLog("%s has dismissed the rumor.", sender, nil)
	s.update()
}

func (s *Session) handleAddCounterRumor(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if _, err := s.game.ModifyCounterOnRumor(1, sender.ID); err != nil {
		s.sendError("No active rumor!", sender)
		return
	}
	s.sendAck("Counter Added", sender)
	s.sendLog("%s added a counter to the rumor.", sender, nil)
	s.update()
}

func (s *Session) handleRemoveCounterRumor(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	card, ok := s.game.RumorCard()
	if !ok {
		s.sendError("No active rumor!", sender)
		return
	}
	if card.Counters == 0 {
		s.sendError("No counters to remove!", sender)
		return
	}
	if _, err := s.game.ModifyCounterOnRumor(-1, sender.ID); err != nil {
		s.sendError("No active rumor!", sender)
		return
	}
	s.sendAck("Counter Removed", sender)
	s.sendLog("%s removed a counter to the rumor.", sender, nil)
	s.update()
}

func (s *Session) handleUndo(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if err := s.game.Undo(sender.ID); err != nil {
		s.sendError("Unable to undo!", sender)
		return
	}
	s.sendAck("Undo successful!", sender)
	s.sendLog("%s has pressed the undo Button!", sender, nil)
	s.update()
}

func (s *Session) handleRedo(_ *ClientMessage, sender *Client) {
	if !s.requireGame(sender) {
		return
	}
	if err := s.game.Redo(sender.ID); err != nil {
		s.sendError("Unable to redo!", sender)
		return
	}
	s.sendAck("Redo successful!", sender)
	s.sendLog("%s has pressed the redo Button!", sender, nil)
	s.update()
}
