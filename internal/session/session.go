package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/rawblock/arkham-companion/internal/catalog"
	"github.com/rawblock/arkham-companion/internal/game"
)

// LogStore persists session starts and log lines for later inspection. A
// nil store disables persistence.
type LogStore interface {
	SaveSessionStart(ctx context.Context, scenario string, expansions int, playerName string) error
	SaveLogLine(ctx context.Context, message, colour string) error
}

type handlerFunc func(*Session, *ClientMessage, *Client)

// Session owns every connection, the seated-player roster and the single
// active game. One mutex serialises command dispatch end to end, so no
// two mutations ever interleave and every broadcast observes a quiesced
// state.
type Session struct {
	mu sync.Mutex

	clients map[*Client]bool
	players map[*Client]string // seated: client -> name
	byName  map[string]*Client
	colours map[*Client]string

	game *game.State
	logs []LogMessage // newest first

	cards *catalog.CardSet
	store LogStore

	handlers map[string]handlerFunc
}

// New builds a session over the given card reference table. store may be
// nil.
func New(cards *catalog.CardSet, store LogStore) *Session {
	s := &Session{
		clients: make(map[*Client]bool),
		players: make(map[*Client]string),
		byName:  make(map[string]*Client),
		colours: make(map[*Client]string),
		cards:   cards,
		store:   store,
	}
	s.handlers = map[string]handlerFunc{
		"start_game":           (*Session).handleStartGame,
		"connect":              (*Session).handleConnect,
		"reconnect":            (*Session).handleReconnect,
		"draw":                 (*Session).handleDraw,
		"resolve_event":        (*Session).handleResolveEvent,
		"view_discard":         (*Session).handleViewDiscard,
		"view_codex":           (*Session).handleViewCodex,
		"view_archive":         (*Session).handleViewArchive,
		"add_codex":            (*Session).handleAddCodex,
		"flip_codex":           (*Session).handleFlipCodex,
		"remove_codex":         (*Session).handleRemoveCodex,
		"view_attached_codex":  (*Session).handleViewAttachedCodex,
		"add_counter_codex":    (*Session).handleAddCounterCodex,
		"remove_counter_codex": (*Session).handleRemoveCounterCodex,
		"draw_terror":          (*Session).handleDrawTerror,
		"add_deck":             (*Session).handleAddDeck,
		"spread_clue":          (*Session).handleSpreadClue,
		"spread_doom":          (*Session).handleSpreadDoom,
		"spread_terror":        (*Session).handleSpreadTerror,
		"place_terror":         (*Session).handlePlaceTerror,
		"gate_burst":           (*Session).handleGateBurst,
		"headline":             (*Session).handleHeadline,
		"view_rumor":           (*Session).handleViewRumor,
		"remove_rumor":         (*Session).handleRemoveRumor,
		"add_counter_rumor":    (*Session).handleAddCounterRumor,
		"remove_counter_rumor": (*Session).handleRemoveCounterRumor,
		"undo":                 (*Session).handleUndo,
		"redo":                 (*Session).handleRedo,
	}
	return s
}

// Register adds a freshly upgraded connection and greets everyone with the
// current roster.
func (s *Session) Register(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c] = true
	log.Printf("Client connected. Total clients: %d", len(s.clients))
	s.sendHellos()
}

// Unregister drops a connection, unseats the player if seated, and tears
// the game down when the room empties.
func (s *Session) Unregister(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, c)
	log.Printf("Client disconnected. Total clients: %d", len(s.clients))

	if name, seated := s.players[c]; seated {
		s.sendLog("%s has disconnected!", c, nil)
		delete(s.byName, name)
		delete(s.players, c)
		delete(s.colours, c)
	}

	if len(s.clients) == 0 {
		log.Println("No players left in game, deleted it.")
		s.game = nil
		s.logs = nil
	}

	s.sendHellos()
	c.shutdown()
}

// HandleMessage dispatches one client frame. The session mutex is held for
// the whole parse, mutate and reply-staging sequence, which gives the
// ordering guarantees the protocol promises.
func (s *Session) HandleMessage(raw []byte, sender *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError("Invalid Json received", sender)
		return
	}
	handler, ok := s.handlers[msg.Action]
	if !ok {
		s.sendError("Invalid Command received", sender)
		return
	}
	handler(s, &msg, sender)
}

// ---- staged sends (all called with s.mu held) ----

func (s *Session) sendAck(message string, to *Client) {
	to.enqueue(newAck(message))
}

func (s *Session) sendError(message string, to *Client) {
	to.enqueue(newError(message))
}

// broadcast sends to every connection, seated or not.
func (s *Session) broadcast(v any) {
	for c := range s.clients {
		c.enqueue(v)
	}
}

// broadcastPlayers sends to seated players only.
func (s *Session) broadcastPlayers(v any) {
	for c := range s.players {
		c.enqueue(v)
	}
}

// update broadcasts the board projection with per-recipient undo flags.
func (s *Session) update() {
	if s.game == nil {
		return
	}
	info := s.game.UpdateInfo()
	for c := range s.players {
		c.enqueue(updateMessage{
			Action:   "update",
			GameData: info,
			CanUndo:  s.game.CanUndo(c.ID),
			CanRedo:  s.game.CanRedo(c.ID),
		})
	}
}

// sendLog formats the message with the originator's name, stores it
// newest-first and broadcasts it to seated players.
func (s *Session) sendLog(format string, originator *Client, card *CardView) {
	name := s.players[originator]
	colour := s.colours[originator]
	entry := newLog(fmt.Sprintf(format, name), card, colour)

	s.logs = append([]LogMessage{entry}, s.logs...)
	s.broadcastPlayers(entry)

	if s.store != nil {
		if err := s.store.SaveLogLine(context.Background(), entry.Message, colour); err != nil {
			log.Printf("Failed to save log line: %v", err)
		}
	}
}

// sendHellos broadcasts the roster so lobby screens stay current.
func (s *Session) sendHellos() {
	msg := helloMessage{Action: "hello", GameAvailable: s.game != nil}
	if s.game != nil {
		for _, name := range s.players {
			msg.TakenNames = append(msg.TakenNames, name)
		}
		for _, colour := range s.colours {
			msg.TakenColours = append(msg.TakenColours, colour)
		}
	}
	s.broadcast(msg)
}

// seated returns whether the sender holds a seat; unseated connections may
// only run lobby commands.
func (s *Session) seated(c *Client) bool {
	_, ok := s.players[c]
	return ok
}

// requireGame guards commands that need both an active game and a seat.
func (s *Session) requireGame(sender *Client) bool {
	if s.game == nil {
		s.sendError("The game has not been started yet.", sender)
		return false
	}
	if !s.seated(sender) {
		s.sendError("You have not joined the game.", sender)
		return false
	}
	return true
}
