// Package session owns the connected clients, the seated-player roster,
// the single active game state and the command table that maps wire
// actions onto game operations.
package session

import (
	"github.com/rawblock/arkham-companion/internal/deck"
)

// ClientMessage is the envelope every client frame decodes into. Only the
// fields relevant to the action are populated.
type ClientMessage struct {
	Action       string `json:"action"`
	Scenario     string `json:"scenario"`
	Expansions   int    `json:"expansions"`
	PlayerName   string `json:"player_name"`
	PlayerColour string `json:"player_colour"`
	Deck         string `json:"deck"`
	Identifier   string `json:"identifier"`
	Passed       bool   `json:"passed"`
	Codex        int    `json:"codex"`
}

// CardViewState tells the client how to present a card.
type CardViewState string

const (
	ViewFaceBack       CardViewState = "face_back"
	ViewBackFace       CardViewState = "back_face"
	ViewEvent          CardViewState = "event"
	ViewArchive        CardViewState = "archive"
	ViewUnflippedCodex CardViewState = "un_flipped_codex"
	ViewFlippedCodex   CardViewState = "flipped_codex"
	ViewRumor          CardViewState = "rumor"
)

// CardView is the canonical card projection sent to clients.
type CardView struct {
	Face       string        `json:"face"`
	Back       string        `json:"back"`
	State      CardViewState `json:"state"`
	Identifier string        `json:"identifier"`
	Number     int           `json:"number"`
	Counters   int           `json:"counters"`
}

// NewCardView projects a card for the wire. The identifier is only set for
// event cards awaiting resolution.
func NewCardView(c deck.Card, state CardViewState, identifier string) CardView {
	return CardView{
		Face:       c.Face,
		Back:       c.Back,
		State:      state,
		Identifier: identifier,
		Number:     c.Number,
		Counters:   c.Counters,
	}
}

// codexViewState picks the view state for a codex card by its flip side.
func codexViewState(c deck.Card) CardViewState {
	if c.IsFlipped {
		return ViewFlippedCodex
	}
	return ViewUnflippedCodex
}

type ackMessage struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

func newAck(message string) ackMessage {
	return ackMessage{Action: "ack", Message: message}
}

type errorMessage struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

func newError(message string) errorMessage {
	return errorMessage{Action: "error", Message: message}
}

type bootMessage struct {
	Action string `json:"action"`
}

func newBoot() bootMessage { return bootMessage{Action: "boot"} }

type helloMessage struct {
	Action        string   `json:"action"`
	GameAvailable bool     `json:"game_available"`
	TakenNames    []string `json:"taken_names,omitempty"`
	TakenColours  []string `json:"taken_colours,omitempty"`
}

type reconnectMessage struct {
	Action string `json:"action"`
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

type updateMessage struct {
	Action   string `json:"action"`
	GameData any    `json:"game_data"`
	CanUndo  bool   `json:"can_undo"`
	CanRedo  bool   `json:"can_redo"`
}

type viewerReply struct {
	Action  string     `json:"action"`
	Trigger string     `json:"trigger,omitempty"`
	Deck    string     `json:"deck,omitempty"`
	Cards   []CardView `json:"cards"`
}

// LogMessage is one line of the shared game log, broadcast as it happens
// and replayed in bulk to joining players.
type LogMessage struct {
	Action  string    `json:"action"`
	Message string    `json:"message"`
	Card    *CardView `json:"card,omitempty"`
	Colour  string    `json:"colour"`
}

func newLog(message string, card *CardView, colour string) LogMessage {
	return LogMessage{Action: "log", Message: message, Card: card, Colour: colour}
}

type allLogsMessage struct {
	Action string       `json:"action"`
	Logs   []LogMessage `json:"logs"`
}
