package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CardSet is the read-only card reference table supplied to the core at
// session creation. Image identifiers are opaque strings; the factory
// lowercases them on use. The server loads one CardSet from a JSON file at
// startup and never mutates it.
type CardSet struct {
	// Neighbourhoods maps each neighbourhood to its back image and the
	// face images contributed per expansion bit (key "0" is the base set).
	Neighbourhoods map[Neighbourhood]NeighbourhoodCards `json:"neighbourhoods"`
	// Events maps each scenario to its event cards. The back image also
	// identifies the card's neighbourhood.
	Events map[Scenario][]CardFaces `json:"events"`
	// Headlines carries the shared back and face images per expansion bit.
	Headlines ExpansionFaces `json:"headlines"`
	// Codex maps the codex number to its face and back.
	Codex map[int]CardFaces `json:"codex"`
	// Terror maps the terror kind to its back and faces.
	Terror map[TerrorKind]TerrorCards `json:"terror"`
}

// NeighbourhoodCards is the card material for one neighbourhood deck.
type NeighbourhoodCards struct {
	Back        string           `json:"back"`
	ByExpansion map[int][]string `json:"by_expansion"`
}

// CardFaces is a face/back image pair.
type CardFaces struct {
	Face string `json:"face"`
	Back string `json:"back"`
}

// ExpansionFaces is a shared back plus faces keyed by expansion bit.
type ExpansionFaces struct {
	Back        string           `json:"back"`
	ByExpansion map[int][]string `json:"by_expansion"`
}

// TerrorCards is the material for one terror deck.
type TerrorCards struct {
	Back  string   `json:"back"`
	Faces []string `json:"faces"`
}

// LoadCardSet reads a CardSet from a JSON file.
func LoadCardSet(path string) (*CardSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card set: %w", err)
	}
	var set CardSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("parse card set %s: %w", path, err)
	}
	if err := set.Check(); err != nil {
		return nil, fmt.Errorf("card set %s: %w", path, err)
	}
	return &set, nil
}

// Check verifies the table covers at least the base game. It does not try
// to prove completeness for every scenario; missing material surfaces as an
// error at start_game instead.
func (cs *CardSet) Check() error {
	if len(cs.Neighbourhoods) == 0 {
		return fmt.Errorf("no neighbourhood cards")
	}
	if len(cs.Events) == 0 {
		return fmt.Errorf("no event cards")
	}
	if cs.Headlines.Back == "" || len(cs.Headlines.ByExpansion) == 0 {
		return fmt.Errorf("no headline cards")
	}
	if len(cs.Codex) == 0 {
		return fmt.Errorf("no codex cards")
	}
	return nil
}

// NeighbourhoodByBack resolves a neighbourhood from the lowercased back
// image of one of its cards.
func (cs *CardSet) NeighbourhoodByBack(back string) (Neighbourhood, bool) {
	for nb, cards := range cs.Neighbourhoods {
		if strings.ToLower(cards.Back) == back {
			return nb, true
		}
	}
	return "", false
}
