package deck

import (
	"fmt"
	"strings"

	"github.com/rawblock/arkham-companion/internal/catalog"
)

// headlineKeep is how many headline cards a game starts with.
const headlineKeep = 13

// Setup is everything the factory builds for a scenario: the live piles
// plus the decks held aside until a neighbourhood is unlocked mid-game.
type Setup struct {
	Neighbourhoods map[catalog.Neighbourhood]*NeighbourhoodPile
	// Order lists the starting neighbourhoods in catalog order; the
	// projection layer keeps this stable across updates.
	Order     []catalog.Neighbourhood
	EventDeck *EventPile
	Headline  *Ordered
	Archive   *KeyedPile
	// Terror is nil for scenarios without a terror deck.
	Terror *Ordered

	LaterNeighbourhoods map[catalog.Neighbourhood]*NeighbourhoodPile
	LaterEvents         map[catalog.Neighbourhood]*EventPile
}

// BuildScenario constructs the initial pile set for the given settings from
// the card reference table. Every deck that should start shuffled is
// shuffled here.
func BuildScenario(set *catalog.CardSet, settings catalog.Settings) (*Setup, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	split := catalog.RequiredNeighbourhoods[settings.Scenario]

	setup := &Setup{
		Neighbourhoods:      make(map[catalog.Neighbourhood]*NeighbourhoodPile, len(split.Start)),
		Order:               append([]catalog.Neighbourhood(nil), split.Start...),
		LaterNeighbourhoods: make(map[catalog.Neighbourhood]*NeighbourhoodPile, len(split.Later)),
		LaterEvents:         make(map[catalog.Neighbourhood]*EventPile, len(split.Later)),
	}

	for _, nb := range split.Start {
		pile, err := buildNeighbourhood(set, settings, nb)
		if err != nil {
			return nil, err
		}
		setup.Neighbourhoods[nb] = pile
	}
	for _, nb := range split.Later {
		pile, err := buildNeighbourhood(set, settings, nb)
		if err != nil {
			return nil, err
		}
		setup.LaterNeighbourhoods[nb] = pile
	}

	eventDeck, err := buildEventDeck(set, settings.Scenario)
	if err != nil {
		return nil, err
	}
	setup.LaterEvents = eventDeck.RemoveNeighbourhood(split.Later)
	setup.EventDeck = eventDeck

	setup.Headline = buildHeadline(set, settings.Expansions)

	setup.Archive, err = buildArchive(set, settings.Scenario)
	if err != nil {
		return nil, err
	}

	if kind, ok := catalog.ScenarioTerror[settings.Scenario]; ok {
		setup.Terror, err = buildTerror(set, kind)
		if err != nil {
			return nil, err
		}
	}

	return setup, nil
}

func buildNeighbourhood(set *catalog.CardSet, settings catalog.Settings, nb catalog.Neighbourhood) (*NeighbourhoodPile, error) {
	material, ok := set.Neighbourhoods[nb]
	if !ok {
		return nil, fmt.Errorf("card set has no material for neighbourhood %s", nb)
	}
	back := strings.ToLower(material.Back)

	var cards []Card
	for _, exp := range catalog.Expansions {
		if !catalog.HasExpansion(settings.Expansions, exp) {
			continue
		}
		for _, face := range material.ByExpansion[int(exp)] {
			cards = append(cards, NeighbourhoodCard(strings.ToLower(face), back, nb, false))
		}
	}

	pile := NewNeighbourhoodPile(nb, cards, back)
	pile.Shuffle()
	return pile, nil
}

func buildEventDeck(set *catalog.CardSet, scenario catalog.Scenario) (*EventPile, error) {
	refs, ok := set.Events[scenario]
	if !ok {
		return nil, fmt.Errorf("card set has no event cards for scenario %s", scenario)
	}
	cards := make([]Card, 0, len(refs))
	for _, ref := range refs {
		back := strings.ToLower(ref.Back)
		nb, ok := set.NeighbourhoodByBack(back)
		if !ok {
			return nil, fmt.Errorf("event card %s has unknown neighbourhood back %s", ref.Face, ref.Back)
		}
		cards = append(cards, NeighbourhoodCard(strings.ToLower(ref.Face), back, nb, true))
	}
	pile := NewEventPile(cards)
	pile.Shuffle()
	return pile, nil
}

func buildHeadline(set *catalog.CardSet, expansions int) *Ordered {
	back := strings.ToLower(set.Headlines.Back)

	var cards []Card
	for _, exp := range catalog.Expansions {
		if !catalog.HasExpansion(expansions, exp) {
			continue
		}
		rumors := catalog.HeadlineRumors[exp]
		for _, face := range set.Headlines.ByExpansion[int(exp)] {
			number := catalog.HeadlineNumber(face)
			isRumor := false
			for _, r := range rumors {
				if r == number {
					isRumor = true
					break
				}
			}
			cards = append(cards, HeadlineCard(strings.ToLower(face), back, isRumor))
		}
	}

	pile := NewOrdered(cards, back)
	pile.Shuffle()
	if len(pile.Cards) > headlineKeep {
		// Retain only the top of the shuffled stack.
		pile.Cards = append([]Card(nil), pile.Cards[len(pile.Cards)-headlineKeep:]...)
	}
	return pile
}

func buildArchive(set *catalog.CardSet, scenario catalog.Scenario) (*KeyedPile, error) {
	required, ok := catalog.RequiredCodex[scenario]
	if !ok {
		return nil, fmt.Errorf("no codex requirements for scenario %s", scenario)
	}
	cards := make(map[int]Card, len(required))
	for _, n := range required {
		faces, ok := set.Codex[n]
		if !ok {
			return nil, fmt.Errorf("card set has no codex card %d", n)
		}
		face := strings.ToLower(faces.Face)
		back := strings.ToLower(faces.Back)
		if nb, ok := catalog.CodexNeighbourhoods[n]; ok {
			cards[n] = CodexNeighbourhoodCard(face, back, n, nb)
			continue
		}
		cards[n] = CodexCard(face, back, n)
	}
	return NewKeyedPile(cards, catalog.ArchiveBack), nil
}

func buildTerror(set *catalog.CardSet, kind catalog.TerrorKind) (*Ordered, error) {
	material, ok := set.Terror[kind]
	if !ok {
		return nil, fmt.Errorf("card set has no terror cards for %s", kind)
	}
	back := strings.ToLower(material.Back)
	cards := make([]Card, 0, len(material.Faces))
	for _, face := range material.Faces {
		cards = append(cards, PlainCard(strings.ToLower(face), back))
	}
	pile := NewOrdered(cards, back)
	pile.Shuffle()
	return pile, nil
}
