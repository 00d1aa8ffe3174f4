package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rawblock/arkham-companion/internal/catalog"
)

func backOf(nb catalog.Neighbourhood) string {
	return "back_" + strings.ReplaceAll(strings.ToLower(string(nb)), " ", "_")
}

// fixtureCardSet mirrors the structure of the real card table: four
// encounter cards per neighbourhood, two event cards per required
// neighbourhood (four for The Underworld), thirteen headlines with one
// rumor, every codex number and both terror decks.
func fixtureCardSet() *catalog.CardSet {
	set := &catalog.CardSet{
		Neighbourhoods: make(map[catalog.Neighbourhood]catalog.NeighbourhoodCards),
		Events:         make(map[catalog.Scenario][]catalog.CardFaces),
		Headlines: catalog.ExpansionFaces{
			Back: "headline_back",
			ByExpansion: map[int][]string{0: {
				"headline_1", "headline_2", "headline_3", "headline_4",
				"headline_5", "headline_6", "headline_7", "headline_8",
				"headline_9", "headline_10", "headline_11", "headline_12",
				"headline_29",
			}},
		},
		Codex: make(map[int]catalog.CardFaces),
		Terror: map[catalog.TerrorKind]catalog.TerrorCards{
			catalog.FeedingFrenzy: {Back: "terror_ff_back", Faces: []string{"ff_1", "ff_2", "ff_3", "ff_4"}},
			catalog.FrozenCity:    {Back: "terror_fc_back", Faces: []string{"fc_1", "fc_2", "fc_3"}},
		},
	}

	for scenario, split := range catalog.RequiredNeighbourhoods {
		all := append(append([]catalog.Neighbourhood(nil), split.Start...), split.Later...)
		for _, nb := range all {
			if _, ok := set.Neighbourhoods[nb]; ok {
				continue
			}
			faces := make([]string, 0, 4)
			for i := 1; i <= 4; i++ {
				faces = append(faces, fmt.Sprintf("%s_card_%d", backOf(nb), i))
			}
			set.Neighbourhoods[nb] = catalog.NeighbourhoodCards{
				Back:        backOf(nb),
				ByExpansion: map[int][]string{0: faces},
			}
		}

		var events []catalog.CardFaces
		for _, nb := range all {
			n := 2
			if nb == catalog.TheUnderworld {
				n = 4
			}
			for i := 1; i <= n; i++ {
				events = append(events, catalog.CardFaces{
					Face: fmt.Sprintf("event_%s_%d", backOf(nb), i),
					Back: backOf(nb),
				})
			}
		}
		set.Events[scenario] = events
	}

	for n := 1; n <= 168; n++ {
		set.Codex[n] = catalog.CardFaces{
			Face: fmt.Sprintf("codex_%d_face", n),
			Back: fmt.Sprintf("codex_%d_back", n),
		}
	}

	return set
}

func stateFor(t *testing.T, scenario catalog.Scenario, expansions int) *State {
	t.Helper()
	s, err := New(fixtureCardSet(), catalog.Settings{Scenario: scenario, Expansions: expansions})
	if err != nil {
		t.Fatalf("New state failed: %v", err)
	}
	return s
}

func mustNeighbourhood(t *testing.T, s *State, nb catalog.Neighbourhood) *neighbourhoodHandle {
	t.Helper()
	p, err := s.neighbourhood(nb)
	if err != nil {
		t.Fatalf("neighbourhood %s: %v", nb, err)
	}
	return &neighbourhoodHandle{s: s, nb: nb, size: p.Size()}
}

// neighbourhoodHandle remembers a pile's size at capture time for delta
// assertions.
type neighbourhoodHandle struct {
	s    *State
	nb   catalog.Neighbourhood
	size int
}

func (h *neighbourhoodHandle) delta(t *testing.T) int {
	t.Helper()
	p, err := h.s.neighbourhood(h.nb)
	if err != nil {
		t.Fatalf("neighbourhood %s: %v", h.nb, err)
	}
	return p.Size() - h.size
}
