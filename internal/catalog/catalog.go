// Package catalog holds the static reference data for every supported
// scenario: which expansions unlock it, which neighbourhood and codex decks
// it needs, and the scenario-specific terror configuration. All of it is
// pure data plus pure lookups; nothing in here mutates at runtime.
package catalog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Scenario identifies a playable scenario. The string values are the
// on-wire names and must not be changed.
type Scenario string

const (
	// Base game.
	ApproachOfAzathoth Scenario = "Approach of Azathoth"
	FeastForUmordhoth  Scenario = "Feast for Umordhoth"
	VeilOfTwilight     Scenario = "Veil of Twilight"
	EchoesOfTheDeep    Scenario = "Echoes of the Deep"

	// Dead of Night expansion.
	ShotsInTheDark       Scenario = "Shots in the Dark"
	SilenceOfTsathoggua  Scenario = "Silence of Tsathoggua"

	// Under Dark Waves expansion.
	DreamsOfRlyeh    Scenario = "Dreams of R'lyeh"
	ThePaleLantern   Scenario = "The Pale Lantern"
	TyrantsOfRuin    Scenario = "Tyrants of Ruin"
	IthaquasChildren Scenario = "Ithaqua's Children"

	// Secrets of the Order expansion.
	TheDeadCryOut     Scenario = "The Dead Cry Out"
	TheKeyAndTheGate  Scenario = "The Key and the Gate"
	BoundToServe      Scenario = "Bound to Serve"
)

// Expansion is a bit in the expansion mask sent by the client.
type Expansion int

const (
	Base              Expansion = 0
	DeadOfNight       Expansion = 1
	UnderDarkWaves    Expansion = 2
	SecretsOfTheOrder Expansion = 4
)

// Expansions in a stable order for iteration.
var Expansions = []Expansion{Base, DeadOfNight, UnderDarkWaves, SecretsOfTheOrder}

// Neighbourhood identifies a region of the board. Anomalies behave as
// neighbourhoods and share the type.
type Neighbourhood string

const (
	// Base game.
	Downtown             Neighbourhood = "Downtown"
	Easttown             Neighbourhood = "Easttown"
	MerchantDistrict     Neighbourhood = "Merchant District"
	MiskatonicUniversity Neighbourhood = "Miskatonic University"
	Northside            Neighbourhood = "Northside"
	Rivertown            Neighbourhood = "Rivertown"
	Southside            Neighbourhood = "Southside"
	Uptown               Neighbourhood = "Uptown"
	TheStreets           Neighbourhood = "The Streets"

	// Under Dark Waves.
	CentralKingsport Neighbourhood = "Central Kingsport"
	InnsmouthShore   Neighbourhood = "Innsmouth Shore"
	InnsmouthVillage Neighbourhood = "Innsmouth Village"
	KingsportHarbor  Neighbourhood = "Kingsport Harbor"
	TravelRoutes     Neighbourhood = "Travel Routes"
	DevilReef        Neighbourhood = "Devil Reef"
	StrangeHighHouse Neighbourhood = "Strange High House"

	// Secrets of the Order.
	FrenchHill    Neighbourhood = "French Hill"
	TheUnderworld Neighbourhood = "The Underworld"
	Thresholds    Neighbourhood = "Thresholds"
	TheUnnamable  Neighbourhood = "The Unnamable"
	WitchHouse    Neighbourhood = "Witch House"

	// Anomalies.
	FracturedReality  Neighbourhood = "Fractured Reality"
	LostSouls         Neighbourhood = "Lost Souls"
	NightmareBreach   Neighbourhood = "Nightmare Breach"
	TemporalFissure   Neighbourhood = "Temporal Fissure"
	VisionsOfTheMoon  Neighbourhood = "Visions of the Moon"
	YuggothEmergent   Neighbourhood = "Yuggoth Emergent"
)

// TerrorKind names a terror deck variant.
type TerrorKind string

const (
	FeedingFrenzy TerrorKind = "Feeding Frenzy"
	FrozenCity    TerrorKind = "Frozen City"
)

// ScenarioByExpansion maps every non-base scenario to the expansion bit it
// requires. Base-game scenarios are absent and valid with any mask.
var ScenarioByExpansion = map[Scenario]Expansion{
	ShotsInTheDark:      DeadOfNight,
	SilenceOfTsathoggua: DeadOfNight,
	DreamsOfRlyeh:       UnderDarkWaves,
	ThePaleLantern:      UnderDarkWaves,
	TyrantsOfRuin:       UnderDarkWaves,
	IthaquasChildren:    UnderDarkWaves,
	TheDeadCryOut:       SecretsOfTheOrder,
	TheKeyAndTheGate:    SecretsOfTheOrder,
	BoundToServe:        SecretsOfTheOrder,
}

// HeadlineRumors lists, per expansion, the headline card numbers that are
// rumors.
var HeadlineRumors = map[Expansion][]int{
	Base:              {29, 30, 31, 32},
	DeadOfNight:       {38, 39},
	UnderDarkWaves:    {43},
	SecretsOfTheOrder: {},
}

// RequiredCodex lists the codex card numbers staged in the archive for each
// scenario.
var RequiredCodex = map[Scenario][]int{
	ApproachOfAzathoth:  {2, 3, 4, 5, 6, 7, 8, 9},
	FeastForUmordhoth:   {1, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
	VeilOfTwilight:      {2, 20, 21, 22, 23, 24, 25, 26, 27, 28},
	EchoesOfTheDeep:     {2, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40},
	ShotsInTheDark:      {1, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, 52},
	SilenceOfTsathoggua: {2, 53, 54, 55, 56, 57, 58, 59},
	TyrantsOfRuin:       {61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71, 72, 73, 74, 75},
	ThePaleLantern:      {2, 76, 77, 78, 79, 80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90},
	IthaquasChildren:    {61, 91, 92, 93, 94, 95, 96, 97, 98, 99, 100, 101, 102, 103, 104, 105},
	DreamsOfRlyeh:       {2, 106, 107, 108, 109, 110, 111, 112, 113, 114, 115, 116, 117, 118, 119, 120},
	BoundToServe:        {2, 121, 122, 123, 124, 125, 126, 127, 128, 129, 130, 131, 132, 133, 134},
	TheDeadCryOut:       {1, 135, 136, 137, 138, 139, 140, 141, 142, 143, 144, 145, 146, 147, 148, 149},
	TheKeyAndTheGate:    {2, 150, 151, 152, 153, 154, 155, 156, 157, 158, 159, 160, 161, 162, 163, 164},
}

// DefaultTerrorNeighbourhood is where spread_terror lands when the event
// discard gives no destination.
var DefaultTerrorNeighbourhood = map[Scenario]Neighbourhood{
	TyrantsOfRuin:    InnsmouthShore,
	IthaquasChildren: Easttown,
}

// ScenarioTerror maps the scenarios that use a terror deck to its kind.
var ScenarioTerror = map[Scenario]TerrorKind{
	TyrantsOfRuin:    FeedingFrenzy,
	IthaquasChildren: FrozenCity,
}

// Codex classification sets.
var (
	codexItems             = intSet(68, 69, 70, 90)
	codexMonsters          = intSet(19, 28, 39, 40, 60, 74, 75, 89, 104, 105, 145, 146)
	codexAttachable        = intSet(32, 33, 34, 35, 55, 56)
	codexEncounters        = intSet(13, 14, 15, 16, 17, 147, 148, 149, 161, 162, 163, 164, 168)
	codexShuffleEncounters = intSet(13, 14, 15, 16, 17)
	codexTopEncounters     = intSet(161, 162, 163, 164, 168)
)

// CodexNeighbourhoods maps codex numbers that belong to a neighbourhood.
var CodexNeighbourhoods = map[int]Neighbourhood{
	13:  Downtown,
	14:  Easttown,
	15:  Rivertown,
	16:  Uptown,
	17:  Southside,
	32:  Rivertown,
	33:  Downtown,
	34:  Northside,
	35:  MiskatonicUniversity,
	55:  Northside,
	56:  Uptown,
	147: TheUnderworld,
	148: TheUnderworld,
	149: TheUnderworld,
	161: Easttown,
	162: FrenchHill,
	163: MerchantDistrict,
	164: Rivertown,
	168: Uptown,
}

func IsCodexItem(n int) bool             { return codexItems[n] }
func IsCodexMonster(n int) bool          { return codexMonsters[n] }
func IsCodexAttachable(n int) bool       { return codexAttachable[n] }
func IsCodexEncounter(n int) bool        { return codexEncounters[n] }
func IsCodexShuffleEncounter(n int) bool { return codexShuffleEncounters[n] }
func IsCodexTopEncounter(n int) bool     { return codexTopEncounters[n] }

func intSet(ns ...int) map[int]bool {
	s := make(map[int]bool, len(ns))
	for _, n := range ns {
		s[n] = true
	}
	return s
}

// NeighbourhoodSplit is the per-scenario division of neighbourhood decks
// into those built at start and those held aside until unlocked.
type NeighbourhoodSplit struct {
	Start []Neighbourhood
	Later []Neighbourhood
}

// RequiredNeighbourhoods lists the neighbourhood decks each scenario uses.
var RequiredNeighbourhoods = map[Scenario]NeighbourhoodSplit{
	ApproachOfAzathoth: {
		Start: []Neighbourhood{Northside, Downtown, Easttown, MerchantDistrict, Rivertown, TheStreets, TemporalFissure},
	},
	FeastForUmordhoth: {
		Start: []Neighbourhood{Downtown, Easttown, Rivertown, Uptown, Southside, TheStreets},
	},
	VeilOfTwilight: {
		Start: []Neighbourhood{Northside, Rivertown, Southside, MiskatonicUniversity, Uptown, TheStreets, FracturedReality},
	},
	EchoesOfTheDeep: {
		Start: []Neighbourhood{MiskatonicUniversity, MerchantDistrict, Northside, Rivertown, Downtown, TheStreets, NightmareBreach},
	},
	ShotsInTheDark: {
		Start: []Neighbourhood{Downtown, Easttown, Rivertown, Northside, MerchantDistrict, TheStreets},
	},
	SilenceOfTsathoggua: {
		Start: []Neighbourhood{Northside, MerchantDistrict, Rivertown, MiskatonicUniversity, Uptown, TheStreets, YuggothEmergent},
	},
	DreamsOfRlyeh: {
		Start: []Neighbourhood{MiskatonicUniversity, Rivertown, Uptown, Southside, TheStreets, TravelRoutes},
		Later: []Neighbourhood{CentralKingsport, KingsportHarbor, InnsmouthShore, InnsmouthVillage},
	},
	ThePaleLantern: {
		Start: []Neighbourhood{Downtown, MiskatonicUniversity, Uptown, CentralKingsport, KingsportHarbor, TheStreets, TravelRoutes, StrangeHighHouse, VisionsOfTheMoon},
	},
	TyrantsOfRuin: {
		Start: []Neighbourhood{Northside, Easttown, MiskatonicUniversity, Southside, InnsmouthShore, InnsmouthVillage, TheStreets, TravelRoutes, DevilReef},
	},
	IthaquasChildren: {
		Start: []Neighbourhood{Downtown, Northside, Rivertown, Easttown, Southside, InnsmouthShore, CentralKingsport, TheStreets, TravelRoutes},
	},
	TheDeadCryOut: {
		Start: []Neighbourhood{Northside, Easttown, MiskatonicUniversity, TheUnderworld, FrenchHill, Uptown, Southside, TheStreets, Thresholds},
	},
	TheKeyAndTheGate: {
		Start: []Neighbourhood{Easttown, FrenchHill, Uptown, Rivertown, MerchantDistrict, TheStreets, TheUnnamable, FracturedReality},
		Later: []Neighbourhood{Thresholds, TheUnderworld},
	},
	BoundToServe: {
		Start: []Neighbourhood{Downtown, MerchantDistrict, Rivertown, FrenchHill, Uptown, Southside, TheStreets, WitchHouse, LostSouls},
	},
}

// ArchiveBack is the shared card back for archive and codex piles.
const ArchiveBack = "codex_61_back"

// ErrInvalidSettings rejects a scenario/expansion pair.
var ErrInvalidSettings = errors.New("invalid scenario and expansion selection")

// Settings is the pair a client supplies at start_game.
type Settings struct {
	Scenario   Scenario `json:"scenario"`
	Expansions int      `json:"expansions"`
}

// Validate checks that the scenario exists and is unlocked by the supplied
// expansion mask.
func (s Settings) Validate() error {
	if _, ok := RequiredNeighbourhoods[s.Scenario]; !ok {
		return ErrInvalidSettings
	}
	if s.Expansions < 0 || s.Expansions > 7 {
		return ErrInvalidSettings
	}
	required, ok := ScenarioByExpansion[s.Scenario]
	if !ok {
		return nil // base-game scenario, any mask is fine
	}
	if s.Expansions&int(required) == 0 {
		return ErrInvalidSettings
	}
	return nil
}

// HasExpansion reports whether the mask enables an expansion. Base is
// always enabled.
func HasExpansion(mask int, e Expansion) bool {
	return e == Base || mask&int(e) != 0
}

// ExpansionText renders a mask as a human readable list for log lines.
func ExpansionText(mask int) string {
	parts := []string{"Base"}
	if HasExpansion(mask, DeadOfNight) {
		parts = append(parts, "Dead of Night")
	}
	if HasExpansion(mask, UnderDarkWaves) {
		parts = append(parts, "Under Dark Waves")
	}
	if HasExpansion(mask, SecretsOfTheOrder) {
		parts = append(parts, "Secrets of the Order")
	}
	return strings.Join(parts, ", ")
}

var numberRe = regexp.MustCompile(`(\d+)`)

// HeadlineNumber extracts the card number embedded in a headline image
// identifier, or 0 when there is none.
func HeadlineNumber(face string) int {
	m := numberRe.FindString(face)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
