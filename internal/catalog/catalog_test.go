package catalog

import "testing"

func TestSettingsValidate_BaseScenarioAnyMask(t *testing.T) {
	for _, mask := range []int{0, 1, 2, 4, 7} {
		s := Settings{Scenario: FeastForUmordhoth, Expansions: mask}
		if err := s.Validate(); err != nil {
			t.Errorf("Expected base scenario valid with mask %d. Got: %v", mask, err)
		}
	}
}

func TestSettingsValidate_MissingExpansion(t *testing.T) {
	s := Settings{Scenario: TyrantsOfRuin, Expansions: 1}
	if err := s.Validate(); err == nil {
		t.Error("Expected error for scenario without its required expansion bit")
	}

	s.Expansions = int(UnderDarkWaves)
	if err := s.Validate(); err != nil {
		t.Errorf("Expected valid with required bit set. Got: %v", err)
	}
}

func TestSettingsValidate_UnknownScenario(t *testing.T) {
	s := Settings{Scenario: "Not A Scenario", Expansions: 0}
	if err := s.Validate(); err == nil {
		t.Error("Expected error for unknown scenario")
	}
}

func TestSettingsValidate_MaskOutOfRange(t *testing.T) {
	for _, mask := range []int{-1, 8, 100} {
		s := Settings{Scenario: FeastForUmordhoth, Expansions: mask}
		if err := s.Validate(); err == nil {
			t.Errorf("Expected error for mask %d", mask)
		}
	}
}

func TestHasExpansion_BaseAlwaysEnabled(t *testing.T) {
	if !HasExpansion(0, Base) {
		t.Error("Base must be enabled with an empty mask")
	}
	if HasExpansion(0, DeadOfNight) {
		t.Error("Dead of Night must not be enabled with an empty mask")
	}
	if !HasExpansion(5, SecretsOfTheOrder) {
		t.Error("Secrets of the Order must be enabled with bit 4 set")
	}
}

func TestExpansionText(t *testing.T) {
	if got := ExpansionText(0); got != "Base" {
		t.Errorf("Expected \"Base\". Got: %q", got)
	}
	want := "Base, Dead of Night, Under Dark Waves, Secrets of the Order"
	if got := ExpansionText(7); got != want {
		t.Errorf("Expected %q. Got: %q", want, got)
	}
}

func TestHeadlineNumber(t *testing.T) {
	cases := map[string]int{
		"headline_29":   29,
		"headline_7":    7,
		"no_digits":     0,
		"headline_29_b": 29,
	}
	for face, want := range cases {
		if got := HeadlineNumber(face); got != want {
			t.Errorf("HeadlineNumber(%q): expected %d, got %d", face, want, got)
		}
	}
}

func TestCodexClassification(t *testing.T) {
	if !IsCodexItem(68) || IsCodexItem(13) {
		t.Error("Item classification wrong for 68/13")
	}
	if !IsCodexMonster(19) || IsCodexMonster(68) {
		t.Error("Monster classification wrong for 19/68")
	}
	if !IsCodexAttachable(32) || IsCodexAttachable(13) {
		t.Error("Attachable classification wrong for 32/13")
	}
	if !IsCodexEncounter(13) || IsCodexEncounter(32) {
		t.Error("Encounter classification wrong for 13/32")
	}
	if !IsCodexShuffleEncounter(13) || IsCodexShuffleEncounter(161) {
		t.Error("Shuffle-encounter classification wrong for 13/161")
	}
	if !IsCodexTopEncounter(161) || IsCodexTopEncounter(13) {
		t.Error("Top-encounter classification wrong for 161/13")
	}
}

func TestRequiredNeighbourhoods_LaterSets(t *testing.T) {
	split := RequiredNeighbourhoods[TheKeyAndTheGate]
	if len(split.Later) != 2 {
		t.Fatalf("Expected 2 later neighbourhoods for The Key and the Gate. Got: %d", len(split.Later))
	}
	found := false
	for _, nb := range split.Later {
		if nb == TheUnderworld {
			found = true
		}
	}
	if !found {
		t.Error("Expected The Underworld among the later neighbourhoods")
	}
}
