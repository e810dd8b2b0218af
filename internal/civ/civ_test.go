package civ

import (
	"testing"

	"github.com/biotica/biotica/internal/eventlog"
	"github.com/biotica/biotica/internal/items"
	"github.com/biotica/biotica/internal/rng"
	"github.com/biotica/biotica/internal/worldstate"
)

func newTestSystem(t *testing.T) (*System, *worldstate.World) {
	t.Helper()
	w := worldstate.New(20, 20, 1)
	for i := range w.Tiles {
		w.Tiles[i] = worldstate.Grassland
		w.PlantBiomass[i] = 100
	}
	cat, recipes, err := items.NewCatalog(items.DefaultCatalogSource)
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	evo := items.NewEvolution(cat, recipes)
	return NewSystem(w, evo), w
}

func TestFoundFactionRequiresCognitionThreshold(t *testing.T) {
	s, _ := newTestSystem(t)
	log := eventlog.New(1000)
	if f := s.MaybeFoundFaction("sp-1", 0.3, 5, 5, 0, log); f != nil {
		t.Fatalf("expected no faction founded below threshold")
	}
	f := s.MaybeFoundFaction("sp-1", 0.9, 5, 5, 0, log)
	if f == nil {
		t.Fatalf("expected a faction to be founded above threshold")
	}
	if len(s.Factions()) != 1 {
		t.Fatalf("expected exactly one faction")
	}
}

func TestFoundFactionOnlyOncePerSpecies(t *testing.T) {
	s, _ := newTestSystem(t)
	log := eventlog.New(1000)
	s.MaybeFoundFaction("sp-1", 0.9, 5, 5, 0, log)
	again := s.MaybeFoundFaction("sp-1", 0.95, 6, 6, 1, log)
	if again != nil {
		t.Fatalf("expected no second faction founded from the same species")
	}
	if len(s.Factions()) != 1 {
		t.Fatalf("expected exactly one faction after duplicate founding attempt")
	}
}

func TestAgentsReferenceExistingFaction(t *testing.T) {
	s, _ := newTestSystem(t)
	log := eventlog.New(1000)
	f := s.MaybeFoundFaction("sp-1", 0.9, 5, 5, 0, log)
	a := s.SpawnAgent(f.ID, "sp-1", 5, 5, 0)
	if _, ok := s.Faction(a.FactionID); !ok {
		t.Fatalf("every agent must reference an existing faction")
	}
}

func TestTerritoryClaimedCountMatchesOwnerMap(t *testing.T) {
	s, w := newTestSystem(t)
	log := eventlog.New(1000)
	fa := s.MaybeFoundFaction("sp-1", 0.9, 2, 2, 0, log)
	s.SpawnAgent(fa.ID, "sp-1", 2, 2, 0)

	for tick := 0; tick < 10; tick++ {
		s.StepTerritory(w)
	}

	claimed := s.ClaimedByFaction(fa.ID)
	actual := 0
	for tile := range s.owner {
		if s.OwnerOf(tile) == fa.ID {
			actual++
		}
	}
	if claimed != actual {
		t.Fatalf("ClaimedByFaction (%d) must match a direct owner-map count (%d)", claimed, actual)
	}
}

func TestStructureStallsWithoutMaterials(t *testing.T) {
	s, w := newTestSystem(t)
	log := eventlog.New(1000)
	f := s.MaybeFoundFaction("sp-1", 0.9, 5, 5, 0, log)
	st := s.BeginStructure(f.ID, StructureWall, 5, 5)

	s.StepStructures(w, log, 0)
	if st.Progress != 0 {
		t.Fatalf("expected structure progress to stall without materials, got %v", st.Progress)
	}

	f.craftInventory["stone"] = 10
	s.StepStructures(w, log, 1)
	if st.Progress == 0 {
		t.Fatalf("expected structure progress once materials are available")
	}
}

func TestDiplomacyEscalatesToWarOnRepeatedAttacks(t *testing.T) {
	s, _ := newTestSystem(t)
	s.RecordAttack("f1", "f2")
	s.RecordAttack("f1", "f2")
	s.RecordAttack("f1", "f2")
	r := s.Relation("f1", "f2")
	if r.Status != RelationWar {
		t.Fatalf("expected relation to escalate to war after repeated attacks, got %v", r.Status)
	}
}

func TestBuildIfNeededStartsExactlyOneStructurePerFaction(t *testing.T) {
	s, _ := newTestSystem(t)
	log := eventlog.New(1000)
	f := s.MaybeFoundFaction("sp-1", 0.9, 5, 5, 0, log)
	f.Culture.Aggression = 0.9
	a := s.SpawnAgent(f.ID, "sp-1", 5, 5, 0)

	s.buildIfNeeded(a, 0)
	if len(s.Structures()) != 1 {
		t.Fatalf("expected exactly one structure started, got %d", len(s.Structures()))
	}
	if got := s.Structures()[0].Type; got != StructureWall {
		t.Fatalf("expected the dominant Aggression axis to pick StructureWall, got %v", got)
	}

	s.buildIfNeeded(a, 1)
	if len(s.Structures()) != 1 {
		t.Fatalf("expected no second structure while one is still in progress, got %d", len(s.Structures()))
	}
}

func TestIntentWorshipCanAuthorANote(t *testing.T) {
	s, _ := newTestSystem(t)
	log := eventlog.New(1000)
	f := s.MaybeFoundFaction("sp-1", 0.9, 5, 5, 0, log)
	a := s.SpawnAgent(f.ID, "sp-1", 5, 5, 0)
	a.Role = RoleScribe

	w := worldstate.New(10, 10, 1)
	r := rng.New(1)
	noted := false
	for i := 0; i < 200; i++ {
		selectIntent(a)
		actOnIntent(s, w, r, log, a, i)
		if len(s.Notes()) > 0 {
			noted = true
			break
		}
	}
	if !noted {
		t.Fatalf("expected IntentWorship to author at least one note over 200 attempts")
	}
}

func TestBorderContactResolvesSkirmishAtWar(t *testing.T) {
	s, _ := newTestSystem(t)
	log := eventlog.New(1000)
	fa := s.MaybeFoundFaction("sp-1", 0.9, 2, 2, 0, log)
	fb := s.MaybeFoundFaction("sp-2", 0.9, 3, 3, 1, log)
	a := s.SpawnAgent(fa.ID, "sp-1", 5, 5, 0)
	b := s.SpawnAgent(fb.ID, "sp-2", 5, 6, 0)

	rel := s.Relation(fa.ID, fb.ID)
	rel.Status = RelationWar
	rel.Tension = 0.9

	r := rng.New(7)
	w := worldstate.New(10, 10, 1)
	s.StepBorderContacts(w, r, log, 0)

	_, aAlive := s.Faction(a.FactionID)
	_, bAlive := s.Faction(b.FactionID)
	if !aAlive || !bAlive {
		t.Fatalf("expected both factions to still exist after one skirmish")
	}
	if len(s.Agents()) != 1 {
		t.Fatalf("expected exactly one agent to survive the skirmish, got %d", len(s.Agents()))
	}
}

func TestLexiconBoundedSize(t *testing.T) {
	lex := newLexicon()
	r := rng.New(3)
	for i := 0; i < maxLexiconSize*3; i++ {
		lex.coinToken(r)
	}
	if len(lex.tokens) > maxLexiconSize {
		t.Fatalf("expected lexicon to stay bounded at %d, got %d", maxLexiconSize, len(lex.tokens))
	}
}
