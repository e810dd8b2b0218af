package items

import (
	"testing"

	"github.com/biotica/biotica/internal/rng"
)

// scenarioCatalogSource is a minimal catalog for TestS4Crafting: stone +
// branch -> a knife, gated at tech level 1. The DSL's Ident lexer rule
// forbids hyphens, so "stone-knife" becomes "stone_knife" here.
const scenarioCatalogSource = `
item stone weight=2.0 category=material natural=true;
item branch weight=0.3 category=material natural=true;
item stone_knife weight=1.0 category=tool durability=40.0;

recipe craft_stone_knife = stone*1 branch*1 -> stone_knife*1 tech=1;
`

// TestS4Crafting is scenario S4: seed 9001, a faction at tech level 1
// holding exactly one stone and one branch; AttemptCraft must succeed
// exactly once, produce stone_knife (quantity 1 or 2), and consume
// exactly one unit of each input.
func TestS4Crafting(t *testing.T) {
	cat, recipes, err := NewCatalog(scenarioCatalogSource)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	ev := NewEvolution(cat, recipes)
	r := rng.New(9001)

	ev.StepFaction("faction-1", 1, r, 0)

	inventory := map[string]int{"stone": 1, "branch": 1}
	produced, ok := ev.AttemptCraft("faction-1", inventory, r)
	if !ok {
		t.Fatalf("expected AttemptCraft to succeed with an unlocked, affordable recipe")
	}
	if len(produced) != 1 || produced[0].ItemID != "stone_knife" {
		t.Fatalf("expected exactly one stone_knife stack, got %+v", produced)
	}
	if produced[0].Quantity < 1 || produced[0].Quantity > 2 {
		t.Fatalf("expected produced quantity in [1,2], got %d", produced[0].Quantity)
	}
	if inventory["stone"] != 0 || inventory["branch"] != 0 {
		t.Fatalf("expected exactly one unit of each input consumed, got stone=%d branch=%d", inventory["stone"], inventory["branch"])
	}

	if _, ok := ev.AttemptCraft("faction-1", inventory, r); ok {
		t.Fatalf("expected a second AttemptCraft with an empty inventory to fail")
	}
}
