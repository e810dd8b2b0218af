package items

import (
	"fmt"

	"github.com/biotica/biotica/internal/rng"
)

// Recipe is one base recipe, fixed at catalog-parse time. CraftingEvolution
// drift changes only a per-faction efficiency modifier; the recipe's inputs,
// result item ids and name never change after parsing (§3.6).
type Recipe struct {
	Name     string
	Inputs   []Stack
	Outputs  []Stack
	TechGate int
}

func buildRecipe(decl *recipeDecl) (*Recipe, error) {
	r := &Recipe{Name: decl.Name}
	for _, q := range decl.Inputs {
		r.Inputs = append(r.Inputs, Stack{ItemID: q.Item, Quantity: q.Amount})
	}
	for _, q := range decl.Outputs {
		r.Outputs = append(r.Outputs, Stack{ItemID: q.Item, Quantity: q.Amount})
	}
	for _, a := range decl.Attrs {
		switch a.Key {
		case "tech":
			r.TechGate = mustInt(a.Value)
		default:
			return nil, fmt.Errorf("items: unknown recipe attribute %q on %q", a.Key, decl.Name)
		}
	}
	return r, nil
}

// FactionCraftState is one faction's drifted view onto the base recipe
// table: which recipes it has unlocked and at what tick, plus a bounded
// efficiency modifier per recipe (§4.8.5).
type FactionCraftState struct {
	Unlocked   map[string]int     // recipe name -> unlock tick
	Efficiency map[string]float64 // recipe name -> modifier in [minEfficiency,maxEfficiency]
}

func newFactionCraftState() *FactionCraftState {
	return &FactionCraftState{
		Unlocked:   map[string]int{},
		Efficiency: map[string]float64{},
	}
}

const (
	minEfficiency    = 0.5
	maxEfficiency    = 2.0
	baseEfficiency   = 1.0
	efficiencyDrift  = 0.01
	unlockDriftScale = 0.002
)

// Evolution owns the base recipe table (frozen) and every faction's
// drifted crafting state.
type Evolution struct {
	catalog *Catalog
	base    map[string]*Recipe
	order   []string
	states  map[string]*FactionCraftState
}

// NewEvolution builds a CraftingEvolution over a frozen catalog and recipe
// list produced by NewCatalog.
func NewEvolution(catalog *Catalog, recipes []*Recipe) *Evolution {
	e := &Evolution{
		catalog: catalog,
		base:    make(map[string]*Recipe, len(recipes)),
		states:  make(map[string]*FactionCraftState),
	}
	for _, r := range recipes {
		e.base[r.Name] = r
		e.order = append(e.order, r.Name)
	}
	return e
}

func (e *Evolution) stateFor(factionID string) *FactionCraftState {
	s, ok := e.states[factionID]
	if !ok {
		s = newFactionCraftState()
		e.states[factionID] = s
	}
	return s
}

// EvolutionSnapshot is the serializable projection of every faction's
// drifted crafting state (§4.10: "recipe table"). The frozen base recipe
// table is reconstructed from the catalog source rather than persisted.
type EvolutionSnapshot struct {
	States map[string]*FactionCraftState
}

// Export captures every faction's unlock/efficiency state.
func (e *Evolution) Export() EvolutionSnapshot {
	out := make(map[string]*FactionCraftState, len(e.states))
	for id, s := range e.states {
		unlocked := make(map[string]int, len(s.Unlocked))
		for k, v := range s.Unlocked {
			unlocked[k] = v
		}
		efficiency := make(map[string]float64, len(s.Efficiency))
		for k, v := range s.Efficiency {
			efficiency[k] = v
		}
		out[id] = &FactionCraftState{Unlocked: unlocked, Efficiency: efficiency}
	}
	return EvolutionSnapshot{States: out}
}

// Restore replaces every faction's crafting state with snap's. The base
// recipe table (catalog-derived) is untouched.
func (e *Evolution) Restore(snap EvolutionSnapshot) {
	e.states = make(map[string]*FactionCraftState, len(snap.States))
	for id, s := range snap.States {
		e.states[id] = s
	}
}

// StepFaction unlocks any base recipe whose tech gate is now met, and
// nudges already-unlocked recipes' efficiency by a small bounded drift
// (§4.8.5). Iterates recipes in declaration order for determinism.
func (e *Evolution) StepFaction(factionID string, techLevel int, r *rng.Stream, tick int) {
	s := e.stateFor(factionID)
	for _, name := range e.order {
		recipe := e.base[name]
		if _, unlocked := s.Unlocked[name]; !unlocked && techLevel >= recipe.TechGate {
			s.Unlocked[name] = tick
			s.Efficiency[name] = baseEfficiency
			continue
		}
		if _, unlocked := s.Unlocked[name]; unlocked {
			delta := r.Gaussian() * efficiencyDrift
			eff := s.Efficiency[name] + delta
			if eff < minEfficiency {
				eff = minEfficiency
			}
			if eff > maxEfficiency {
				eff = maxEfficiency
			}
			s.Efficiency[name] = eff
		}
	}
}

// Craftable returns the unlocked recipe names a faction can currently
// afford given its inventory, in declaration order.
func (e *Evolution) Craftable(factionID string, inventory map[string]int) []string {
	s := e.stateFor(factionID)
	var out []string
	for _, name := range e.order {
		if _, unlocked := s.Unlocked[name]; !unlocked {
			continue
		}
		recipe := e.base[name]
		affordable := true
		for _, in := range recipe.Inputs {
			if inventory[in.ItemID] < in.Quantity {
				affordable = false
				break
			}
		}
		if affordable {
			out = append(out, name)
		}
	}
	return out
}

// AttemptCraft selects among craftable recipes weighted by efficiency,
// consumes exactly one unit of each input from inventory (Quantity on the
// recipe's Inputs gates affordability in Craftable, it is not the amount
// consumed per attempt), and returns the produced stacks. Returns ok=false
// if nothing is craftable.
func (e *Evolution) AttemptCraft(factionID string, inventory map[string]int, r *rng.Stream) ([]Stack, bool) {
	candidates := e.Craftable(factionID, inventory)
	if len(candidates) == 0 {
		return nil, false
	}
	s := e.stateFor(factionID)

	total := 0.0
	for _, name := range candidates {
		total += s.Efficiency[name]
	}
	pick := r.NextFloat() * total
	chosen := candidates[len(candidates)-1]
	acc := 0.0
	for _, name := range candidates {
		acc += s.Efficiency[name]
		if pick <= acc {
			chosen = name
			break
		}
	}

	recipe := e.base[chosen]
	for _, in := range recipe.Inputs {
		inventory[in.ItemID]--
	}

	eff := s.Efficiency[chosen]
	bonusChance := 0.05 * (eff - 1)
	if bonusChance < 0 {
		bonusChance = 0
	}

	produced := make([]Stack, 0, len(recipe.Outputs))
	for _, out := range recipe.Outputs {
		qty := out.Quantity
		if r.Chance(bonusChance) {
			qty++
		}
		produced = append(produced, Stack{ItemID: out.ItemID, Quantity: qty})
		inventory[out.ItemID] += qty
	}
	return produced, true
}
