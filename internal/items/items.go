// Package items implements the frozen ItemCatalog and the drifting
// CraftingEvolution recipe table (§3.6). The catalog and base recipe set are
// parsed once, at catalog construction, from a small embedded DSL; nothing
// about their structure depends on a world seed or RNG.
package items

import (
	"fmt"
	"strconv"

	"github.com/biotica/biotica/internal/worldstate"
)

// Category is the closed enum of item kinds.
type Category uint8

const (
	CategoryMaterial Category = iota
	CategoryFood
	CategoryTool
	CategoryWeapon
	CategoryBuilding
	CategoryContainer
)

var categoryNames = [...]string{
	"material", "food", "tool", "weapon", "building", "container",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

func parseCategory(s string) Category {
	for i, name := range categoryNames {
		if name == s {
			return Category(i)
		}
	}
	return CategoryMaterial
}

// Def is one immutable item definition (§3.6).
type Def struct {
	ID            string
	Category      Category
	Weight        float64
	Nutrition     float64
	Durability    float64
	Damage        float64
	BuildValue    float64
	Storage       float64
	NaturalSpawn  bool
	AllowedBiomes map[worldstate.Biome]bool
}

// Stack is a quantity of one item id, the uniform representation used by
// both agent inventories and crafting inputs/outputs (§3.9).
type Stack struct {
	ItemID   string
	Quantity int
}

// Catalog is the immutable, seed-frozen set of item definitions (§3.6).
// It never mutates after construction.
type Catalog struct {
	defs  map[string]*Def
	order []string // declaration order, for deterministic iteration
}

// Exists reports whether an item id is defined.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.defs[id]
	return ok
}

// Get returns an item's definition.
func (c *Catalog) Get(id string) (*Def, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// All returns every definition in declaration order.
func (c *Catalog) All() []*Def {
	out := make([]*Def, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// NewCatalog parses src (the recipe/catalog DSL) and returns the frozen
// catalog plus the base recipe table it declares. Both are immutable for
// the lifetime of the world; only per-faction crafting state drifts.
func NewCatalog(src string) (*Catalog, []*Recipe, error) {
	doc, err := parseDocument(src)
	if err != nil {
		return nil, nil, fmt.Errorf("items: parse catalog dsl: %w", err)
	}

	cat := &Catalog{defs: make(map[string]*Def)}
	var recipes []*Recipe

	for _, st := range doc.Statements {
		switch {
		case st.Item != nil:
			def, err := buildDef(st.Item)
			if err != nil {
				return nil, nil, err
			}
			if cat.Exists(def.ID) {
				return nil, nil, fmt.Errorf("items: duplicate item %q", def.ID)
			}
			cat.defs[def.ID] = def
			cat.order = append(cat.order, def.ID)
		case st.Recipe != nil:
			r, err := buildRecipe(st.Recipe)
			if err != nil {
				return nil, nil, err
			}
			recipes = append(recipes, r)
		}
	}

	for _, r := range recipes {
		for _, out := range r.Outputs {
			if !cat.Exists(out.ItemID) {
				return nil, nil, fmt.Errorf("items: recipe %q produces undefined item %q", r.Name, out.ItemID)
			}
		}
		for _, in := range r.Inputs {
			if !cat.Exists(in.ItemID) {
				return nil, nil, fmt.Errorf("items: recipe %q consumes undefined item %q", r.Name, in.ItemID)
			}
		}
	}

	return cat, recipes, nil
}

func buildDef(decl *itemDecl) (*Def, error) {
	def := &Def{ID: decl.Name, Category: CategoryMaterial, AllowedBiomes: map[worldstate.Biome]bool{}}
	for _, a := range decl.Attrs {
		switch a.Key {
		case "category":
			def.Category = parseCategory(a.Value)
		case "weight":
			def.Weight = mustFloat(a.Value)
		case "nutrition":
			def.Nutrition = mustFloat(a.Value)
		case "durability":
			def.Durability = mustFloat(a.Value)
		case "damage":
			def.Damage = mustFloat(a.Value)
		case "buildValue":
			def.BuildValue = mustFloat(a.Value)
		case "storage":
			def.Storage = mustFloat(a.Value)
		case "natural":
			def.NaturalSpawn = a.Value == "true" || a.Value == "1"
		default:
			return nil, fmt.Errorf("items: unknown item attribute %q on %q", a.Key, decl.Name)
		}
	}
	return def, nil
}

func mustFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func mustInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
