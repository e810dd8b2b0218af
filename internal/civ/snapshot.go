package civ

// Snapshot is the serializable projection of the whole civilization layer
// (§4.10: "civ snapshot (factions, agents, structures, notes, relations,
// territory counters)"). It mirrors System's internal maps with exported
// fields so it round-trips through encoding/gob cleanly.
type Snapshot struct {
	Factions []FactionSnapshot
	Agents   []Agent
	AgentSeq []string

	Structures []Structure
	Notes      []Note
	Relations  []Relation

	Owner       []int8
	FactionCtrl [][]uint8
	Version     int

	NextAgentID     int
	NextStructureID int
	NextNoteID      int
}

// FactionSnapshot mirrors Faction with its Lexicon flattened to exported
// fields.
type FactionSnapshot struct {
	Faction        Faction
	Lexicon        LexiconSnapshot
	CraftInventory map[string]int
}

// LexiconSnapshot mirrors Lexicon's unexported fields.
type LexiconSnapshot struct {
	Tokens []string
	Seen   map[string]bool
}

// Export captures every civ-layer record for persistence.
func (s *System) Export() Snapshot {
	snap := Snapshot{
		Owner:           append([]int8(nil), s.owner...),
		Version:         s.version,
		NextAgentID:     s.nextAgentID,
		NextStructureID: s.nextStructureID,
		NextNoteID:      s.nextNoteID,
	}

	for _, id := range s.factionSeq {
		f := s.factions[id]
		fc := *f
		fc.Lexicon = nil // carried separately below
		lexSnap := LexiconSnapshot{}
		if f.Lexicon != nil {
			lexSnap.Tokens = append([]string(nil), f.Lexicon.tokens...)
			lexSnap.Seen = make(map[string]bool, len(f.Lexicon.seen))
			for k, v := range f.Lexicon.seen {
				lexSnap.Seen[k] = v
			}
		}
		inv := make(map[string]int, len(f.craftInventory))
		for k, v := range f.craftInventory {
			inv[k] = v
		}
		snap.Factions = append(snap.Factions, FactionSnapshot{Faction: fc, Lexicon: lexSnap, CraftInventory: inv})
	}

	for _, id := range s.agentSeq {
		if a, ok := s.agents[id]; ok {
			snap.Agents = append(snap.Agents, *a)
		}
	}
	snap.AgentSeq = append([]string(nil), s.agentSeq...)

	for _, id := range s.structureIDsSorted() {
		snap.Structures = append(snap.Structures, *s.structures[id])
	}
	snap.Notes = append([]Note(nil), derefNotes(s.notes)...)

	for _, r := range s.relations {
		snap.Relations = append(snap.Relations, *r)
	}

	snap.FactionCtrl = make([][]uint8, len(s.factionCtrl))
	for i, slice := range s.factionCtrl {
		snap.FactionCtrl[i] = append([]uint8(nil), slice...)
	}
	return snap
}

func derefNotes(notes []*Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = *n
	}
	return out
}

// Restore replaces the civ layer's contents with snap's, rebuilding every
// index. It does not re-derive crafting; callers restore the shared
// CraftingEvolution separately.
func (s *System) Restore(snap Snapshot) {
	s.factions = make(map[string]*Faction, len(snap.Factions))
	s.factionSeq = s.factionSeq[:0]
	for i := range snap.Factions {
		fs := snap.Factions[i]
		f := fs.Faction
		f.Lexicon = &Lexicon{
			tokens: append([]string(nil), fs.Lexicon.Tokens...),
			seen:   make(map[string]bool, len(fs.Lexicon.Seen)),
		}
		for k, v := range fs.Lexicon.Seen {
			f.Lexicon.seen[k] = v
		}
		f.craftInventory = make(map[string]int, len(fs.CraftInventory))
		for k, v := range fs.CraftInventory {
			f.craftInventory[k] = v
		}
		s.factions[f.ID] = &f
		s.factionSeq = append(s.factionSeq, f.ID)
	}

	s.agents = make(map[string]*Agent, len(snap.Agents))
	for i := range snap.Agents {
		a := snap.Agents[i]
		s.agents[a.ID] = &a
	}
	s.agentSeq = append([]string(nil), snap.AgentSeq...)

	s.structures = make(map[string]*Structure, len(snap.Structures))
	for i := range snap.Structures {
		st := snap.Structures[i]
		s.structures[st.ID] = &st
	}

	s.notes = make([]*Note, len(snap.Notes))
	for i := range snap.Notes {
		n := snap.Notes[i]
		s.notes[i] = &n
	}

	s.relations = make(map[[2]string]*Relation, len(snap.Relations))
	for i := range snap.Relations {
		r := snap.Relations[i]
		s.relations[relationKey(r.From, r.To)] = &r
	}

	s.owner = append([]int8(nil), snap.Owner...)
	s.factionCtrl = make([][]uint8, len(snap.FactionCtrl))
	for i, slice := range snap.FactionCtrl {
		s.factionCtrl[i] = append([]uint8(nil), slice...)
	}
	s.tileCount = len(s.owner)
	s.version = snap.Version
	s.nextAgentID = snap.NextAgentID
	s.nextStructureID = snap.NextStructureID
	s.nextNoteID = snap.NextNoteID
}
