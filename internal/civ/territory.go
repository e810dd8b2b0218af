package civ

import "github.com/biotica/biotica/internal/worldstate"

// StepTerritory applies each active agent's control increment to its own
// tile and a smaller radial influence, decays every faction's control
// everywhere, then recomputes ownership as the per-tile argmax over
// per-faction control (§4.8.3). version is bumped exactly when ownership
// actually changes.
func (s *System) StepTerritory(w *worldstate.World) {
	for i := range s.factionCtrl {
		decaySlice(s.factionCtrl[i], controlDecayPerTick)
	}

	for _, agent := range s.Agents() {
		idx := s.factionIndex(agent.FactionID)
		if idx < 0 || !w.InBounds(agent.X, agent.Y) {
			continue
		}
		slice := s.factionCtrl[idx]
		addAt(slice, w.Index(agent.X, agent.Y), controlIncrementAtTile)

		for dy := -controlInfluenceRadius; dy <= controlInfluenceRadius; dy++ {
			for dx := -controlInfluenceRadius; dx <= controlInfluenceRadius; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if dx*dx+dy*dy > controlInfluenceRadius*controlInfluenceRadius {
					continue
				}
				nx, ny := agent.X+dx, agent.Y+dy
				if !w.InBounds(nx, ny) {
					continue
				}
				addAt(slice, w.Index(nx, ny), controlIncrementRadial)
			}
		}
	}

	changed := false
	for tile := range s.owner {
		bestFaction := -1
		var bestControl uint8
		for i, slice := range s.factionCtrl {
			v := slice[tile]
			if v > bestControl || (v > 0 && bestFaction == -1) {
				bestControl = v
				bestFaction = i
			}
		}
		var newOwner int8
		if bestFaction >= 0 && bestControl > 0 {
			newOwner = int8(bestFaction + 1)
		}
		if newOwner != s.owner[tile] {
			s.owner[tile] = newOwner
			changed = true
		}
	}
	if changed {
		s.version++
	}
}

func decaySlice(s []uint8, amount uint8) {
	for i, v := range s {
		if v <= amount {
			s[i] = 0
		} else {
			s[i] = v - amount
		}
	}
}

func addAt(s []uint8, tile int, amount uint8) {
	sum := int(s[tile]) + int(amount)
	if sum > maxControl {
		sum = maxControl
	}
	s[tile] = uint8(sum)
}

// OwnerOf returns the faction id owning a tile index, or "" if unclaimed.
func (s *System) OwnerOf(tileIndex int) string {
	o := s.owner[tileIndex]
	if o == 0 {
		return ""
	}
	idx := int(o) - 1
	if idx < 0 || idx >= len(s.factionSeq) {
		return ""
	}
	return s.factionSeq[idx]
}

// IsBorder reports whether tile (x,y) is adjacent to a tile owned by a
// different faction (§4.8.3).
func (s *System) IsBorder(w *worldstate.World, x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	self := s.OwnerOf(w.Index(x, y))
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !w.InBounds(nx, ny) {
				continue
			}
			if other := s.OwnerOf(w.Index(nx, ny)); other != self {
				return true
			}
		}
	}
	return false
}
