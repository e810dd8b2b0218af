package creature

// SpatialIndex is a uniform-grid acceleration structure owned exclusively by
// CreatureSystem (§5, §9): rebuilt each tick from the current population so
// perception queries stay bounded regardless of population size.
type SpatialIndex struct {
	cellSize      int
	width, height int
	stride        int
	buckets       map[int][]int // bucket key -> creature ids, id-ascending
}

func bucketKey(cx, cy, stride int) int {
	return cy*stride + cx
}

// NewSpatialIndex builds an index over creatures at their current positions.
// cellSize should be >= the largest perception radius in play so a single
// ring of neighboring buckets covers any query radius up to cellSize.
func NewSpatialIndex(creatures []*Creature, width, height, cellSize int) *SpatialIndex {
	if cellSize < 1 {
		cellSize = 1
	}
	idx := &SpatialIndex{
		cellSize: cellSize,
		width:    width,
		height:   height,
		buckets:  make(map[int][]int),
	}
	stride := (width / cellSize) + 2
	for _, c := range creatures {
		if c.IsDead() {
			continue
		}
		cx, cy := c.X/cellSize, c.Y/cellSize
		key := bucketKey(cx, cy, stride)
		idx.buckets[key] = append(idx.buckets[key], c.ID)
	}
	idx.stride = stride
	// Sort each bucket ascending for deterministic iteration (§4.7).
	for k := range idx.buckets {
		insertionSort(idx.buckets[k])
	}
	return idx
}

func insertionSort(ids []int) {
	for i := 1; i < len(ids); i++ {
		v := ids[i]
		j := i - 1
		for j >= 0 && ids[j] > v {
			ids[j+1] = ids[j]
			j--
		}
		ids[j+1] = v
	}
}

// QueryRect returns the ids, in ascending order, of live creatures whose
// position lies within [x0,y0]-[x1,y1] inclusive. Only the buckets that
// overlap the rect are scanned (§4.7: queryCreaturesInRect).
func (idx *SpatialIndex) QueryRect(byID map[int]*Creature, x0, y0, x1, y1 int) []int {
	cx0, cy0 := x0/idx.cellSize, y0/idx.cellSize
	cx1, cy1 := x1/idx.cellSize, y1/idx.cellSize

	seen := map[int]bool{}
	var out []int
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			key := bucketKey(cx, cy, idx.stride)
			for _, id := range idx.buckets[key] {
				c, ok := byID[id]
				if !ok || c.IsDead() {
					continue
				}
				if c.X < x0 || c.X > x1 || c.Y < y0 || c.Y > y1 {
					continue
				}
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
	}
	insertionSort(out)
	return out
}
