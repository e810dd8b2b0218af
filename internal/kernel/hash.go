package kernel

import (
	"encoding/binary"
	"hash/fnv"
)

// StateHash folds the kernel's committed state into a single checksum:
// tick, population, per-creature position/energy in All's stable
// id-ascending order, species count, and faction count. Two kernels built
// from the same seed and stepped the same number of times must produce
// the same hash; any divergence in iteration order or floating-point
// accumulation shows up here before it shows up as a flaky test (§8 S1/S5).
func StateHash(k *Kernel) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v*1000)))
		h.Write(buf[:])
	}

	writeInt(k.World.Tick)
	writeInt(k.Creatures.Count())
	for _, c := range k.Creatures.All() {
		writeInt(c.ID)
		writeInt(c.X)
		writeInt(c.Y)
		writeFloat(c.Energy)
	}
	writeInt(len(k.Species.All()))
	writeInt(len(k.Civ.Factions()))
	return h.Sum64()
}
