package worldstate

import "testing"

func TestNewWorldFieldLengths(t *testing.T) {
	w := New(10, 5, 1)
	n := 50
	if len(w.Tiles) != n || len(w.Temperature) != n || len(w.PlantBiomass) != n {
		t.Fatalf("expected all per-tile fields to have length %d", n)
	}
}

func TestIndexRowMajor(t *testing.T) {
	w := New(4, 3, 1)
	if w.Index(0, 0) != 0 {
		t.Fatalf("expected index 0 at origin")
	}
	if w.Index(3, 2) != 2*4+3 {
		t.Fatalf("expected row-major index, got %d", w.Index(3, 2))
	}
}

func TestClampedAdds(t *testing.T) {
	w := New(2, 2, 1)
	idx := w.Index(0, 0)
	w.Temperature[idx] = 250
	w.AddTemperature(idx, 50)
	if w.Temperature[idx] != 255 {
		t.Fatalf("expected clamp to 255, got %d", w.Temperature[idx])
	}
	w.Temperature[idx] = 5
	w.AddTemperature(idx, -50)
	if w.Temperature[idx] != 0 {
		t.Fatalf("expected clamp to 0, got %d", w.Temperature[idx])
	}
}

func TestResizeAtomic(t *testing.T) {
	w := New(4, 4, 1)
	w.Fertility[w.Index(1, 1)] = 100
	w.Resize(6, 6)
	if len(w.Tiles) != 36 || len(w.Temperature) != 36 {
		t.Fatalf("expected all fields resized atomically")
	}
	if w.Fertility[w.Index(1, 1)] != 100 {
		t.Fatalf("expected preserved value to survive resize")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	w := New(3, 3, 1)
	snap := w.Snapshot()
	w.Tiles[0] = Forest
	if snap.Tiles[0] == Forest {
		t.Fatalf("snapshot must not alias live tile array")
	}
}
