package eventlog

import (
	"testing"
	"time"
)

func TestOverflowDropsOldest(t *testing.T) {
	l := New(defaultCapacity)
	for i := 0; i < defaultCapacity+5; i++ {
		l.Append(i, time.Time{}, Info, CategoryInfo, "msg")
	}
	if l.Len() != defaultCapacity {
		t.Fatalf("expected capacity-bounded length %d, got %d", defaultCapacity, l.Len())
	}
	recent := l.Recent(defaultCapacity)
	if recent[0].Tick != 5 {
		t.Fatalf("expected oldest surviving entry at tick 5, got %d", recent[0].Tick)
	}
	if recent[len(recent)-1].Tick != defaultCapacity+4 {
		t.Fatalf("expected newest entry at tick %d, got %d", defaultCapacity+4, recent[len(recent)-1].Tick)
	}
}

func TestMinimumCapacityEnforced(t *testing.T) {
	l := New(10)
	if l.capacity < defaultCapacity {
		t.Fatalf("capacity must be clamped to at least %d", defaultCapacity)
	}
}

func TestFilterByCategory(t *testing.T) {
	l := New(defaultCapacity)
	l.Append(1, time.Time{}, Info, CategoryBirths, "born")
	l.Append(1, time.Time{}, Info, CategoryDeaths, "died")
	cat := CategoryDeaths
	results := l.Query(Filter{Category: &cat}, 1, 10)
	if len(results) != 1 || results[0].Message != "died" {
		t.Fatalf("expected only the deaths entry, got %+v", results)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	l := New(defaultCapacity)
	for i := 0; i < 100; i++ {
		l.Append(i, time.Time{}, Info, CategoryEvents, "e")
	}
	snap := l.Export()
	restored := New(defaultCapacity)
	restored.Restore(snap)
	if restored.Len() != l.Len() || restored.nextID != l.nextID {
		t.Fatalf("expected round-tripped log to match original")
	}
}
