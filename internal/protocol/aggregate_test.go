package protocol

import (
	"math/rand"
	"testing"
)

func entry(code string, qty float64) PositionEntry {
	info := ParseCode(code)
	return PositionEntry{
		PosCode:  code,
		Quantity: qty,
		Valid:    true,
		Leaf:     info.Leaf,
	}
}

func TestAggregate(t *testing.T) {
	entries := []PositionEntry{
		entry("01.01.0010.", 2),
		entry("01.01.0020.", 1),
		entry("01.01.0010.", 3),
		entry("01.", 99), // category header, excluded
	}

	got := Aggregate(entries)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].PosCode != "01.01.0010." || got[0].TotalQuantity != 5 {
		t.Errorf("got[0] = %+v, want 01.01.0010. with total 5", got[0])
	}
	if got[1].PosCode != "01.01.0020." || got[1].TotalQuantity != 1 {
		t.Errorf("got[1] = %+v, want 01.01.0020. with total 1", got[1])
	}
}

func TestAggregate_SkipsInvalid(t *testing.T) {
	entries := []PositionEntry{
		{PosCode: "01.01.0010.", Quantity: 7, Valid: false, Leaf: true},
		entry("01.01.0010.", 2),
	}

	got := Aggregate(entries)
	if len(got) != 1 || got[0].TotalQuantity != 2 {
		t.Fatalf("got = %+v, want only the valid entry's quantity", got)
	}
}

func TestAggregate_RoundsOnceAfterSummation(t *testing.T) {
	// Three additions of 0.1 plus 0.2: naive per-step float rounding
	// differs from rounding the final sum.
	entries := []PositionEntry{
		entry("01.01.0010.", 0.1),
		entry("01.01.0010.", 0.1),
		entry("01.01.0010.", 0.1),
		entry("01.01.0010.", 0.2),
	}

	got := Aggregate(entries)
	if got[0].TotalQuantity != 0.5 {
		t.Errorf("TotalQuantity = %v, want 0.5", got[0].TotalQuantity)
	}
}

func TestAggregate_OrderIndependentTotals(t *testing.T) {
	base := []PositionEntry{
		entry("01.01.0010.", 1.11),
		entry("01.01.0020.", 2.22),
		entry("01.01.0010.", 3.33),
		entry("01.02.0010.", 0.07),
		entry("01.01.0020.", 1.01),
	}

	want := map[string]float64{}
	for _, a := range Aggregate(base) {
		want[a.PosCode] = a.TotalQuantity
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]PositionEntry(nil), base...)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		for _, a := range Aggregate(shuffled) {
			if want[a.PosCode] != a.TotalQuantity {
				t.Fatalf("total for %s = %v after shuffle, want %v", a.PosCode, a.TotalQuantity, want[a.PosCode])
			}
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	entries := []PositionEntry{
		entry("01.01.0010.", 2),
		entry("01.01.0010.", 3),
		entry("01.01.0020.", 1),
	}

	once := Aggregate(entries)
	twice := Aggregate(AsEntries(once))

	if len(once) != len(twice) {
		t.Fatalf("len mismatch: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("re-aggregation changed %v to %v", once[i], twice[i])
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, want empty", got)
	}
}
