package decision

import "testing"

func TestSeededFloat_Deterministic(t *testing.T) {
	seeds := []string{
		"GROK_4:btc-150k-2026:0",
		"GPT_5:fed-cut-september:1",
		"",
		"a",
	}

	for _, seed := range seeds {
		first := SeededFloat(seed)
		second := SeededFloat(seed)
		if first != second {
			t.Errorf("SeededFloat(%q) not deterministic: %v vs %v", seed, first, second)
		}
	}
}

func TestSeededFloat_Range(t *testing.T) {
	for _, seed := range []string{"a", "b", "c", "agent:market:0", "agent:market:1", "x:y:2"} {
		v := SeededFloat(seed)
		if v < 0 || v >= 1 {
			t.Errorf("SeededFloat(%q) = %v, want [0, 1)", seed, v)
		}
	}
}

func TestSeededFloat_DistinctSeeds(t *testing.T) {
	// Different seeds should essentially never collide on a 32-bit hash.
	if SeededFloat("agent:market:0") == SeededFloat("agent:market:1") {
		t.Error("Distinct seeds produced identical values")
	}
}

func TestSeededIndex_Bounds(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for _, seed := range []string{"a", "b", "c", "d"} {
			idx := SeededIndex(seed, n)
			if idx < 0 || idx >= n {
				t.Errorf("SeededIndex(%q, %d) = %d, out of range", seed, n, idx)
			}
		}
	}

	if idx := SeededIndex("anything", 0); idx != 0 {
		t.Errorf("SeededIndex with n=0 should be 0, got %d", idx)
	}
}
