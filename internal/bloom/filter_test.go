package bloom

import (
	"encoding/binary"
	"testing"
)

func TestFilter_NoFalseNegatives(t *testing.T) {
	f := New(1000, 0.01)

	items := make([][]byte, 1000)
	for i := range items {
		item := make([]byte, 32)
		binary.BigEndian.PutUint64(item, uint64(i))
		items[i] = item
		f.Add(item)
	}

	for i, item := range items {
		if !f.Contains(item) {
			t.Fatalf("item %d was added but Contains returned false", i)
		}
	}

	if f.Count() != 1000 {
		t.Errorf("count mismatch: got %d, want 1000", f.Count())
	}
}

func TestFilter_FalsePositiveRateIsBounded(t *testing.T) {
	f := New(1000, 0.01)

	for i := 0; i < 1000; i++ {
		item := make([]byte, 32)
		binary.BigEndian.PutUint64(item, uint64(i))
		f.Add(item)
	}

	falsePositives := 0
	const probes = 10000
	for i := 0; i < probes; i++ {
		item := make([]byte, 32)
		binary.BigEndian.PutUint64(item, uint64(1_000_000+i))
		if f.Contains(item) {
			falsePositives++
		}
	}

	// Allow generous slack over the 1% target to keep the test stable.
	if rate := float64(falsePositives) / probes; rate > 0.05 {
		t.Errorf("false positive rate too high: %f", rate)
	}
}

func TestFilter_DegenerateParametersGetDefaults(t *testing.T) {
	f := New(0, -1)
	f.Add([]byte("x"))
	if !f.Contains([]byte("x")) {
		t.Error("filter with defaulted parameters should still work")
	}
	if f.Contains([]byte("y")) && f.Contains([]byte("z")) && f.Contains([]byte("w")) {
		t.Error("filter appears saturated immediately after one insert")
	}
}
