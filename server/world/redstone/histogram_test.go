package redstone

import "testing"

func TestHistogramBoolIgnoresZeroBucket(t *testing.T) {
	var h Histogram
	if h.Bool() {
		t.Fatal("empty histogram must report false")
	}
	h.Add(0)
	if h.Bool() {
		t.Fatal("bucket 0 (no signal) must never count as a positive input")
	}
	h.Add(7)
	if !h.Bool() {
		t.Fatal("nonzero bucket must report true")
	}
	h.Remove(7)
	if h.Bool() {
		t.Fatal("removing the only nonzero bucket must report false again")
	}
}

func TestHistogramLastIndexPositive(t *testing.T) {
	var h Histogram
	if got := h.LastIndexPositive(); got != 0 {
		t.Fatalf("empty histogram: got %d, want 0", got)
	}
	h.Add(3)
	if got := h.LastIndexPositive(); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	h.Add(15)
	if got := h.LastIndexPositive(); got != 15 {
		t.Fatalf("got %d, want 15", got)
	}
	h.Remove(15)
	if got := h.LastIndexPositive(); got != 3 {
		t.Fatalf("after removing 15: got %d, want 3", got)
	}
	h.Add(9)
	if got := h.LastIndexPositive(); got != 9 {
		t.Fatalf("got %d, want 9", got)
	}
}
