package rng

import (
	"sync"
	"testing"
)

func TestNewDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed produced different draws")
		}
	}
}

func TestByteSource(t *testing.T) {
	s := Bytes([]byte{255, 10, 7})
	if got := s.Float64(); got != 1.0 {
		t.Errorf("Float64() = %v, want 1", got)
	}
	if got := s.Intn(4); got != 2 {
		t.Errorf("Intn(4) = %d, want 2", got)
	}
	if got := s.Intn(0); got != 0 {
		t.Errorf("Intn(0) = %d, want 0", got)
	}
	s.Intn(5)
	if s.Float64() != 0 || s.Intn(3) != 0 {
		t.Error("exhausted source should return zero")
	}
}

func TestSeqSource(t *testing.T) {
	s := Seq(0.25, 0.75, 0.999)
	if s.Float64() != 0.25 || s.Float64() != 0.75 {
		t.Fatal("draws out of order")
	}
	if got := s.Intn(10); got != 9 {
		t.Errorf("Intn(10) on 0.999 = %d, want 9", got)
	}
	if got := s.Float64(); got != 0.25 {
		t.Errorf("Seq should cycle, got %v", got)
	}
	if s.Draws() != 4 {
		t.Errorf("Draws() = %d, want 4", s.Draws())
	}
	if got := Seq(1.0).Intn(3); got != 2 {
		t.Errorf("Intn clamps to n-1, got %d", got)
	}
}

func TestLockedConcurrent(t *testing.T) {
	src := Locked(New(7))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if v := src.Intn(5); v < 0 || v >= 5 {
					t.Errorf("Intn out of range: %d", v)
				}
				src.Float64()
			}
		}()
	}
	wg.Wait()
}
