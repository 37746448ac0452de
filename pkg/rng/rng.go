// Package rng holds the uniform random sources injected into tree generation.
package rng

import (
	"math/rand"
	"sync"
)

// Source abstracts the source of randomness.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Rand wraps math/rand.
type Rand struct {
	*rand.Rand
}

// New returns a seeded source.
func New(seed int64) *Rand {
	return &Rand{rand.New(rand.NewSource(seed))}
}

type locked struct {
	mu  sync.Mutex
	src Source
}

// Locked guards src with a mutex so it can be shared between goroutines.
func Locked(src Source) Source {
	return &locked{src: src}
}

func (l *locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// ByteSource uses a byte slice as a source of randomness. Once the data
// runs out every draw returns zero.
type ByteSource struct {
	data []byte
	pos  int
}

// Bytes returns a source driven by data, typically fuzzer input.
func Bytes(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0.0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 255.0
}

// SeqSource replays a fixed list of draws, cycling when exhausted.
type SeqSource struct {
	draws []float64
	pos   int
}

// Seq returns a source that yields draws in order. Intn(n) maps the
// next draw d to int(d*n), clamped to n-1.
func Seq(draws ...float64) *SeqSource {
	if len(draws) == 0 {
		draws = []float64{0}
	}
	return &SeqSource{draws: draws}
}

func (s *SeqSource) Float64() float64 {
	d := s.draws[s.pos%len(s.draws)]
	s.pos++
	return d
}

func (s *SeqSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Draws reports how many values have been consumed.
func (s *SeqSource) Draws() int { return s.pos }
