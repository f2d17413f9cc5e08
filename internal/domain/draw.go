package domain

import (
	"math/rand/v2"
	"time"
)

// Draw selects n distinct cards from deck using the provided RNG.
// Orientation is a 50/50 flip made after selection, so it never
// influences which cards are chosen.
func Draw(deck []Card, n int, rng RNG) ([]DrawnCard, error) {
	if n < 0 || n > len(deck) {
		return nil, ErrInvalidCount
	}
	if n == 0 {
		return []DrawnCard{}, nil
	}

	// Fisher-Yates over indices; the deck itself is never reordered.
	indices := make([]int, len(deck))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	cards := make([]DrawnCard, n)
	for i := range n {
		cards[i] = DrawnCard{Card: deck[indices[i]], Orientation: Upright}
	}
	for i := range n {
		if rng.Intn(2) == 1 {
			cards[i].Orientation = Reversed
		}
	}
	return cards, nil
}

type seededRNG struct {
	r *rand.Rand
}

func (s seededRNG) Intn(n int) int { return s.r.IntN(n) }

// NewSeededRNG returns an RNG with a fully determined stream: the same
// seed always produces the same sequence of values.
func NewSeededRNG(seed uint64) RNG {
	return seededRNG{r: rand.New(rand.NewPCG(seed, seed))}
}

// DateSeed derives a draw seed from a calendar date, so the daily
// reading for a given day is stable across restarts until redrawn.
func DateSeed(date time.Time) uint64 {
	y, m, d := date.UTC().Date()
	return uint64(y)*10000 + uint64(m)*100 + uint64(d)
}
