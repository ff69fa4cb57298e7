package icm

import (
	"math/bits"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Memoized gives the same answers as Direct, but caches the expected
// prizes for each set of unplaced players.  The place being awarded is
// implied by the size of the set, so the set alone is the key.
//
// Time and memory grow with the number of distinct sets reachable within
// the paid places rather than with the number of finishing orders.  The
// memo lives for one call only.
type Memoized struct{}

var _ Calculator = Memoized{}

func (Memoized) Equity(stacks, prizes []float64) ([]float64, error) {
	t, err := newTable(stacks, prizes)
	if err != nil {
		return nil, err
	}
	m := &memo{table: t, seen: make(map[uint64][]float64)}
	equities := slices.Clone(m.conditional(t.live))
	t.payBusted(equities)
	return equities, nil
}

type memo struct {
	*table
	seen map[uint64][]float64
}

// conditional returns each player's expected prize given that exactly the
// players in active have not been placed yet.  The returned slice is shared
// with the memo and must not be modified.
func (m *memo) conditional(active uint64) []float64 {
	if v, ok := m.seen[active]; ok {
		return v
	}
	out := make([]float64, len(m.stacks))
	place := bits.OnesCount64(m.live) - bits.OnesCount64(active)
	if place < len(m.prizes) {
		remaining := m.chipsIn(active)
		for set := active; set != 0; set &= set - 1 {
			i := bits.TrailingZeros64(set)
			p := m.stacks[i] / remaining
			out[i] += p * m.prizes[place]
			floats.AddScaled(out, p, m.conditional(active&^(1<<i)))
		}
	}
	m.seen[active] = out
	return out
}
