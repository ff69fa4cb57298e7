// Package icm computes tournament payout equity under the Independent Chip
// Model, and the EV of an all-in confrontation between two players built on
// top of it.
//
// Everything here is a pure function of its arguments.  Inputs are copied
// before use and never modified.
package icm

import (
	"cmp"
	"fmt"
	"math"
	"math/bits"
	"slices"
)

const (
	// MaxPlayers is the largest field the engines accept.  The active set
	// is a uint64 bitmask.
	MaxPlayers = 64

	// DirectPlayerLimit is the number of live stacks up to which Auto uses
	// the direct recursion.
	DirectPlayerLimit = 9
)

// Calculator turns stacks and prizes into per-player equity.
type Calculator interface {
	Equity(stacks, prizes []float64) ([]float64, error)
}

// Equity returns each player's expected share of the prizes.
//
// prizes need not be sorted.  Only the first len(stacks) places can be
// reached, so extra prizes are ignored.
//
// Players with a zero stack are already out.  They are paid the places
// just below those the live players compete for, in index order: the
// first zero stack in the slice gets the best of the remaining places.
// That is not necessarily the order they busted in, so callers who care
// must arrange the busted players by elimination, latest bust first.
//
// Errors wrap ErrInvalidInput.
func Equity(stacks, prizes []float64) ([]float64, error) {
	return Direct{}.Equity(stacks, prizes)
}

// Direct evaluates every finishing order with a plain recursion.  The work
// grows factorially with the number of live players, which is fine for a
// single table.
type Direct struct{}

var _ Calculator = Direct{}

func (Direct) Equity(stacks, prizes []float64) ([]float64, error) {
	t, err := newTable(stacks, prizes)
	if err != nil {
		return nil, err
	}
	equities := make([]float64, len(t.stacks))
	t.placementEquity(equities, t.live, 0, 1.0)
	t.payBusted(equities)
	return equities, nil
}

// Auto uses Direct for small fields and Memoized for larger ones.
type Auto struct{}

var _ Calculator = Auto{}

func (a Auto) Equity(stacks, prizes []float64) ([]float64, error) {
	return a.engine(stacks).Equity(stacks, prizes)
}

func (Auto) engine(stacks []float64) Calculator {
	if live, _ := shape(stacks, nil); live <= DirectPlayerLimit {
		return Direct{}
	}
	return Memoized{}
}

// table is the validated, private copy of one computation's inputs.
type table struct {
	stacks []float64
	prizes []float64 // descending
	live   uint64    // players with chips
}

func newTable(stacks, prizes []float64) (*table, error) {
	if err := validate(stacks, prizes); err != nil {
		return nil, err
	}
	t := &table{
		stacks: slices.Clone(stacks),
		prizes: slices.Clone(prizes),
	}
	slices.SortFunc(t.prizes, func(a, b float64) int { return cmp.Compare(b, a) })
	for i, s := range t.stacks {
		if s > 0 {
			t.live |= 1 << i
		}
	}
	return t, nil
}

func validate(stacks, prizes []float64) error {
	if len(stacks) == 0 {
		return invalidf("no stacks")
	}
	if len(prizes) == 0 {
		return invalidf("no prizes")
	}
	if len(stacks) > MaxPlayers {
		return invalidf("%d players, at most %d supported", len(stacks), MaxPlayers)
	}
	for i, s := range stacks {
		if !finiteNonNegative(s) {
			return invalidf("stack %d is %v", i, s)
		}
	}
	for i, p := range prizes {
		if !finiteNonNegative(p) {
			return invalidf("prize %d is %v", i, p)
		}
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// placementEquity adds to equities every active player's share of place
// and all places below it, given that the path so far happened with
// probability chance.  active is passed by value, so sibling branches
// never see each other's removals.
func (t *table) placementEquity(equities []float64, active uint64, place int, chance float64) {
	if place >= len(t.prizes) {
		return
	}
	// A running difference can round to 0 while a small stack is still
	// live, so the total comes from the set itself.
	remaining := t.chipsIn(active)
	for set := active; set != 0; set &= set - 1 {
		i := bits.TrailingZeros64(set)
		p := t.stacks[i] / remaining
		equities[i] += chance * p * t.prizes[place]
		t.placementEquity(equities, active&^(1<<i), place+1, chance*p)
	}
}

// chipsIn sums the stacks of the players in set.  Every set passed here
// holds at least one live player, so the sum is positive.
func (t *table) chipsIn(set uint64) float64 {
	sum := 0.0
	for ; set != 0; set &= set - 1 {
		sum += t.stacks[bits.TrailingZeros64(set)]
	}
	return sum
}

// payBusted hands zero-stack players the places after the live players, in
// index order.  Places past the end of the prize list pay nothing.
func (t *table) payBusted(equities []float64) {
	place := bits.OnesCount64(t.live)
	for i, s := range t.stacks {
		if s != 0 {
			continue
		}
		if place < len(t.prizes) {
			equities[i] = t.prizes[place]
		}
		place++
	}
}

var engines = map[string]Calculator{
	"direct": Direct{},
	"memo":   Memoized{},
	"auto":   Auto{},
}

// EngineByName returns the calculator called "direct", "memo" or "auto".
func EngineByName(name string) (Calculator, error) {
	if c, ok := engines[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown engine %q (want direct, memo or auto)", name)
}
