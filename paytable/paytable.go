// Package paytable turns payout tables into the prize lists that ICM
// consumes.
package paytable

import (
	"fmt"

	"github.com/samber/lo"
)

// FullPool is 100% in basis points.
const FullPool = 10000

// Row defines the payout percentages for a range of player counts.
// Percentages are in basis points (10000 = 100%).
type Row struct {
	MinPlayers  int   // inclusive
	MaxPlayers  int   // inclusive
	Percentages []int // index 0 = 1st place
}

// Paytable is a set of rows covering different field sizes.
type Paytable struct {
	Name      string // e.g. "BARGE Unified Poker Payouts"
	Increment int64  // smallest unit a prize is rounded to
	Rows      []Row
}

// Payout splits totalPrizePool among the paid places for numPlayers
// entrants.  Prizes are rounded down to Increment, and whatever that leaves
// over is handed out an Increment at a time starting from 1st place, so the
// prizes always add up to the pool.
func (pt *Paytable) Payout(totalPrizePool int64, numPlayers int) ([]int64, error) {
	percentages := pt.findRow(numPlayers)
	if len(percentages) == 0 {
		return nil, fmt.Errorf("no payout row in %q for %d players", pt.Name, numPlayers)
	}
	if totalPrizePool < 0 {
		return nil, fmt.Errorf("prize pool %d is negative", totalPrizePool)
	}
	increment := max(pt.Increment, 1)

	prizes := make([]int64, len(percentages))
	for i, bp := range percentages {
		prizes[i] = (totalPrizePool * int64(bp) / FullPool) / increment * increment
	}

	remainder := totalPrizePool - lo.Sum(prizes)
	for i := 0; remainder > 0; i++ {
		delta := min(remainder, increment)
		prizes[i%len(prizes)] += delta
		remainder -= delta
	}

	return prizes, nil
}

// Prizes is Payout as a prize list for the ICM engine.
func (pt *Paytable) Prizes(totalPrizePool int64, numPlayers int) ([]float64, error) {
	prizes, err := pt.Payout(totalPrizePool, numPlayers)
	if err != nil {
		return nil, err
	}
	return lo.Map(prizes, func(p int64, _ int) float64 { return float64(p) }), nil
}

// PaidPlaces returns how many places pay for numPlayers, or 0 if the table
// doesn't cover that many players.
func (pt *Paytable) PaidPlaces(numPlayers int) int {
	return len(pt.findRow(numPlayers))
}

// Validate checks that every row adds up to the whole pool and pays no
// more places than it has players.
func (pt *Paytable) Validate() error {
	for i, row := range pt.Rows {
		if sum := lo.Sum(row.Percentages); sum != FullPool {
			return fmt.Errorf("row %d [%d,%d] sums to %d, want %d", i, row.MinPlayers, row.MaxPlayers, sum, FullPool)
		}
		if row.MinPlayers < 1 || row.MaxPlayers < row.MinPlayers {
			return fmt.Errorf("row %d has bad player range [%d,%d]", i, row.MinPlayers, row.MaxPlayers)
		}
		if len(row.Percentages) > row.MinPlayers {
			return fmt.Errorf("row %d pays %d places but may have only %d players", i, len(row.Percentages), row.MinPlayers)
		}
	}
	return nil
}

// findRow finds the paytable row for the number of players, or nil if there isn't one.
func (pt *Paytable) findRow(numPlayers int) []int {
	for _, row := range pt.Rows {
		if numPlayers >= row.MinPlayers && numPlayers <= row.MaxPlayers {
			return row.Percentages
		}
	}
	return nil
}

func (pt *Paytable) Clone() *Paytable {
	clone := &Paytable{
		Increment: pt.Increment,
		Name:      pt.Name,
		Rows:      make([]Row, len(pt.Rows)),
	}
	for i, row := range pt.Rows {
		clone.Rows[i] = row
		clone.Rows[i].Percentages = append([]int(nil), row.Percentages...)
	}
	return clone
}
