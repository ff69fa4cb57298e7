package icm

import (
	"gonum.org/v1/gonum/stat/combin"
)

// Coster is implemented by calculators that can say how much work an
// input will take before doing it.  The unit is roughly one step of the
// innermost loop; only comparisons between costs are meaningful.
type Coster interface {
	Cost(stacks, prizes []float64) float64
}

// Cost estimates the work calc would do.  Calculators that aren't Costers
// are assumed to be as expensive as Direct.
func Cost(calc Calculator, stacks, prizes []float64) float64 {
	if c, ok := calc.(Coster); ok {
		return c.Cost(stacks, prizes)
	}
	return Direct{}.Cost(stacks, prizes)
}

// EvaluateCost estimates the work of Evaluate: one equity per Outcome.
// It is safe to call before c is validated.
func EvaluateCost(calc Calculator, c Confrontation) float64 {
	n := len(c.Stacks)
	if c.Hero < 0 || c.Hero >= n || c.Villain < 0 || c.Villain >= n {
		return float64(len(Outcomes)) * Cost(calc, c.Stacks, c.Prizes)
	}
	total := 0.0
	for _, o := range Outcomes {
		total += Cost(calc, Perturb(c.Stacks, c.Hero, c.Villain, o), c.Prizes)
	}
	return total
}

// shape is the number of live players and the number of places they
// compete for.
func shape(stacks, prizes []float64) (live, places int) {
	for _, s := range stacks {
		if s > 0 {
			live++
		}
	}
	return live, min(live, len(prizes))
}

// Cost counts the partial finishing orders over the paid places.
func (Direct) Cost(stacks, prizes []float64) float64 {
	live, places := shape(stacks, prizes)
	total, orders := 0.0, 1.0
	for k := 0; k < places; k++ {
		orders *= float64(live - k)
		total += orders
	}
	return total
}

// Cost counts the sets of unplaced players, each weighted by its size.
func (Memoized) Cost(stacks, prizes []float64) float64 {
	live, places := shape(stacks, prizes)
	total := 0.0
	for k := 0; k < places; k++ {
		total += combin.GeneralizedBinomial(float64(live), float64(k)) * float64(live-k)
	}
	return total
}

func (a Auto) Cost(stacks, prizes []float64) float64 {
	return Cost(a.engine(stacks), stacks, prizes)
}
