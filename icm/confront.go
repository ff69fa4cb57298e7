package icm

import (
	"math"
	"slices"
)

// Outcome names one way an all-in can resolve for the hero.
type Outcome int

const (
	Win Outcome = iota
	Tie
	Lose
	Fold
)

// Outcomes lists every Outcome in evaluation order.
var Outcomes = []Outcome{Win, Tie, Lose, Fold}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Tie:
		return "tie"
	case Lose:
		return "lose"
	case Fold:
		return "fold"
	default:
		return "unknown"
	}
}

// Confrontation is an all-in decision for Hero against Villain.
//
// The probabilities come from a range-vs-range equity calculation.  They
// are expected to sum to at most 1 but are not normalized here.
type Confrontation struct {
	PWin  float64
	PTie  float64
	PLose float64

	Hero    int
	Villain int

	Stacks []float64
	Prizes []float64
}

// EV holds the hero's equity after each outcome, plus the weighted EV of
// calling.  Whether Call beats Fold is the caller's decision.
type EV struct {
	Win  float64
	Tie  float64
	Lose float64
	Call float64
	Fold float64
}

func (ev *EV) set(o Outcome, v float64) {
	switch o {
	case Win:
		ev.Win = v
	case Tie:
		ev.Tie = v
	case Lose:
		ev.Lose = v
	case Fold:
		ev.Fold = v
	}
}

// Perturb returns a copy of stacks as they would be after the hand ends
// with outcome o for hero.  The pot is the smaller of the two stacks.
// hero and villain must be valid indices.
func Perturb(stacks []float64, hero, villain int, o Outcome) []float64 {
	out := slices.Clone(stacks)
	pot := min(stacks[hero], stacks[villain])
	switch o {
	case Win:
		out[hero] += pot
		out[villain] -= pot
	case Lose:
		out[hero] -= pot
		out[villain] += pot
	}
	return out
}

func (c *Confrontation) validate() error {
	n := len(c.Stacks)
	switch {
	case c.Hero == c.Villain:
		return invalidf("hero and villain are both player %d", c.Hero)
	case c.Hero < 0 || c.Hero >= n:
		return invalidf("hero %d out of range for %d stacks", c.Hero, n)
	case c.Villain < 0 || c.Villain >= n:
		return invalidf("villain %d out of range for %d stacks", c.Villain, n)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"win", c.PWin}, {"tie", c.PTie}, {"lose", c.PLose}} {
		if math.IsNaN(p.v) || p.v < 0 {
			return invalidf("probability of %s is %v", p.name, p.v)
		}
	}
	return validate(c.Stacks, c.Prizes)
}

// Evaluate runs calc once per Outcome on the perturbed stacks and reports
// the hero's equity for each.  All validation happens before the first
// equity computation.  Errors wrap ErrInvalidInput.
func Evaluate(calc Calculator, c Confrontation) (EV, error) {
	if err := c.validate(); err != nil {
		return EV{}, err
	}
	var ev EV
	for _, o := range Outcomes {
		equities, err := calc.Equity(Perturb(c.Stacks, c.Hero, c.Villain, o), c.Prizes)
		if err != nil {
			return EV{}, err
		}
		ev.set(o, equities[c.Hero])
	}
	ev.Call = c.PWin*ev.Win + c.PTie*ev.Tie + c.PLose*ev.Lose
	return ev, nil
}

// ConfrontationEV is Evaluate with the direct engine and flat arguments.
func ConfrontationEV(pWin, pTie, pLose float64, stacks, prizes []float64, hero, villain int) (win, tie, lose, call, fold float64, err error) {
	ev, err := Evaluate(Direct{}, Confrontation{
		PWin:    pWin,
		PTie:    pTie,
		PLose:   pLose,
		Hero:    hero,
		Villain: villain,
		Stacks:  stacks,
		Prizes:  prizes,
	})
	return ev.Win, ev.Tie, ev.Lose, ev.Call, ev.Fold, err
}
