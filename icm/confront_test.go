package icm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerturb(t *testing.T) {
	stacks := []float64{20, 10, 5}
	tests := []struct {
		outcome Outcome
		want    []float64
	}{
		{Win, []float64{30, 0, 5}},
		{Tie, []float64{20, 10, 5}},
		{Lose, []float64{10, 20, 5}},
		{Fold, []float64{20, 10, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Perturb(stacks, 0, 1, tt.outcome))
			assert.Equal(t, []float64{20, 10, 5}, stacks, "base stacks untouched")
		})
	}
}

func TestPerturbShortStackHero(t *testing.T) {
	stacks := []float64{20, 10, 9, 2, 20}
	assert.Equal(t, []float64{20, 1, 18, 2, 20}, Perturb(stacks, 2, 1, Win))
	assert.Equal(t, []float64{20, 19, 0, 2, 20}, Perturb(stacks, 2, 1, Lose))
}

func TestEvaluateKnownValues(t *testing.T) {
	tests := []struct {
		name string
		c    Confrontation
		want EV
	}{
		{
			name: "big stack calls medium stack",
			c: Confrontation{
				PWin: 0.55, PTie: 0, PLose: 0.45,
				Hero: 0, Villain: 1,
				Stacks: []float64{20, 10, 5},
				Prizes: []float64{100, 30, 10},
			},
			want: EV{
				Win:  90,
				Tie:  67.9047619047619,
				Lose: 44.28571428571428,
				Call: 69.42857142857143,
				Fold: 67.9047619047619,
			},
		},
		{
			name: "short stack busts on a loss",
			c: Confrontation{
				PWin: 0.454, PTie: 0.005, PLose: 0.541,
				Hero: 2, Villain: 1,
				Stacks: []float64{20, 10, 9, 2, 20},
				Prizes: []float64{125, 65, 40, 22, 10},
			},
			want: EV{
				Win:  70.93057639310369,
				Tie:  47.62888324003197,
				Lose: 10,
				Call: 37.85062609866924,
				Fold: 47.62888324003197,
			},
		},
	}
	for _, c := range calculators {
		for _, tt := range tests {
			t.Run(c.name+"/"+tt.name, func(t *testing.T) {
				got, err := Evaluate(c.calc, tt.c)
				require.NoError(t, err)
				assertAllClose(t,
					[]float64{tt.want.Win, tt.want.Tie, tt.want.Lose, tt.want.Call, tt.want.Fold},
					[]float64{got.Win, got.Tie, got.Lose, got.Call, got.Fold})
			})
		}
	}
}

func TestEvaluateCertainWin(t *testing.T) {
	win, _, _, call, _, err := ConfrontationEV(1, 0, 0, []float64{20, 10, 9, 2, 20}, []float64{125, 65, 40, 22, 10}, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, win, call)
}

func TestEvaluateFoldIsBaseEquity(t *testing.T) {
	stacks := []float64{20, 10, 5}
	prizes := []float64{100, 30, 10}
	_, _, _, _, fold, err := ConfrontationEV(0.5, 0.1, 0.4, stacks, prizes, 0, 1)
	require.NoError(t, err)
	base, err := Equity(stacks, prizes)
	require.NoError(t, err)
	assert.Equal(t, base[0], fold)
}

func TestEvaluateDoesNotNormalize(t *testing.T) {
	ev, err := Evaluate(Direct{}, Confrontation{
		PWin: 0.2, PTie: 0.1, PLose: 0.2,
		Hero: 0, Villain: 1,
		Stacks: []float64{20, 10, 5},
		Prizes: []float64{100, 30, 10},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.2*ev.Win+0.1*ev.Tie+0.2*ev.Lose, ev.Call, tolerance)
}

func TestEvaluateInvalidInput(t *testing.T) {
	base := Confrontation{
		PWin: 0.5, PTie: 0, PLose: 0.5,
		Hero: 0, Villain: 1,
		Stacks: []float64{20, 10, 5},
		Prizes: []float64{100, 30, 10},
	}
	tests := []struct {
		name   string
		mutate func(c *Confrontation)
	}{
		{"hero is villain", func(c *Confrontation) { c.Villain = 0 }},
		{"hero out of range", func(c *Confrontation) { c.Hero = 3 }},
		{"negative villain", func(c *Confrontation) { c.Villain = -1 }},
		{"negative win", func(c *Confrontation) { c.PWin = -0.1 }},
		{"negative tie", func(c *Confrontation) { c.PTie = -0.1 }},
		{"NaN lose", func(c *Confrontation) { c.PLose = math.NaN() }},
		{"negative stack", func(c *Confrontation) { c.Stacks = []float64{20, -10, 5} }},
		{"no prizes", func(c *Confrontation) { c.Prizes = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			ev, err := Evaluate(Direct{}, c)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, EV{}, ev)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "win", Win.String())
	assert.Equal(t, "fold", Fold.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestEvaluateStaysFiniteWithLopsidedStacks(t *testing.T) {
	conf := Confrontation{
		PWin: 1, PTie: 0, PLose: 0,
		Hero: 1, Villain: 0,
		Stacks: []float64{1e20, 1, 3},
		Prizes: []float64{100, 50, 10},
	}
	for _, c := range calculators {
		t.Run(c.name, func(t *testing.T) {
			ev, err := Evaluate(c.calc, conf)
			require.NoError(t, err)
			assertFinite(t, ev.Win, ev.Tie, ev.Lose, ev.Call, ev.Fold)
			assert.Equal(t, ev.Win, ev.Call)
			assert.InDelta(t, 10, ev.Lose, tolerance)
		})
	}
}
