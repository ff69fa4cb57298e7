// Package batch evaluates many confrontations at once.
//
// Confrontations are independent of each other, so they are spread over a
// bounded number of goroutines.  Scenarios can be read from YAML:
//
//	scenarios:
//	  - name: bubble shove
//	    win: 0.55
//	    lose: 0.45
//	    hero: 0
//	    villain: 1
//	    stacks: [20, 10, 5]
//	    prizes: [100, 30, 10]
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ts4z/icmev/icm"
)

// Scenario is one named confrontation.
type Scenario struct {
	Name    string    `yaml:"name" json:"name"`
	PWin    float64   `yaml:"win" json:"pWin"`
	PTie    float64   `yaml:"tie" json:"pTie"`
	PLose   float64   `yaml:"lose" json:"pLose"`
	Hero    int       `yaml:"hero" json:"hero"`
	Villain int       `yaml:"villain" json:"villain"`
	Stacks  []float64 `yaml:"stacks" json:"stacks"`
	Prizes  []float64 `yaml:"prizes" json:"prizes"`
}

func (s *Scenario) Confrontation() icm.Confrontation {
	return icm.Confrontation{
		PWin:    s.PWin,
		PTie:    s.PTie,
		PLose:   s.PLose,
		Hero:    s.Hero,
		Villain: s.Villain,
		Stacks:  s.Stacks,
		Prizes:  s.Prizes,
	}
}

// Result pairs a scenario with its EV.  Err is set, and EV is zero, when
// the scenario itself was invalid.
type Result struct {
	Scenario *Scenario
	EV       icm.EV
	Err      error
}

type file struct {
	Scenarios []*Scenario `yaml:"scenarios"`
}

// Load decodes a YAML scenario file.  Unnamed scenarios are named after
// their position.
func Load(r io.Reader) ([]*Scenario, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scenario file")
		}
		return nil, fmt.Errorf("decoding scenarios: %w", err)
	}
	for i, s := range f.Scenarios {
		if s == nil {
			return nil, fmt.Errorf("scenario %d is empty", i+1)
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("#%d", i+1)
		}
	}
	return f.Scenarios, nil
}

// Runner evaluates scenarios with Calc on up to Workers goroutines.
type Runner struct {
	Calc    icm.Calculator
	Workers int // <= 0 means GOMAXPROCS
	Clock   clockwork.Clock
}

// Run evaluates every scenario and returns results in input order.
// Invalid scenarios are reported in their Result; only cancellation of ctx
// fails the whole run.
func (r *Runner) Run(ctx context.Context, scenarios []*Scenario) ([]*Result, error) {
	clock := r.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := clock.Now()
	results := make([]*Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range scenarios {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev, err := icm.Evaluate(r.Calc, s.Confrontation())
			if err != nil {
				log.Debug().Str("scenario", s.Name).Err(err).Msg("scenario rejected")
			}
			results[i] = &Result{Scenario: s, EV: ev, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("scenarios", len(scenarios)).
		Int("workers", workers).
		Dur("elapsed", clock.Since(start)).
		Msg("batch complete")
	return results, nil
}
