// Package report renders equity and EV results for people (aligned text)
// and programs (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/ts4z/icmev/batch"
	"github.com/ts4z/icmev/icm"
	"github.com/ts4z/icmev/textutil"
)

// Decision is what the numbers recommend.
type Decision string

const (
	Call Decision = "call"
	Fold Decision = "fold"
)

// Verdict favors calling only when it is strictly better than folding.
func Verdict(ev icm.EV) Decision {
	if ev.Call > ev.Fold {
		return Call
	}
	return Fold
}

// EquityResult is the JSON form of an equity computation.
type EquityResult struct {
	Stacks   []float64 `json:"stacks"`
	Prizes   []float64 `json:"prizes"`
	Equities []float64 `json:"equities"`
}

// EVResult is the JSON form of a confrontation.
type EVResult struct {
	Win     float64  `json:"win"`
	Tie     float64  `json:"tie"`
	Lose    float64  `json:"lose"`
	Call    float64  `json:"call"`
	Fold    float64  `json:"fold"`
	Verdict Decision `json:"verdict"`
}

func NewEVResult(ev icm.EV) *EVResult {
	return &EVResult{
		Win:     ev.Win,
		Tie:     ev.Tie,
		Lose:    ev.Lose,
		Call:    ev.Call,
		Fold:    ev.Fold,
		Verdict: Verdict(ev),
	}
}

// BatchResult is one scenario of a batch, in JSON.  Error is set instead
// of EV when the scenario was rejected.
type BatchResult struct {
	Name  string    `json:"name"`
	EV    *EVResult `json:"ev,omitempty"`
	Error string    `json:"error,omitempty"`
}

func NewBatchResults(results []*batch.Result) []*BatchResult {
	return lo.Map(results, func(r *batch.Result, _ int) *BatchResult {
		br := &BatchResult{Name: r.Scenario.Name}
		if r.Err != nil {
			br.Error = r.Err.Error()
		} else {
			br.EV = NewEVResult(r.EV)
		}
		return br
	})
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteEquity prints one row per player with their share of the chips and
// of the paid prizes.
func WriteEquity(w io.Writer, stacks, prizes, equities []float64) error {
	chips := floats.Sum(stacks)
	paid := floats.Sum(equities)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "player\tstack\tchips %%\tequity\tequity %%\t\n")
	for i := range stacks {
		fmt.Fprintf(tw, "%d\t%g\t%.2f\t%.3f\t%.2f\t\n",
			i, stacks[i], percent(stacks[i], chips), equities[i], percent(equities[i], paid))
	}
	fmt.Fprintf(tw, "total\t%g\t\t%.3f\t\t\n", chips, paid)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "prizes: %s\n", textutil.FormatFloats(prizes))
	return err
}

// WriteEV prints the call formula with its terms filled in, the fold EV,
// and the verdict.
func WriteEV(w io.Writer, c icm.Confrontation, ev icm.EV) error {
	_, err := fmt.Fprintf(w, `ICM EV of call
    %.3f * %.3f + %.3f * %.3f + %.3f * %.3f = %.3f
ICM EV of fold
    %.3f
verdict: %s
`,
		c.PWin, ev.Win, c.PTie, ev.Tie, c.PLose, ev.Lose, ev.Call,
		ev.Fold,
		Verdict(ev))
	return err
}

// WritePayout prints the prize for each paid place.
func WritePayout(w io.Writer, prizes []int64) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	for i, p := range prizes {
		fmt.Fprintf(tw, "%s\t%d\t\n", textutil.FormatPlace(i+1), p)
	}
	fmt.Fprintf(tw, "total\t%d\t\n", lo.Sum(prizes))
	return tw.Flush()
}

// WriteBatch prints one line per scenario.
func WriteBatch(w io.Writer, results []*batch.Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "scenario\twin\ttie\tlose\tcall\tfold\tverdict\n")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t\t\t\t\t\terror: %v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			r.Scenario.Name, r.EV.Win, r.EV.Tie, r.EV.Lose, r.EV.Call, r.EV.Fold, Verdict(r.EV))
	}
	return tw.Flush()
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * part / whole
}
