package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"maze.io/x/duration"

	"github.com/ts4z/icmev/batch"
	"github.com/ts4z/icmev/builtins"
	"github.com/ts4z/icmev/config"
	"github.com/ts4z/icmev/icm"
	"github.com/ts4z/icmev/icmcache"
	"github.com/ts4z/icmev/report"
	"github.com/ts4z/icmev/textutil"
	"github.com/ts4z/icmev/ts"
	"github.com/ts4z/icmev/webapp"
)

var (
	jsonOutput bool
	engineName string

	stacksArg   string
	prizesArg   string
	paytableArg string
	poolArg     int64
	entrantsArg int

	heroArg    int
	villainArg int
	pWinArg    float64
	pTieArg    float64
	pLoseArg   float64

	payoutPaytable string
	payoutPool     int64
	payoutEntrants int

	scenarioFile string
	workersArg   int
	timeoutArg   time.Duration

	listenArg string

	clock = ts.NewRealClock()
	out   io.Writer = os.Stdout
)

// wantJSON is true when asked for, or when stdout is not a person.
func wantJSON() bool {
	if jsonOutput {
		return true
	}
	f, ok := out.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func calculator() (icm.Calculator, error) {
	return icm.EngineByName(engineName)
}

func cachedCalculator() (icm.Calculator, error) {
	calc, err := calculator()
	if err != nil {
		return nil, err
	}
	return icmcache.New(config.CacheSize(), calc)
}

// prizes comes from --prizes, or from a built-in paytable when --paytable
// and --pool are given.
func prizes(players int) ([]float64, error) {
	if paytableArg == "" {
		p, err := textutil.ParseFloats(prizesArg)
		if err != nil {
			return nil, fmt.Errorf("parsing --prizes: %w", err)
		}
		return p, nil
	}
	pt, err := builtins.Paytable(paytableArg)
	if err != nil {
		return nil, err
	}
	entrants := entrantsArg
	if entrants == 0 {
		entrants = players
	}
	return pt.Prizes(poolArg, entrants)
}

func stacks() ([]float64, error) {
	s, err := textutil.ParseFloats(stacksArg)
	if err != nil {
		return nil, fmt.Errorf("parsing --stacks: %w", err)
	}
	return s, nil
}

func runEquity(cmd *cobra.Command, args []string) error {
	s, err := stacks()
	if err != nil {
		return err
	}
	p, err := prizes(len(s))
	if err != nil {
		return err
	}
	calc, err := calculator()
	if err != nil {
		return err
	}

	start := clock.Now()
	equities, err := calc.Equity(s, p)
	if err != nil {
		return fmt.Errorf("computing equity: %w", err)
	}
	log.Debug().Str("engine", engineName).Dur("elapsed", clock.Since(start)).Msg("equity")

	if wantJSON() {
		return report.JSON(out, &report.EquityResult{Stacks: s, Prizes: p, Equities: equities})
	}
	return report.WriteEquity(out, s, p, equities)
}

func runEV(cmd *cobra.Command, args []string) error {
	s, err := stacks()
	if err != nil {
		return err
	}
	p, err := prizes(len(s))
	if err != nil {
		return err
	}
	calc, err := cachedCalculator()
	if err != nil {
		return err
	}

	c := icm.Confrontation{
		PWin:    pWinArg,
		PTie:    pTieArg,
		PLose:   pLoseArg,
		Hero:    heroArg,
		Villain: villainArg,
		Stacks:  s,
		Prizes:  p,
	}
	if sum := c.PWin + c.PTie + c.PLose; sum > 1+1e-9 {
		log.Warn().Float64("sum", sum).Msg("win, tie and lose probabilities add up to more than 1")
	}

	start := clock.Now()
	ev, err := icm.Evaluate(calc, c)
	if err != nil {
		return fmt.Errorf("computing EV: %w", err)
	}
	log.Debug().Str("engine", engineName).Dur("elapsed", clock.Since(start)).Msg("ev")

	if wantJSON() {
		return report.JSON(out, report.NewEVResult(ev))
	}
	return report.WriteEV(out, c, ev)
}

func runPayout(cmd *cobra.Command, args []string) error {
	pt, err := builtins.Paytable(payoutPaytable)
	if err != nil {
		return err
	}
	p, err := pt.Payout(payoutPool, payoutEntrants)
	if err != nil {
		return err
	}
	if wantJSON() {
		return report.JSON(out, p)
	}
	return report.WritePayout(out, p)
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(scenarioFile)
	if err != nil {
		return err
	}
	defer f.Close()

	scenarios, err := batch.Load(f)
	if err != nil {
		return fmt.Errorf("loading %s: %w", scenarioFile, err)
	}
	calc, err := cachedCalculator()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeoutArg > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeoutArg)
		defer cancel()
	}

	runner := &batch.Runner{Calc: calc, Workers: workersArg, Clock: clock.RealClock()}
	results, err := runner.Run(ctx, scenarios)
	if err != nil {
		return fmt.Errorf("running %s: %w", scenarioFile, err)
	}

	if wantJSON() {
		return report.JSON(out, report.NewBatchResults(results))
	}
	return report.WriteBatch(out, results)
}

func runServe(cmd *cobra.Command, args []string) error {
	calc, err := cachedCalculator()
	if err != nil {
		return err
	}
	app := webapp.New(&webapp.Config{
		Calc:           calc,
		Clock:          clock,
		AllowedOrigins: config.AllowedOrigins(),
		BatchWorkers:   config.BatchWorkers(),
		MaxCost:        config.MaxCost(),
	})
	return app.Serve(cmd.Context(), listenArg)
}

func addStackFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&stacksArg, "stacks", "20/10/5", "Chip stacks, separated by '/'")
	cmd.Flags().StringVar(&prizesArg, "prizes", "100/30/10", "Prizes, separated by '/'")
	cmd.Flags().StringVar(&paytableArg, "paytable", "", "Take prizes from this built-in paytable instead of --prizes")
	cmd.Flags().Int64Var(&poolArg, "pool", 0, "Prize pool for --paytable")
	cmd.Flags().IntVar(&entrantsArg, "entrants", 0, "Field size for --paytable (default: number of stacks)")
}

func main() {
	config.Init()

	rootCmd := &cobra.Command{
		Short:        "ICM equity and all-in EV calculator",
		Use:          "icmev",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Write JSON even to a terminal")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", config.Engine(), "Equity engine: direct, memo or auto")

	equityCmd := &cobra.Command{
		Use:   "equity",
		Short: "Compute every player's ICM equity",
		Args:  cobra.NoArgs,
		RunE:  runEquity,
	}
	addStackFlags(equityCmd)

	evCmd := &cobra.Command{
		Use:   "ev",
		Short: "Compare the ICM EV of calling an all-in with folding",
		Args:  cobra.NoArgs,
		RunE:  runEV,
	}
	addStackFlags(evCmd)
	evCmd.Flags().IntVar(&heroArg, "hero", 0, "Index of the hero's stack (zero-based)")
	evCmd.Flags().IntVar(&villainArg, "villain", 1, "Index of the villain's stack (zero-based)")
	evCmd.Flags().Float64Var(&pWinArg, "win", 0.55, "Probability the hero wins the hand")
	evCmd.Flags().Float64Var(&pTieArg, "tie", 0, "Probability the hand is split")
	evCmd.Flags().Float64Var(&pLoseArg, "lose", 0.45, "Probability the hero loses the hand")

	payoutCmd := &cobra.Command{
		Use:   "payout",
		Short: "Split a prize pool with a built-in paytable",
		Args:  cobra.NoArgs,
		RunE:  runPayout,
	}
	payoutCmd.Flags().StringVar(&payoutPaytable, "paytable", "barge", "Built-in paytable name")
	payoutCmd.Flags().Int64Var(&payoutPool, "pool", 0, "Total prize pool")
	payoutCmd.Flags().IntVar(&payoutEntrants, "entrants", 0, "Number of entrants")
	payoutCmd.MarkFlagRequired("pool")
	payoutCmd.MarkFlagRequired("entrants")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every confrontation in a YAML scenario file",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&scenarioFile, "file", "", "YAML scenario file")
	batchCmd.Flags().IntVar(&workersArg, "workers", config.BatchWorkers(), "Scenarios evaluated at once")
	batchCmd.Flags().Func("timeout", "Give up after this long (e.g. 30s, 1d)", func(s string) error {
		d, err := duration.ParseDuration(s)
		if err != nil {
			return err
		}
		timeoutArg = time.Duration(d)
		return nil
	})
	batchCmd.MarkFlagRequired("file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenArg, "listen", config.ListenAddress(), "Address to listen on")

	listCmd := &cobra.Command{
		Use:   "paytables",
		Short: "List built-in paytables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range builtins.Names() {
				pt, err := builtins.Paytable(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", name, pt.Name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(equityCmd, evCmd, payoutCmd, batchCmd, serveCmd, listCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
