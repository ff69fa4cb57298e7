// Package webapp serves the ICM engine as a JSON API.
package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/ts4z/icmev/batch"
	"github.com/ts4z/icmev/builtins"
	"github.com/ts4z/icmev/dep"
	"github.com/ts4z/icmev/he"
	"github.com/ts4z/icmev/icm"
	"github.com/ts4z/icmev/middleware"
	"github.com/ts4z/icmev/report"
	"github.com/ts4z/icmev/varz"
)

var (
	equityRequests = varz.NewInt("equityRequests")
	evRequests     = varz.NewInt("evRequests")
	batchRequests  = varz.NewInt("batchRequests")
	badRequests    = varz.NewInt("badRequests")
	tooCostly      = varz.NewInt("tooCostly")
)

// maxBodyBytes bounds request bodies.  A batch of a few thousand
// scenarios fits comfortably.
const maxBodyBytes = 4 << 20

// Config holds the dependencies of an App.
type Config struct {
	Calc           icm.Calculator
	Clock          middleware.Clock
	AllowedOrigins []string
	BatchWorkers   int
	MaxCost        float64 // per request, in icm.Cost units; <= 0 is unlimited
}

// App is the HTTP API.
type App struct {
	calc         icm.Calculator
	clock        middleware.Clock
	batchWorkers int
	maxCost      float64

	mux     *http.ServeMux
	handler http.Handler
}

// New creates an App with its handlers installed.
func New(config *Config) *App {
	app := &App{
		calc:         dep.Required(config.Calc),
		clock:        dep.Required(config.Clock),
		batchWorkers: config.BatchWorkers,
		maxCost:      config.MaxCost,
		mux:          http.NewServeMux(),
	}

	for _, origin := range config.AllowedOrigins {
		log.Info().Str("origin", origin).Msg("CORS allowing origin")
	}
	corsMW := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	logger := middleware.NewRequestLogger(app.mux, app.clock)
	app.handler = corsMW.Handler(logger)

	app.InstallHandlers()

	return app
}

// Handler returns the configured HTTP handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

// InstallHandlers registers all HTTP routes.
func (app *App) InstallHandlers() {
	app.mux.HandleFunc("POST /api/equity", app.handleEquity)
	app.mux.HandleFunc("POST /api/ev", app.handleEV)
	app.mux.HandleFunc("POST /api/batch", app.handleBatch)
	app.mux.HandleFunc("GET /api/payout", app.handlePayout)
	app.mux.HandleFunc("GET /api/paytables", app.handlePaytables)
	app.mux.Handle("GET /debug/vars", varz.Handler())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequests.Add(1)
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return he.HTTPCodedErrorf(http.StatusRequestEntityTooLarge, "request body over %d bytes", tooBig.Limit)
		}
		return he.HTTPCodedErrorf(http.StatusBadRequest, "invalid JSON: %w", err)
	}
	return nil
}

func respond(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		he.SendErrorToHTTPClient(w, "encode response", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(append(b, '\n')); err != nil {
		log.Warn().Err(err).Msg("error writing response")
	}
}

// checkCost refuses work estimated above the configured limit.  The
// engines can't be interrupted once started.
func (app *App) checkCost(cost float64) error {
	if app.maxCost > 0 && cost > app.maxCost {
		tooCostly.Add(1)
		return he.HTTPCodedErrorf(http.StatusRequestEntityTooLarge,
			"computation too large: estimated cost %.3g, limit %.3g", cost, app.maxCost)
	}
	return nil
}

type equityRequest struct {
	Stacks []float64 `json:"stacks"`
	Prizes []float64 `json:"prizes"`
}

func (app *App) handleEquity(w http.ResponseWriter, r *http.Request) {
	equityRequests.Add(1)
	var req equityRequest
	if err := decode(w, r, &req); err != nil {
		he.SendErrorToHTTPClient(w, "decode request", err)
		return
	}

	if err := app.checkCost(icm.Cost(app.calc, req.Stacks, req.Prizes)); err != nil {
		he.SendErrorToHTTPClient(w, "compute equity", err)
		return
	}

	equities, err := app.calc.Equity(req.Stacks, req.Prizes)
	if err != nil {
		he.SendErrorToHTTPClient(w, "compute equity", err)
		return
	}

	respond(w, &report.EquityResult{
		Stacks:   req.Stacks,
		Prizes:   req.Prizes,
		Equities: equities,
	})
}

func (app *App) handleEV(w http.ResponseWriter, r *http.Request) {
	evRequests.Add(1)
	var req batch.Scenario
	if err := decode(w, r, &req); err != nil {
		he.SendErrorToHTTPClient(w, "decode request", err)
		return
	}

	c := req.Confrontation()
	if err := app.checkCost(icm.EvaluateCost(app.calc, c)); err != nil {
		he.SendErrorToHTTPClient(w, "compute EV", err)
		return
	}

	ev, err := icm.Evaluate(app.calc, c)
	if err != nil {
		he.SendErrorToHTTPClient(w, "compute EV", err)
		return
	}

	respond(w, report.NewEVResult(ev))
}

func (app *App) handleBatch(w http.ResponseWriter, r *http.Request) {
	batchRequests.Add(1)
	var req struct {
		Scenarios []*batch.Scenario `json:"scenarios"`
	}
	if err := decode(w, r, &req); err != nil {
		he.SendErrorToHTTPClient(w, "decode request", err)
		return
	}
	cost := 0.0
	for i, s := range req.Scenarios {
		if s == nil {
			he.SendErrorToHTTPClient(w, "decode request", he.HTTPCodedErrorf(http.StatusBadRequest, "scenario %d is null", i))
			return
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("#%d", i+1)
		}
		cost += icm.EvaluateCost(app.calc, s.Confrontation())
	}
	if err := app.checkCost(cost); err != nil {
		he.SendErrorToHTTPClient(w, "run batch", err)
		return
	}

	runner := &batch.Runner{Calc: app.calc, Workers: app.batchWorkers}
	results, err := runner.Run(r.Context(), req.Scenarios)
	if err != nil {
		he.SendErrorToHTTPClient(w, "run batch", err)
		return
	}

	respond(w, struct {
		Results []*report.BatchResult `json:"results"`
	}{report.NewBatchResults(results)})
}

func queryInt(r *http.Request, key string) (int64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, he.HTTPCodedErrorf(http.StatusBadRequest, "missing %s", key)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, he.HTTPCodedErrorf(http.StatusBadRequest, "can't parse %s: %v", key, err)
	}
	return v, nil
}

func (app *App) handlePayout(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("paytable")
	if name == "" {
		name = "barge"
	}
	pt, err := builtins.Paytable(name)
	if err != nil {
		he.SendErrorToHTTPClient(w, "fetch paytable", err)
		return
	}
	pool, err := queryInt(r, "pool")
	if err != nil {
		he.SendErrorToHTTPClient(w, "parse query", err)
		return
	}
	players, err := queryInt(r, "players")
	if err != nil {
		he.SendErrorToHTTPClient(w, "parse query", err)
		return
	}

	prizes, err := pt.Payout(pool, int(players))
	if err != nil {
		he.SendErrorToHTTPClient(w, "compute payout", he.New(http.StatusBadRequest, err))
		return
	}

	respond(w, struct {
		Paytable string  `json:"paytable"`
		Prizes   []int64 `json:"prizes"`
	}{pt.Name, prizes})
}

func (app *App) handlePaytables(w http.ResponseWriter, r *http.Request) {
	respond(w, struct {
		Paytables []string `json:"paytables"`
	}{builtins.Names()})
}

// Wrapper to just return the input context.
func contextualizer(ctx context.Context) func(net.Listener) context.Context {
	return func(_ net.Listener) context.Context {
		return ctx
	}
}

// Serve runs the HTTP server until ctx is cancelled or the listener fails.
func (app *App) Serve(ctx context.Context, listenAddress string) error {
	server := &http.Server{
		Addr:         listenAddress,
		Handler:      app.handler,
		BaseContext:  contextualizer(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", listenAddress).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server exited: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
