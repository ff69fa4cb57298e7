// Package builtins holds the payout tables that ship with icmev.
package builtins

import (
	"net/http"
	"slices"
	"strings"

	"github.com/ts4z/icmev/he"
	"github.com/ts4z/icmev/paytable"
)

// barge is the BARGE 2025 unified payout structure.  Fields of fewer than
// five are winner take all.
var barge = &paytable.Paytable{
	Name:      "BARGE Unified Poker Payouts",
	Increment: 5,
	Rows: []paytable.Row{
		{
			MinPlayers:  1,
			MaxPlayers:  4,
			Percentages: []int{10000},
		},
		{
			MinPlayers:  5,
			MaxPlayers:  8,
			Percentages: []int{6500, 3500},
		},
		{
			MinPlayers:  9,
			MaxPlayers:  15,
			Percentages: []int{5000, 3000, 2000},
		},
		{
			MinPlayers:  16,
			MaxPlayers:  24,
			Percentages: []int{4200, 2600, 1800, 1400},
		},
		{
			MinPlayers:  25,
			MaxPlayers:  35,
			Percentages: []int{3600, 2400, 1700, 1300, 1000},
		},
		{
			MinPlayers:  36,
			MaxPlayers:  47,
			Percentages: []int{3100, 2200, 1700, 1300, 1000, 700},
		},
		{
			MinPlayers:  48,
			MaxPlayers:  55,
			Percentages: []int{2800, 2100, 1600, 1300, 1000, 700, 500},
		},
		{
			MinPlayers:  56,
			MaxPlayers:  64,
			Percentages: []int{2700, 2000, 1600, 1200, 900, 700, 500, 400},
		},
		{
			MinPlayers:  65,
			MaxPlayers:  72,
			Percentages: []int{2600, 1900, 1500, 1200, 900, 700, 500, 400, 300},
		},
		{
			MinPlayers:  73,
			MaxPlayers:  80,
			Percentages: []int{2500, 1900, 1400, 1100, 900, 700, 500, 400, 300, 300},
		},
		{
			MinPlayers:  81,
			MaxPlayers:  96,
			Percentages: []int{2500, 1800, 1300, 1000, 800, 600, 500, 400, 300, 300, 250, 250},
		},
		{
			MinPlayers:  97,
			MaxPlayers:  120,
			Percentages: []int{2500, 1700, 1200, 900, 700, 600, 400, 300, 300, 300, 250, 250, 200, 200, 200},
		},
		{
			MinPlayers:  121,
			MaxPlayers:  144,
			Percentages: []int{2400, 1600, 1200, 900, 700, 500, 400, 300, 250, 250, 225, 225, 200, 200, 200, 150, 150, 150},
		},
		{
			MinPlayers:  145,
			MaxPlayers:  168,
			Percentages: []int{2300, 1500, 1100, 850, 600, 500, 400, 300, 250, 250, 225, 225, 200, 200, 200, 150, 150, 150, 150, 150, 150},
		},
	},
}

// winnerTakeAll pays one place at any field size.
var winnerTakeAll = &paytable.Paytable{
	Name:      "Winner Take All",
	Increment: 1,
	Rows: []paytable.Row{
		{MinPlayers: 1, MaxPlayers: 1 << 30, Percentages: []int{paytable.FullPool}},
	},
}

var paytables = map[string]*paytable.Paytable{
	"barge": barge,
	"wta":   winnerTakeAll,
}

// Paytable returns a copy of the built-in table with the given short name.
// Names are case-insensitive.
func Paytable(name string) (*paytable.Paytable, error) {
	if pt, ok := paytables[strings.ToLower(name)]; ok {
		return pt.Clone(), nil
	}
	return nil, he.HTTPCodedErrorf(http.StatusNotFound, "no paytable named %q", name)
}

// Names lists the short names Paytable accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(paytables))
	for name := range paytables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
