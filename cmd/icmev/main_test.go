package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ts4z/icmev/config"
	"github.com/ts4z/icmev/report"
)

// withFlags points output at a buffer and sets every flag variable to a
// known value, restoring all of them when the test ends.
func withFlags(t *testing.T) *bytes.Buffer {
	t.Helper()
	prevOut, prevJSON, prevEngine := out, jsonOutput, engineName
	prevStacks, prevPrizes, prevPaytable, prevPool, prevEntrants := stacksArg, prizesArg, paytableArg, poolArg, entrantsArg
	prevHero, prevVillain, prevWin, prevTie, prevLose := heroArg, villainArg, pWinArg, pTieArg, pLoseArg
	prevPayoutPaytable, prevPayoutPool, prevPayoutEntrants := payoutPaytable, payoutPool, payoutEntrants
	prevCacheSize := config.CacheSize()
	t.Cleanup(func() {
		out, jsonOutput, engineName = prevOut, prevJSON, prevEngine
		stacksArg, prizesArg, paytableArg, poolArg, entrantsArg = prevStacks, prevPrizes, prevPaytable, prevPool, prevEntrants
		heroArg, villainArg, pWinArg, pTieArg, pLoseArg = prevHero, prevVillain, prevWin, prevTie, prevLose
		payoutPaytable, payoutPool, payoutEntrants = prevPayoutPaytable, prevPayoutPool, prevPayoutEntrants
		config.Set("cache_size", prevCacheSize)
	})

	buf := &bytes.Buffer{}
	out = buf
	jsonOutput = true
	engineName = "direct"
	stacksArg = "20/10/5"
	prizesArg = "100/30/10"
	paytableArg = ""
	poolArg = 0
	entrantsArg = 0
	heroArg, villainArg = 0, 1
	pWinArg, pTieArg, pLoseArg = 0.55, 0, 0.45
	payoutPaytable, payoutPool, payoutEntrants = "barge", 0, 0
	config.Set("cache_size", 16)
	return buf
}

func TestWithFlagsRestores(t *testing.T) {
	engineBefore, villainBefore := engineName, villainArg
	t.Run("inner", func(t *testing.T) {
		withFlags(t)
		engineName = "memo"
		villainArg = 3
	})
	assert.Equal(t, engineBefore, engineName)
	assert.Equal(t, villainBefore, villainArg)
}

func TestPrizesFromFlag(t *testing.T) {
	withFlags(t)
	prizesArg = "100 / 30 / 10"
	p, err := prizes(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 30, 10}, p)
}

func TestPrizesFromPaytable(t *testing.T) {
	withFlags(t)
	paytableArg = "barge"
	poolArg = 1000
	entrantsArg = 10
	p, err := prizes(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{500, 300, 200}, p)
}

func TestRunEquityJSON(t *testing.T) {
	buf := withFlags(t)
	require.NoError(t, runEquity(nil, nil))

	var got report.EquityResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Equities, 3)
	assert.InDelta(t, 67.9047619047619, got.Equities[0], 1e-9)
}

func TestRunEquityBadStacks(t *testing.T) {
	withFlags(t)
	stacksArg = "20/x"
	assert.ErrorContains(t, runEquity(nil, nil), "--stacks")
}

func TestWantJSONForNonTerminal(t *testing.T) {
	withFlags(t)
	jsonOutput = false
	assert.True(t, wantJSON())
}

func TestRunEVJSON(t *testing.T) {
	buf := withFlags(t)
	require.NoError(t, runEV(nil, nil))

	var got report.EVResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.InDelta(t, 69.42857142857143, got.Call, 1e-9)
	assert.InDelta(t, 67.9047619047619, got.Fold, 1e-9)
	assert.Equal(t, report.Call, got.Verdict)
}

func TestRunEVRejectsSamePlayer(t *testing.T) {
	withFlags(t)
	villainArg = 0
	assert.ErrorContains(t, runEV(nil, nil), "hero and villain")
}

func TestRunPayoutJSON(t *testing.T) {
	buf := withFlags(t)
	payoutPaytable, payoutPool, payoutEntrants = "barge", 1000, 10
	require.NoError(t, runPayout(nil, nil))

	var got []int64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []int64{500, 300, 200}, got)
}
