// Package icmcache puts an LRU in front of an icm.Calculator.
//
// A tournament client asks for the same handful of stack configurations
// over and over (every confrontation evaluates the base stacks as its fold
// scenario), so even a small cache helps.
package icmcache

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/ts4z/icmev/icm"
	"github.com/ts4z/icmev/varz"
)

var (
	equityCacheHits   = varz.NewInt("equityCacheHits")
	equityCacheMisses = varz.NewInt("equityCacheMisses")
)

// Calculator is a read-through cache.  It is safe for concurrent use.
type Calculator struct {
	cache *lru.Cache[string, []float64]
	next  icm.Calculator
}

var (
	_ icm.Calculator = (*Calculator)(nil)
	_ icm.Coster     = (*Calculator)(nil)
)

// New returns a cache of at most size results in front of next.
func New(size int, next icm.Calculator) (*Calculator, error) {
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &Calculator{cache: cache, next: next}, nil
}

// Equity implements icm.Calculator.  The returned slice belongs to the
// caller.  Errors are passed through and never cached.
func (c *Calculator) Equity(stacks, prizes []float64) ([]float64, error) {
	k := key(stacks, prizes)
	if v, ok := c.cache.Get(k); ok {
		equityCacheHits.Add(1)
		return slices.Clone(v), nil
	}

	equityCacheMisses.Add(1)
	v, err := c.next.Equity(stacks, prizes)
	if err != nil {
		return nil, err
	}
	if evicted := c.cache.Add(k, slices.Clone(v)); evicted {
		log.Debug().Int("size", c.cache.Len()).Msg("equity cache evicted an entry")
	}
	return v, nil
}

// Cost implements icm.Coster.  Cached results cost nothing.
func (c *Calculator) Cost(stacks, prizes []float64) float64 {
	if c.cache.Contains(key(stacks, prizes)) {
		return 0
	}
	return icm.Cost(c.next, stacks, prizes)
}

// Len reports the number of cached results.
func (c *Calculator) Len() int {
	return c.cache.Len()
}

// Purge drops every cached result.
func (c *Calculator) Purge() {
	c.cache.Purge()
}

// key is stacks in order, then prizes in descending order, since the engine
// sorts prizes itself.
func key(stacks, prizes []float64) string {
	sorted := slices.Clone(prizes)
	slices.SortFunc(sorted, func(a, b float64) int { return cmp.Compare(b, a) })

	sb := strings.Builder{}
	buf := make([]byte, 0, 24)
	for _, s := range stacks {
		sb.Write(strconv.AppendFloat(buf[:0], s, 'g', -1, 64))
		sb.WriteByte('/')
	}
	sb.WriteByte('|')
	for _, p := range sorted {
		sb.Write(strconv.AppendFloat(buf[:0], p, 'g', -1, 64))
		sb.WriteByte('/')
	}
	return sb.String()
}
