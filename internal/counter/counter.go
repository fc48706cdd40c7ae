// Package counter computes how many bags one bag of a given type must hold,
// counting nested bags with multiplicity.
//
// A Counter owns its memoization cache, so independent evaluations never
// share state. Totals are cached once computed; bags whose rule is
// "no other bags" are answered from the rule every time and never cached.
package counter

import (
	"errors"
	"fmt"
	"strings"

	"bagrules/internal/rules"

	"go.uber.org/zap"
)

var (
	ErrUnknownBag = errors.New("unknown bag type")
	ErrCycle      = errors.New("containment cycle")
)

// CycleError reports a bag that (transitively) contains itself.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// Stats tracks cache behaviour across Count calls.
type Stats struct {
	Hits       int // answered from the cache
	Misses     int // had to consult the rules
	Expansions int // non-empty rules summed
}

// Counter evaluates containment totals over a fixed rule set.
// It is not safe for concurrent use.
type Counter struct {
	rules  []rules.Rule
	index  map[string]int
	cache  Cache
	logger *zap.Logger

	onPath map[string]bool
	stats  Stats
}

// Option configures a Counter.
type Option func(*Counter)

// WithCache replaces the default unbounded cache.
func WithCache(cache Cache) Option {
	return func(c *Counter) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Counter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Counter. When a bag type is defined more than once the
// first rule wins.
func New(rs []rules.Rule, opts ...Option) *Counter {
	c := &Counter{
		rules:  rs,
		index:  make(map[string]int, len(rs)),
		cache:  NewMemoCache(),
		logger: zap.NewNop(),
		onPath: make(map[string]bool),
	}
	for i, r := range rs {
		if _, dup := c.index[r.Bag]; !dup {
			c.index[r.Bag] = i
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count returns the total number of bags inside one bag of type bag.
func (c *Counter) Count(bag string) (int, error) {
	return c.count(bag, nil)
}

func (c *Counter) count(bag string, path []string) (int, error) {
	if total, ok := c.cache.Get(bag); ok {
		c.stats.Hits++
		return total, nil
	}
	c.stats.Misses++

	rule, ok := c.lookup(bag)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBag, bag)
	}
	if rule.Empty() {
		return 0, nil
	}

	path = append(path[:len(path):len(path)], bag)
	if c.onPath[bag] {
		return 0, &CycleError{Path: path}
	}
	c.onPath[bag] = true
	defer delete(c.onPath, bag)

	c.stats.Expansions++
	total := 0
	for _, content := range rule.Contents {
		n, err := content.Count()
		if err != nil {
			return 0, fmt.Errorf("rule for %q: %w", bag, err)
		}
		inner, err := c.count(content.Bag, path)
		if err != nil {
			return 0, err
		}
		total += n + n*inner
	}

	c.cache.Add(bag, total)
	c.logger.Debug("bag total computed",
		zap.String("bag", bag),
		zap.Int("total", total),
		zap.Int("depth", len(path)))
	return total, nil
}

func (c *Counter) lookup(bag string) (rules.Rule, bool) {
	i, ok := c.index[bag]
	if !ok {
		return rules.Rule{}, false
	}
	return c.rules[i], true
}

// Check evaluates every defined bag type, surfacing unknown references and
// cycles anywhere in the rule set.
func (c *Counter) Check() error {
	for _, r := range c.rules {
		if _, err := c.Count(r.Bag); err != nil {
			return err
		}
	}
	return nil
}

// Bags returns the defined bag types in input order, without duplicates.
func (c *Counter) Bags() []string {
	out := make([]string, 0, len(c.index))
	for i, r := range c.rules {
		if c.index[r.Bag] == i {
			out = append(out, r.Bag)
		}
	}
	return out
}

// Stats returns cache counters accumulated so far.
func (c *Counter) Stats() Stats {
	return c.stats
}

// Cached returns the number of memoized totals.
func (c *Counter) Cached() int {
	return c.cache.Len()
}
