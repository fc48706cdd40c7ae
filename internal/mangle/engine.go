// Package mangle answers reachability questions over bag rules with Google
// Mangle (Datalog). Containment pairs become contains/3 facts and can_hold/2
// is their transitive closure.
package mangle

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bagrules/internal/rules"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"
)

// schema declares the predicates and the closure rule.
const schema = `Decl contains(Outer, Inner, Count).
Decl can_hold(Outer, Inner).

can_hold(Outer, Inner) :- contains(Outer, Inner, _).
can_hold(Outer, Inner) :- contains(Outer, Mid, _), can_hold(Mid, Inner).
`

// Config holds Mangle engine configuration.
type Config struct {
	FactLimit int `json:"fact_limit"` // 0 disables the limit
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		FactLimit: 1000000,
	}
}

// Fact represents a single derived or loaded fact.
type Fact struct {
	Predicate string        `json:"predicate"`
	Args      []interface{} `json:"args"`
}

// String returns the Datalog representation of the fact.
func (f Fact) String() string {
	args := make([]string, 0, len(f.Args))
	for _, arg := range f.Args {
		switch v := arg.(type) {
		case string:
			args = append(args, strconv.Quote(v))
		case int64:
			args = append(args, strconv.FormatInt(v, 10))
		default:
			args = append(args, fmt.Sprintf("%v", v))
		}
	}
	return fmt.Sprintf("%s(%s).", f.Predicate, strings.Join(args, ", "))
}

// Engine holds an evaluated program over one rule set.
type Engine struct {
	source      string
	programInfo *analysis.ProgramInfo
	store       factstore.FactStore
	logger      *zap.Logger
}

// NewEngine builds the program for rs and evaluates it to a fixpoint.
func NewEngine(cfg Config, rs []rules.Rule, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	source := Program(rs)

	unit, err := parse.Unit(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analysis error: %w", err)
	}

	limit := cfg.FactLimit
	if limit <= 0 {
		limit = math.MaxInt32
	}

	start := time.Now()
	store := factstore.NewSimpleInMemoryStore()
	stats, err := mengine.EvalProgramWithStats(programInfo, store, mengine.WithCreatedFactLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("evaluation error: %w", err)
	}
	logger.Debug("program evaluated",
		zap.Int("clauses", len(unit.Clauses)),
		zap.Int("strata", len(stats.Strata)),
		zap.Duration("elapsed", time.Since(start)))

	return &Engine{
		source:      source,
		programInfo: programInfo,
		store:       store,
		logger:      logger,
	}, nil
}

// Program renders the schema followed by one contains/3 fact per
// containment pair. Empty rules contribute no facts.
func Program(rs []rules.Rule) string {
	var sb strings.Builder
	sb.WriteString(schema)
	sb.WriteString("\n")
	for _, r := range rs {
		if r.Empty() {
			continue
		}
		for _, c := range r.Contents {
			n, err := c.Count()
			if err != nil {
				continue
			}
			sb.WriteString(Fact{Predicate: "contains", Args: []interface{}{r.Bag, c.Bag, int64(n)}}.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Source returns the program the engine evaluated.
func (e *Engine) Source() string {
	return e.source
}

// Query returns every fact stored for predicate.
func (e *Engine) Query(ctx context.Context, predicate string) ([]Fact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for pred := range e.programInfo.Decls {
		if pred.Symbol != predicate {
			continue
		}
		var facts []Fact
		err := e.store.GetFacts(ast.NewQuery(pred), func(a ast.Atom) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			facts = append(facts, atomToFact(a))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get facts: %w", err)
		}
		return facts, nil
	}
	return nil, fmt.Errorf("predicate %q is not declared", predicate)
}

// Holders returns, sorted, every bag type that can eventually contain
// target. The target itself is never listed.
func (e *Engine) Holders(ctx context.Context, target string) ([]string, error) {
	facts, err := e.Query(ctx, "can_hold")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, f := range facts {
		outer, _ := f.Args[0].(string)
		inner, _ := f.Args[1].(string)
		if inner != target || outer == target {
			continue
		}
		seen[outer] = struct{}{}
	}

	holders := make([]string, 0, len(seen))
	for bag := range seen {
		holders = append(holders, bag)
	}
	sort.Strings(holders)

	e.logger.Debug("holders resolved",
		zap.String("target", target),
		zap.Int("derived", len(facts)),
		zap.Int("holders", len(holders)))
	return holders, nil
}

func atomToFact(a ast.Atom) Fact {
	args := make([]interface{}, len(a.Args))
	for i, term := range a.Args {
		args[i] = termToValue(term)
	}
	return Fact{Predicate: a.Predicate.Symbol, Args: args}
}

func termToValue(term ast.BaseTerm) interface{} {
	switch t := term.(type) {
	case ast.Constant:
		switch t.Type {
		case ast.NumberType:
			return t.NumValue
		default:
			return t.Symbol
		}
	default:
		return fmt.Sprintf("%v", term)
	}
}
