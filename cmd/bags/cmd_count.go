package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// countCmd counts arbitrary bag types
var countCmd = &cobra.Command{
	Use:   "count [bag...]",
	Short: "Count the bags inside one or more bag types",
	Long: `Prints "<bag>: <total>" for every bag type given, in argument order.
Without arguments the shiny gold bag is counted.

Example:
  bags count "shiny gold" "dark olive"`,
	RunE: runCount,
}

// runCount evaluates each target on its own counter, concurrently.
func runCount(cmd *cobra.Command, args []string) error {
	targets := args
	if len(targets) == 0 {
		targets = []string{defaultTarget}
	}

	rs, err := loadRules()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	totals := make([]int, len(targets))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, target := range targets {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			c, err := newCounter(rs)
			if err != nil {
				return err
			}
			total, err := c.Count(target)
			if err != nil {
				return fmt.Errorf("count %q: %w", target, err)
			}
			totals[i] = total
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Debug("Targets counted", zap.Strings("targets", targets))
	for i, target := range targets {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", target, totals[i])
	}
	return nil
}
