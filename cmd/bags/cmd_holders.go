package main

import (
	"fmt"

	"bagrules/internal/logging"
	"bagrules/internal/mangle"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listHolders bool
	dumpProgram bool
)

// holdersCmd answers which bags can eventually hold a bag
var holdersCmd = &cobra.Command{
	Use:   "holders [bag]",
	Short: "Count bag types that can eventually contain a bag",
	Long: `Loads the rules into a Mangle program, derives the can_hold/2 closure
and reports how many bag types can eventually contain the bag
(default shiny gold).

Example:
  bags holders --list
  bags holders "dark olive" --dump`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHolders,
}

func runHolders(cmd *cobra.Command, args []string) error {
	target := defaultTarget
	if len(args) == 1 {
		target = args[0]
	}

	rs, err := loadRules()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	engine, err := mangle.NewEngine(mangle.Config{FactLimit: cfg.Mangle.FactLimit}, rs, logging.Get(logging.CategoryKernel))
	if err != nil {
		return fmt.Errorf("failed to build holders program: %w", err)
	}

	out := cmd.OutOrStdout()
	if dumpProgram {
		fmt.Fprint(out, engine.Source())
	}

	holders, err := engine.Holders(ctx, target)
	if err != nil {
		return err
	}
	logger.Info("Holders resolved", zap.String("bag", target), zap.Int("holders", len(holders)))

	fmt.Fprintf(out, "%d bag types can eventually hold %s\n", len(holders), target)
	if listHolders {
		for _, bag := range holders {
			fmt.Fprintf(out, "  %s\n", bag)
		}
	}
	return nil
}
