package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCmd validates the whole rule file
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the rule file",
	Long: `Parses every line and evaluates every defined bag type, reporting the
first malformed line, unknown bag reference or containment cycle.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	rs, err := loadRules()
	if err != nil {
		return err
	}

	c, err := newCounter(rs)
	if err != nil {
		return err
	}
	if err := c.Check(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d rules, %d bag types\n", len(rs), len(c.Bags()))
	return nil
}
