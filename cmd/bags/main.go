package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bagrules/internal/config"
	"bagrules/internal/counter"
	"bagrules/internal/logging"
	"bagrules/internal/rules"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultTarget is the bag the root command always counts.
const defaultTarget = "shiny gold"

var (
	// Global flags
	verbose    bool
	configPath string
	inputPath  string
	timeout    time.Duration

	// Resolved in PersistentPreRunE
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bags",
	Short: "Count the bags a shiny gold bag must hold",
	Long: `bags reads containment rules such as

  light red bags contain 1 bright white bag, 2 muted yellow bags.
  faded blue bags contain no other bags.

one per line from the input file (default input.txt) and prints how many
bags one shiny gold bag must contain, nested bags included.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if inputPath != "" {
			loaded.Input.Path = inputPath
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		logger, err = logging.Initialize(cfg.Logging, verbose, zap.String("run_id", uuid.NewString()))
		if err != nil {
			return err
		}
		logging.Get(logging.CategoryBoot).Debug("config resolved",
			zap.String("config", configPath),
			zap.String("input", cfg.Input.Path),
			zap.Int("cache_size", cfg.Cache.Size))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	Args: cobra.NoArgs,
	RunE: runDefault,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Rules file (default from config: input.txt)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	holdersCmd.Flags().BoolVar(&listHolders, "list", false, "Print every holder bag type")
	holdersCmd.Flags().BoolVar(&dumpProgram, "dump", false, "Print the generated Datalog program")

	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(holdersCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDefault counts the fixed target and prints the single result line.
func runDefault(cmd *cobra.Command, args []string) error {
	rs, err := loadRules()
	if err != nil {
		return err
	}

	c, err := newCounter(rs)
	if err != nil {
		return err
	}

	total, err := c.Count(defaultTarget)
	if err != nil {
		return err
	}
	logger.Info("Containment counted",
		zap.String("bag", defaultTarget),
		zap.Int("total", total),
		zap.Int("cached", c.Cached()))

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d bag types to hold\n", total)
	return nil
}

// loadRules parses the configured input file.
func loadRules() ([]rules.Rule, error) {
	log := logging.Get(logging.CategoryParse)
	log.Debug("Parsing rules", zap.String("path", cfg.Input.Path))

	rs, err := rules.ParseFile(cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	log.Info("Rules loaded", zap.String("path", cfg.Input.Path), zap.Int("rules", len(rs)))
	return rs, nil
}

// newCounter builds a counter with the configured cache.
func newCounter(rs []rules.Rule) (*counter.Counter, error) {
	cache, err := counter.NewCache(cfg.Cache.Size)
	if err != nil {
		return nil, err
	}
	return counter.New(rs,
		counter.WithCache(cache),
		counter.WithLogger(logging.Get(logging.CategoryCounter)),
	), nil
}

// commandContext returns the command context bounded by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(baseCtx)
	}
	return context.WithTimeout(baseCtx, timeout)
}
