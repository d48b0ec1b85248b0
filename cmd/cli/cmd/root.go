// Package cmd provides the CLI commands for wc-rating.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wc-rating/adapters/planfile"
	"wc-rating/core/rating"
	"wc-rating/core/ui"
	"wc-rating/internal/config"
	"wc-rating/internal/logging"
)

// Version is the tool version, overridden at build time
var Version = "0.1.0"

var (
	cfgFile  string
	envFile  string
	verbose  bool
	planName string
	planFile string
	noColor  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wc-rating",
	Short: "Workers' compensation premium calculator",
	Long: `wc-rating computes workers' compensation premiums from a class code,
annual payroll and optional rating modifiers.

Examples:
  wc-rating quote --class 8810 --payroll 100000
  wc-rating quote --plan manual --class 8824 --payroll 100,000 --format csv
  wc-rating explain --class 8825 --payroll 50000 --adjust premises=0.001
  wc-rating interactive
  wc-rating serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wc-rating.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with WC_RATING_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&planName, "plan", "", "built-in rating plan (dashboard, manual)")
	rootCmd.PersistentFlags().StringVar(&planFile, "plan-file", "", "rating plan file (.hcl, .yaml, .json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	envErr := config.LoadDotEnv(envFile)

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	// flags win over file and environment
	cfg.Rating = cfg.Rating.WithFlags(planName, planFile)
	if noColor {
		cfg.Output.NoColor = true
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	if envErr != nil {
		logging.Warn("ignoring dotenv file", zap.String("path", envFile), zap.Error(envErr))
	}
}

// loadPlan resolves the active rating plan. A plan file wins over a preset.
func loadPlan(cfg config.RatingConfig) (*rating.Plan, error) {
	if cfg.PlanFile != "" {
		logging.Debug("loading plan file " + cfg.PlanFile)
		return planfile.Load(cfg.PlanFile)
	}
	name := cfg.Plan
	if name == "" {
		name = rating.PresetDashboard
	}
	return rating.Preset(name)
}

func newUI(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wc-rating version %s\n", Version)
	},
}
