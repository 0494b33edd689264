package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AaronWong1999/silver-calculator-page/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for the monitor.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  silvermon config init --output monitor.yaml
  silvermon config validate --file monitor.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  silvermon config init --output monitor.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  silvermon config validate --file monitor.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "monitor.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the ladder snapshots, then run with:")
	fmt.Printf("  silvermon run --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("Configuration valid: %s\n", configValidatePath)
	for _, l := range cfg.Ladders {
		fmt.Printf("  Ladder %q: entry %.2f, equity %.2f, lots %d, size %.2f, margin %.2f%%\n",
			l.Name, l.EntryPrice, l.Equity, l.Lots, l.ContractSize, l.MarginRate*100)
	}
	pol := cfg.Policy.RiskPolicy()
	fmt.Printf("  Policy: ratio floor %s, buy proximity %s%%, margin proximity %s%%\n",
		pol.RatioFloor.StringFixed(2), pol.BuyProximityPct.StringFixed(1), pol.MarginProximityPct.StringFixed(1))
	if cfg.Journal.DBPath != "" {
		fmt.Printf("  Journal: %s\n", cfg.Journal.DBPath)
	}
	return nil
}
