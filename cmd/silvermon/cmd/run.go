package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AaronWong1999/silver-calculator-page/binance"
	"github.com/AaronWong1999/silver-calculator-page/config"
	"github.com/AaronWong1999/silver-calculator-page/journal"
	"github.com/AaronWong1999/silver-calculator-page/monitor"
	"github.com/AaronWong1999/silver-calculator-page/notify"
	"github.com/AaronWong1999/silver-calculator-page/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one monitoring evaluation",
	Long: `Run a single monitoring pass using settings from a configuration file.

Fetches live gold and silver quotes, rebuilds each ladder's position
snapshot, computes the buy-target and margin-call thresholds, and mails
an alert digest if any rule fires.

Exit code is 0 on a completed evaluation (alerts or not) and non-zero
on a fetch or config failure.

Example:
  silvermon run --config monitor.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDryRun     bool
	runTimeout    time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the alert digest instead of mailing it")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 60*time.Second, "overall run timeout")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var notifier notify.Notifier = notify.Console{}
	mailCfg := cfg.Mail.WithEnv()
	switch {
	case runDryRun:
		logger.Infof("dry run: alerts go to stdout")
	case mailCfg.Configured():
		notifier = notify.NewMailer(mailCfg.Host, mailCfg.Port, mailCfg.Username, mailCfg.Password, mailCfg.To)
	default:
		logger.Warnf("mail credentials not set, alerts go to stdout")
	}

	var j journal.Journal
	if cfg.Journal.DBPath != "" {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	runner := monitor.New(cfg, binance.NewClient(), notifier, j)
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s complete\n", res.RunID)
	fmt.Printf("  Gold:   %s\n", res.Gold)
	fmt.Printf("  Silver: %s\n", res.Silver)
	fmt.Printf("  Alerts: %d\n", len(res.Alerts))
	for _, a := range res.Alerts {
		fmt.Printf("    - %s\n", a.Message)
	}
	return nil
}
