package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AaronWong1999/silver-calculator-page/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "silvermon",
	Short: "Periodic risk monitor for a leveraged precious-metals DCA position",
	Long: `Silvermon watches live gold and silver quotes and compares them
against the risk thresholds of your configured DCA ladders:

  - the next scheduled buy price under the safety-rate assumption
  - the margin-call ("boom") price of the recorded position
  - the gold/silver ratio against a static floor

It is built to run from cron: one stateless evaluation per invocation,
alerts mailed over SMTP when a threshold is approached.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var logLevel string

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	logger.Sync()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Init(logLevel)
	}
}
