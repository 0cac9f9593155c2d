package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinicdesk/internal/calendar"
	"github.com/jwalitptl/clinicdesk/internal/config"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "clinicd",
		Short:         "Clinic front desk server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(serveCmd(&cfgPath))
	rootCmd.AddCommand(watchCmd(&cfgPath))
	rootCmd.AddCommand(lunarCmd())
	rootCmd.AddCommand(clockCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func lunarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lunar [YYYY-MM-DD]",
		Short: "Print the Hijri date for a Gregorian date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if len(args) == 1 {
				parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(args[0]), time.Local)
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				day = parsed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", day.Format("2006-01-02"), calendar.ToLunar(day))
			return nil
		},
	}
}

func clockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Print the current Gregorian and Hijri reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := calendar.Clock(time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.Civil, r.Lunar)
			return nil
		},
	}
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
	})
}
