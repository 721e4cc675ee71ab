// Package main is the goalplan command line tool. It plans goals from YAML files
// without a database.
package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/domain/planning"
	"github.com/goal-planner/backend/internal/integration/planfile"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "goalplan",
		Short:        "Financial goal planning CLI",
		Long:         "Plans monthly contributions toward financial goals from a YAML plan file",
		SilenceUsage: true,
	}
	root.AddCommand(planCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(phasesCmd())
	root.AddCommand(pmtCmd())
	root.AddCommand(versionCmd())
	return root
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [input-file]",
		Short: "Allocate the monthly budget across the goals of a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := planfile.NewParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			style, _ := cmd.Flags().GetString("style")
			if style != "" {
				file.FundingStyle = entity.FundingStyle(style)
				if !entity.IsValidFundingStyle(file.FundingStyle) {
					return fmt.Errorf("unknown funding style %q", style)
				}
			}

			state, err := file.State()
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			formatter := formatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown output format %q", format)
			}
			return formatter(cmd.OutOrStdout(), state.Plan)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
	cmd.Flags().String("style", "", "Override the funding style (waterfall, parallel, hybrid)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := planfile.NewParser().LoadFromFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid\n", args[0])
			return nil
		},
	}
}

func phasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phases",
		Short: "Show the return phases of a horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			months, _ := cmd.Flags().GetInt("months")
			profile, _ := cmd.Flags().GetString("profile")

			var period *int
			if cmd.Flags().Changed("payment-period") {
				years, _ := cmd.Flags().GetInt("payment-period")
				period = &years
			}

			phases, err := planning.BuildReturnPhases(months, entity.RiskProfile(profile), period, nil)
			if err != nil {
				return err
			}
			writePhases(cmd.OutOrStdout(), phases)
			return nil
		},
	}
	cmd.Flags().Int("months", 0, "Months until the target date (required)")
	cmd.Flags().String("profile", string(entity.RiskProfileBalanced), "Risk profile (conservative, balanced, growth)")
	cmd.Flags().Int("payment-period", 0, "Years of drawdown after the target date")
	_ = cmd.MarkFlagRequired("months")
	return cmd
}

func pmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pmt",
		Short: "Compute the required monthly payment for a target amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawAmount, _ := cmd.Flags().GetString("amount")
			amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", rawAmount, err)
			}
			months, _ := cmd.Flags().GetInt("months")
			profile, _ := cmd.Flags().GetString("profile")

			phases, err := planning.BuildReturnPhases(months, entity.RiskProfile(profile), nil, nil)
			if err != nil {
				return err
			}
			pmt, err := planning.RequiredPayment(amount, phases, months)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pmt.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().String("amount", "", "Target amount (required)")
	cmd.Flags().Int("months", 0, "Months until the target date (required)")
	cmd.Flags().String("profile", string(entity.RiskProfileBalanced), "Risk profile (conservative, balanced, growth)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("months")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goalplan %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path)
			}
		},
	}
}
