// Package cli implements cadencectl, an offline tool for checking rule files.
//
// Rule files are YAML documents in the same shape the HTTP API accepts:
//
//	type: DOW_OF_MONTH
//	offset: 1
//	day_of_week: 3
//	repeat:
//	  type: MONTHLY
//	  period: 1
//
// Pass "-" as the file to read the rule from stdin.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
)

// ErrRuleFileRequired is returned when a command runs without --file.
var ErrRuleFileRequired = errors.New("a rule file is required (--file)")

// options are shared by every subcommand.
type options struct {
	file string
	now  func() time.Time
}

// BuildCLI returns the cadencectl command tree. now supplies the default
// reference date; nil means time.Now.
func BuildCLI(now func() time.Time) *cobra.Command {
	if now == nil {
		now = time.Now
	}
	opts := &options{now: now}

	rootCmd := &cobra.Command{
		Use:   "cadencectl",
		Short: "Inspect recurrence rules without a server",
		Long: `cadencectl evaluates recurrence rule files offline.
It validates and repairs rules and lists the dates they produce.`,
		Version:       "dev",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "rule file (YAML), or - for stdin")

	rootCmd.AddCommand(buildNextCommand(opts))
	rootCmd.AddCommand(buildValidateCommand(opts))
	rootCmd.AddCommand(buildRepairCommand(opts))
	rootCmd.AddCommand(buildPreviewCommand(opts))

	return rootCmd
}

func buildNextCommand(opts *options) *cobra.Command {
	var from string
	var count int

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the occurrence following a reference date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.loadRule(cmd)
			if err != nil {
				return err
			}
			ref, err := opts.date(from)
			if err != nil {
				return err
			}

			next, err := reminder.NextOccurrence(rec, ref, count)
			if err != nil {
				return err
			}
			if d, ok := next.Get(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "none")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "reference date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&count, "count", 0, "occurrences already produced before the reference date")

	return cmd
}

func buildValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a rule and report the first problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.loadRule(cmd)
			if err != nil {
				return err
			}
			if err := reminder.ValidateRule(rec); err != nil {
				return fmt.Errorf("invalid rule: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func buildRepairCommand(opts *options) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Print the nearest valid rule as YAML",
		Long:  "Repair fills missing or out-of-range fields from the reference date given by --on.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.loadRule(cmd)
			if err != nil {
				return err
			}
			ref, err := opts.date(on)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(reminder.RepairRule(rec, ref)); err != nil {
				return fmt.Errorf("failed to write rule: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "reference date YYYY-MM-DD (default today)")

	return cmd
}

func buildPreviewCommand(opts *options) *cobra.Command {
	var from string
	var n int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "List upcoming occurrences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 || n > reminder.MaxPreviewCount {
				return fmt.Errorf("-n must be between 1 and %d, got %d", reminder.MaxPreviewCount, n)
			}
			rec, err := opts.loadRule(cmd)
			if err != nil {
				return err
			}
			start, err := opts.date(from)
			if err != nil {
				return err
			}

			dates, err := reminder.PreviewRule(rec, start, n)
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date considered YYYY-MM-DD (default today)")
	cmd.Flags().IntVarP(&n, "count", "n", reminder.DefaultPreviewCount, "number of dates")

	return cmd
}

// date parses a flag value, defaulting to today in UTC.
func (o *options) date(value string) (calendar.Date, error) {
	if value == "" {
		return calendar.FromTime(o.now().UTC()), nil
	}
	d, err := calendar.Parse(value)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}

// loadRule decodes the rule file. Unknown keys are rejected so typos do not
// silently drop a field.
func (o *options) loadRule(cmd *cobra.Command) (domain.RuleRecord, error) {
	var r io.Reader
	switch o.file {
	case "":
		return domain.RuleRecord{}, ErrRuleFileRequired
	case "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(o.file)
		if err != nil {
			return domain.RuleRecord{}, fmt.Errorf("failed to open rule file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var rec domain.RuleRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return domain.RuleRecord{}, fmt.Errorf("failed to parse rule file: %w", err)
	}
	return rec, nil
}
