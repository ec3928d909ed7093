package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxkit/pkg/visualtest"
)

func (a *app) newCompareCmd() *cobra.Command {
	opts := visualtest.DefaultOptions()
	var diffPath string
	cmd := &cobra.Command{
		Use:   "compare <test.html> <reference.html>",
		Short: "Render two documents and compare them pixel by pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actual, err := visualtest.RenderFile(a.cfg, args[0], 1, a.logger)
			if err != nil {
				return err
			}
			expected, err := visualtest.RenderFile(a.cfg, args[1], 1, a.logger)
			if err != nil {
				return err
			}
			res, err := visualtest.Compare(actual, expected, opts)
			if err != nil {
				return err
			}

			a.logger.Debug("Compared documents",
				zap.Int("different", res.DifferentPixels),
				zap.Int("max_difference", res.MaxDifference))
			if res.Match {
				fmt.Fprintln(cmd.OutOrStdout(), "match")
				return nil
			}
			if diffPath != "" {
				if err := visualtest.SavePNG(res.Diff, diffPath); err != nil {
					return fmt.Errorf("save diff: %w", err)
				}
			}
			return fmt.Errorf("%d of %d pixels differ (max difference %d)",
				res.DifferentPixels, res.TotalPixels, res.MaxDifference)
		},
	}
	cmd.Flags().IntVar(&opts.Tolerance, "tolerance", opts.Tolerance, "largest per-channel difference that still matches")
	cmd.Flags().IntVar(&opts.FuzzyRadius, "fuzzy", 0, "let pixels match within this radius")
	cmd.Flags().Float64Var(&opts.MaxDifferentPercent, "max-different", 0, "percentage of differing pixels to accept")
	cmd.Flags().StringVar(&diffPath, "diff", "", "write a diff image here when the documents differ")
	return cmd
}
