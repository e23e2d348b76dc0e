// Copyright 2025 Tamás Gulácsi
//
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/UNO-SOFT/fieldcatalog/runner"
)

func init() {
	var (
		count       int
		lanes       []string
		fillRate    float64
		hasFillRate bool
		dryRun      bool
		outputDir   string
		apiURL      string
		seed        int64
		hasSeed     bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "run <lanesDir>",
		Short: "Generate XML test data and submit to the API",
		Long:  "Generate random XML documents from test lanes and submit them as observations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			opts := runner.Options{
				LanesDir:  args[0],
				APIURL:    apiURL,
				Count:     count,
				DryRun:    dryRun,
				OutputDir: outputDir,
				Verbose:   verbose,
				Log: func(keyvals ...any) error {
					if !verbose {
						return nil
					}
					if len(keyvals) >= 2 && keyvals[0] == "msg" {
						logger.Info(fmt.Sprint(keyvals[1]), keyvals[2:]...)
					} else {
						logger.Info("runner", keyvals...)
					}
					return nil
				},
			}
			if hasFillRate {
				opts.FillRateOverride = &fillRate
			}
			if hasSeed {
				opts.Seed = &seed
			}

			r := runner.New(opts)

			var result runner.RunResult
			var err error
			if len(lanes) == 0 {
				result, err = r.RunAll(cmd.Context())
			} else {
				result, err = r.RunSelected(cmd.Context(), lanes)
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				os.Exit(1)
			}

			printSummary(cmd, result, dryRun)
			if !result.Success() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of XMLs to generate per lane")
	cmd.Flags().StringArrayVarP(&lanes, "lane", "l", nil, "Specific lane(s) to run (repeatable); default runs all lanes")
	cmd.Flags().Float64Var(&fillRate, "fill-rate", 0, "Override optional field fill rate (0.0-1.0)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate XMLs but don't submit to the API")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to save generated XMLs")
	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Catalog API base URL")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible generation")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasFillRate = cmd.Flags().Changed("fill-rate")
		hasSeed = cmd.Flags().Changed("seed")
	}

	rootCmd.AddCommand(cmd)
}

func printSummary(cmd *cobra.Command, result runner.RunResult, dryRun bool) {
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "\n==================================================")
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  Lanes run: %d\n", result.LanesRun)
	fmt.Fprintf(out, "  Lanes succeeded: %d\n", result.LanesSucceeded)
	fmt.Fprintf(out, "  XMLs generated: %d\n", result.TotalXMLsGenerated)
	if !dryRun {
		fmt.Fprintf(out, "  Observations submitted: %d\n", result.TotalObservationsSubmitted)
	}

	var errCount int
	for _, lane := range result.LaneResults {
		for _, msg := range lane.Errors {
			if errCount < 10 {
				fmt.Fprintf(out, "  [%s] %s\n", lane.LaneName, msg)
			}
			errCount++
		}
	}
	if errCount > 10 {
		fmt.Fprintf(out, "  ... and %d more errors\n", errCount-10)
	}
}
