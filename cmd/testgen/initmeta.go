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
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UNO-SOFT/fieldcatalog/meta"
	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

func init() {
	var (
		xsdPath   string
		output    string
		contextID string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init-meta",
		Short: "Scaffold a meta.yaml file from an XSD schema",
		Long:  "Parse an XSD file and generate a template meta.yaml with all field paths pre-populated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if xsdPath == "" {
				return fmt.Errorf("--xsd is required")
			}
			if _, err := os.Stat(xsdPath); err != nil {
				return fmt.Errorf("XSD file not found: %s", xsdPath)
			}

			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(xsdPath, ".xsd") + ".meta.yaml"
			}
			if _, err := os.Stat(outputPath); err == nil && !force {
				return fmt.Errorf("output file already exists: %s (use --force to overwrite)", outputPath)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Parsing XSD: %s\n", xsdPath)
			schema, err := xsd.ParseFile(xsdPath)
			if err != nil {
				return err
			}
			fieldPaths := xsd.ExtractFieldPaths(schema)
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d field path(s)\n", len(fieldPaths))

			ctxID := contextID
			if ctxID == "" {
				ctxID = "TODO"
			}
			if err := meta.WriteTemplate(outputPath, fieldPaths, xsdPath, ctxID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&xsdPath, "xsd", "", "Path to the XSD schema file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path for meta.yaml (default: same directory as XSD)")
	cmd.Flags().StringVarP(&contextID, "context", "c", "", "Context ID to pre-populate in the template")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing meta file if it exists")

	rootCmd.AddCommand(cmd)
}
