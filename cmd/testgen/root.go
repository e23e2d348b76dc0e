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

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build.
	Version = "dev"
)

// rootCmd is the base command: no Run function of its own,
// SilenceUsage/SilenceErrors so Execute owns error reporting.
var rootCmd = &cobra.Command{
	Use:     "testgen",
	Short:   "testgen generates random XML test data from XSD schemas",
	Version: Version,
	Long: `testgen scaffolds meta.yaml configuration from an XSD schema and
generates random-but-valid XML instances to drive a Field Catalog's
emergent-schema observation pipeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; the subcommands register themselves on
// rootCmd from their files' init functions. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
