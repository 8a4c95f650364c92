// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package govhdl is the cobra CLI front end for the HDL elaborator: it
// wires pkg/hdlparser to pkg/elaborate and pkg/gatelib the same way
// pkg/cmd/root.go wires go-corset's own s-expression front end to its
// compiler passes.
package govhdl

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1heinz/hal/pkg/elaborate"
	"github.com/1heinz/hal/pkg/gatelib"
	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/hdlparser"
	"github.com/1heinz/hal/pkg/netlist"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "govhdl",
	Short: "An elaborator for a structural HDL subset.",
	Long:  "Parses a structural VHDL subset and flattens it into a gate-level netlist.",
	Run: func(cmd *cobra.Command, _ []string) {
		if getFlag(cmd, "version") {
			fmt.Print("govhdl ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("version", false, "Print version and exit.")
	rootCmd.PersistentFlags().String("library", "BUILTIN", "Name of the gate library to elaborate against.")
	rootCmd.PersistentFlags().Bool("case-insensitive", false, "Treat identifiers case-insensitively.")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug-level logging.")
	rootCmd.PersistentFlags().String("top", "", "Top entity name (defaults to the last entity declared).")

	rootCmd.AddCommand(elaborateCmd)
	rootCmd.AddCommand(checkCmd)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

func getString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

func configureLogging(cmd *cobra.Command) *log.Logger {
	logger := log.StandardLogger()

	if getFlag(cmd, "verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

// elaborateCmd runs parser.Parse through elaborate.Elaborator.Instantiate
// in one call and reports a summary, mirroring pkg/cmd/root.go's
// schema-stack commands that run an entire lowering pipeline per
// invocation.
var elaborateCmd = &cobra.Command{
	Use:   "elaborate <file>",
	Short: "Parse and elaborate a design file into a netlist.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := configureLogging(cmd)

		nl, err := run(cmd, args[0], logger)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printSummary(nl)
	},
}

// checkCmd runs the same full parse-and-elaborate pipeline as elaborateCmd
// and prints "OK" instead of a summary.  It does not stop after the
// port-width validator: the netlist is built and then discarded.
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse and elaborate a design file, reporting only success or failure.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := configureLogging(cmd)

		if _, err := run(cmd, args[0], logger); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Println("OK")
	},
}

func run(cmd *cobra.Command, path string, logger *log.Logger) (*netlist.Netlist, error) {
	top := getString(cmd, "top")
	config := elaborate.DefaultConfig(getString(cmd, "library"))
	registry := gatelib.DefaultRegistry()

	if getFlag(cmd, "case-insensitive") {
		parser, err := hdlparser.New[hdl.CaseInsensitive](path, top)
		if err != nil {
			return nil, err
		}

		elab := elaborate.NewElaborator[hdl.CaseInsensitive](parser, registry, config)
		elab.SetLogger(logger)

		return elab.ParseAndInstantiate()
	}

	parser, err := hdlparser.New[hdl.CaseSensitive](path, top)
	if err != nil {
		return nil, err
	}

	elab := elaborate.NewElaborator[hdl.CaseSensitive](parser, registry, config)
	elab.SetLogger(logger)

	return elab.ParseAndInstantiate()
}

// printSummary prints module/gate/net counts, using bold text only when
// stdout is an actual terminal (mirrors pkg/util/termio's term.IsTerminal
// gating of escape-sequence output).
func printSummary(nl *netlist.Netlist) {
	modules, gates := countModulesAndGates(nl.TopModule())
	nets := len(nl.Nets())

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("\033[1mmodules\033[0m: %d  \033[1mgates\033[0m: %d  \033[1mnets\033[0m: %d\n", modules, gates, nets)
		return
	}

	fmt.Printf("modules: %d  gates: %d  nets: %d\n", modules, gates, nets)
}

func countModulesAndGates(m *netlist.Module) (modules, gates int) {
	modules = 1
	gates = len(m.Gates())

	for _, child := range m.Children() {
		childModules, childGates := countModulesAndGates(child)
		modules += childModules
		gates += childGates
	}

	return modules, gates
}
