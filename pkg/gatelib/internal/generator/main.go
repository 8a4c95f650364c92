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
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// gateSpec describes one combinational cell of the built-in demo gate
// library in a form the template can range over.
type gateSpec struct {
	Name       string
	InputPins  []string
	OutputPins []string
	Ground     bool
	Power      bool
}

var builtinGates = []gateSpec{
	{Name: "AND2", InputPins: []string{"A", "B"}, OutputPins: []string{"Y"}},
	{Name: "OR2", InputPins: []string{"A", "B"}, OutputPins: []string{"Y"}},
	{Name: "XOR2", InputPins: []string{"A", "B"}, OutputPins: []string{"Y"}},
	{Name: "NOT", InputPins: []string{"A"}, OutputPins: []string{"Y"}},
	{Name: "BUF", InputPins: []string{"A"}, OutputPins: []string{"Y"}},
	{Name: "GND", OutputPins: []string{"Y"}, Ground: true},
	{Name: "VCC", OutputPins: []string{"Y"}, Power: true},
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2026, "hal")

	assertNoError(bgen.Generate(
		struct{ Gates []gateSpec }{Gates: builtinGates},
		"gatelib",
		"templates",
		bavard.Entry{
			File:      "../../builtin_gen.go",
			Templates: []string{"builtin.go.tmpl"},
		},
	), "generating built-in gate library")
}

func assertNoError(err error, format string, args ...any) {
	if err != nil {
		fmt.Fprintf(os.Stderr, format+": %s\n", append(args, err)...)
		os.Exit(1)
	}
}
