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
package hdlparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1heinz/hal/pkg/hdl"
)

type N = hdl.CaseSensitive

func writeSource(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "design.vhd")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestParsePortsAndBusWidth(t *testing.T) {
	path := writeSource(t, `
entity top is
  port (
    A : in std_logic;
    I : in std_logic_vector(3 downto 0);
    Y : out std_logic
  );
end entity top;
`)

	p, err := New[N](path, "")
	require.NoError(t, err)

	entities, top, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, N("top"), top)

	e, ok := entities.Get("top")
	require.True(t, ok)

	e.Initialize()
	assert.Len(t, e.ExpandedPorts()["I"], 4)
	assert.Equal(t, "I(0)", e.ExpandedPorts()["I"][0].String())
	assert.Equal(t, "I(3)", e.ExpandedPorts()["I"][3].String())
}

func TestParseArchitectureInstancesAndAssignment(t *testing.T) {
	path := writeSource(t, `
entity mid is
  port (
    A : in std_logic;
    Y : out std_logic
  );
end entity mid;

architecture rtl of mid is
  signal w : std_logic;
begin
  u1 : NOT port map (A => A, Y => w);
  Y <= w;
end architecture rtl;
`)

	p, err := New[N](path, "mid")
	require.NoError(t, err)

	entities, top, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, N("mid"), top)

	e, ok := entities.Get("mid")
	require.True(t, ok)
	require.Equal(t, 1, e.Signals.Len())
	require.Equal(t, 1, e.Instances.Len())
	require.Len(t, e.Assignments, 1)

	inst, ok := e.Instances.Get("u1")
	require.True(t, ok)
	assert.Equal(t, N("NOT"), inst.Type)
}

func TestParseFieldQualifiedGeneric(t *testing.T) {
	path := writeSource(t, `
entity top is
  port (
    A : in std_logic;
    Y : out std_logic
  );
end entity top;

architecture rtl of top is
begin
  u1 : DELAY_CELL generic map (DELAY => field'(7)) port map (A => A, Y => Y);
end architecture rtl;
`)

	p, err := New[N](path, "")
	require.NoError(t, err)

	entities, _, err := p.Parse()
	require.NoError(t, err)

	e, ok := entities.Get("top")
	require.True(t, ok)

	inst, ok := e.Instances.Get("u1")
	require.True(t, ok)

	g, ok := inst.GenericAssignments.Get("DELAY")
	require.True(t, ok)
	assert.Equal(t, "field", g.DataType)
	assert.Equal(t, "7", g.Value)
}

func TestParseUnknownTopEntityErrors(t *testing.T) {
	path := writeSource(t, `
entity top is
  port (A : in std_logic);
end entity top;
`)

	p, err := New[N](path, "nope")
	require.NoError(t, err)

	_, _, err = p.Parse()
	assert.Error(t, err)
}
