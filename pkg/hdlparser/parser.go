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

// Package hdlparser is a minimal structural front end for a VHDL subset:
// entity declarations with a port clause, and a matching architecture body
// declaring internal signals, component instantiations (with an optional
// generic map) and concurrent signal assignments. It does not implement
// VHDL's expression language, process statements, or generics declared on
// entities themselves -- only enough surface syntax to drive pkg/elaborate
// from real source text instead of literal pkg/hdl values built by hand.
package hdlparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/1heinz/hal/pkg/hdl"
	"github.com/1heinz/hal/pkg/util/source"
)

// Parser implements elaborate.Parser[N] over one VHDL-subset source file.
type Parser[N hdl.Name[N]] struct {
	file *source.File
	top  string
}

// New reads path and constructs a Parser over its contents. top names the
// entity to elaborate from; if empty, the last entity declared in the file
// is used, mirroring a single-top-level-unit design file.
func New[N hdl.Name[N]](path, top string) (*Parser[N], error) {
	files, err := source.ReadFiles(path)
	if err != nil {
		return nil, err
	}

	return &Parser[N]{file: &files[0], top: top}, nil
}

var (
	entityRe   = regexp.MustCompile(`(?is)entity\s+(\w+)\s+is(.*?)end\s+entity\s*\w*\s*;`)
	archRe     = regexp.MustCompile(`(?is)architecture\s+\w+\s+of\s+(\w+)\s+is(.*?)begin(.*?)end\s+architecture\s*\w*\s*;`)
	portsRe    = regexp.MustCompile(`(?is)port\s*\((.*)\)\s*;?\s*\z`)
	vectorRe   = regexp.MustCompile(`(?i)_vector\s*\(\s*(\d+)\s+(downto|to)\s+(\d+)\s*\)`)
	portRe     = regexp.MustCompile(`(?is)^(\w+)\s*:\s*(in|out|inout)\s+(.+)$`)
	signalRe   = regexp.MustCompile(`(?is)^signal\s+(\w+)\s*:\s*(.+)$`)
	instRe     = regexp.MustCompile(`(?is)^(\w+)\s*:\s*(\w+)\s*(generic\s+map\s*\((.*?)\)\s*)?port\s+map\s*\((.*)\)$`)
	assignRe   = regexp.MustCompile(`(?is)^([\w&\s]+?)\s*<=\s*(.+)$`)
	fieldQualR = regexp.MustCompile(`(?is)^field\s*'\(\s*(.*?)\s*\)$`)
)

// offsetSegment is one ';'-delimited clause entry together with its
// absolute byte offset in the original source, for line-number reporting.
type offsetSegment struct {
	text string
	pos  int
}

// splitClause splits a ';'-delimited clause into trimmed, non-empty
// segments, each paired with its absolute offset in the original text so
// callers can still report an accurate source line.
func splitClause(clause string, base int) []offsetSegment {
	var out []offsetSegment

	start := 0
	for i := 0; i <= len(clause); i++ {
		if i == len(clause) || clause[i] == ';' {
			seg := clause[start:i]
			trimmed := strings.TrimSpace(seg)

			if trimmed != "" {
				out = append(out, offsetSegment{trimmed, base + start + strings.Index(seg, trimmed)})
			}

			start = i + 1
		}
	}

	return out
}

// splitTopLevelCommas splits s on commas, honoring neither nesting nor
// quoting: port maps and generic maps in this subset never themselves
// contain a comma-bearing sub-expression.
func splitTopLevelCommas(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}

	return out
}

func (p *Parser[N]) lineOf(pos int) uint32 {
	span := source.NewSpan(pos, pos+1)
	line := p.file.FindFirstEnclosingLine(span)

	return uint32(line.Number())
}

func mkName[N hdl.Name[N]](s string) N {
	return hdl.NameFromString[N](strings.TrimSpace(s))
}

// rangesFor parses a VHDL-subset type mention, returning the bit ranges
// and binary flag a hdl.Signal expects: a "*_vector(hi downto/to lo)"
// yields a single dimension of width |hi-lo|+1 indexed 0..width-1 (matching
// expand.Signal's row-major bit naming), anything else is a scalar.
func rangesFor(typ string) (ranges [][]uint32, err error) {
	m := vectorRe.FindStringSubmatch(typ)
	if m == nil {
		return nil, nil
	}

	hi, err1 := strconv.Atoi(m[1])
	lo, err3 := strconv.Atoi(m[3])

	if err1 != nil || err3 != nil {
		return nil, fmt.Errorf("invalid vector bound in %q", typ)
	}

	width := hi - lo
	if width < 0 {
		width = -width
	}

	width++

	indices := make([]uint32, width)
	for i := range indices {
		indices[i] = uint32(i)
	}

	return [][]uint32{indices}, nil
}

// Parse implements elaborate.Parser[N]: it extracts every entity
// declaration's port clause, then folds in each matching architecture's
// signal declarations, instantiations and concurrent assignments.
func (p *Parser[N]) Parse() (*hdl.OrderedMap[N, *hdl.Entity[N]], N, error) {
	var zero N

	text := string(p.file.Contents())
	entities := hdl.NewOrderedMap[N, *hdl.Entity[N]]()

	var lastName string

	for _, m := range entityRe.FindAllStringSubmatchIndex(text, -1) {
		entName := text[m[2]:m[3]]
		body := text[m[4]:m[5]]
		line := p.lineOf(m[0])

		e := hdl.NewEntity[N](line, mkName[N](entName))

		if err := p.parsePorts(&e, body, m[4]); err != nil {
			return nil, zero, err
		}

		entities.Set(e.NameVal, &e)
		lastName = entName
	}

	for _, m := range archRe.FindAllStringSubmatchIndex(text, -1) {
		entName := text[m[2]:m[3]]
		decls := text[m[4]:m[5]]
		stmts := text[m[6]:m[7]]

		e, ok := entities.Get(mkName[N](entName))
		if !ok {
			return nil, zero, fmt.Errorf("architecture of unknown entity %q", entName)
		}

		if err := p.parseDeclarations(e, decls, m[4]); err != nil {
			return nil, zero, err
		}

		if err := p.parseStatements(e, stmts, m[6]); err != nil {
			return nil, zero, err
		}
	}

	top := p.top
	if top == "" {
		top = lastName
	}

	if !entities.Has(mkName[N](top)) {
		return nil, zero, fmt.Errorf("top entity %q not found", top)
	}

	return entities, mkName[N](top), nil
}

func (p *Parser[N]) parsePorts(e *hdl.Entity[N], body string, base int) error {
	pm := portsRe.FindStringSubmatchIndex(body)
	if pm == nil {
		return nil
	}

	clause := body[pm[2]:pm[3]]

	for _, seg := range splitClause(clause, base+pm[2]) {
		m := portRe.FindStringSubmatch(seg.text)
		if m == nil {
			return fmt.Errorf("line %d: malformed port declaration %q", p.lineOf(seg.pos), seg.text)
		}

		var dir hdl.Direction

		switch strings.ToLower(m[2]) {
		case "in":
			dir = hdl.In
		case "out":
			dir = hdl.Out
		default:
			dir = hdl.InOut
		}

		ranges, err := rangesFor(m[3])
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineOf(seg.pos), err)
		}

		line := p.lineOf(seg.pos)

		var sig hdl.Signal[N]
		if ranges == nil {
			sig = hdl.NewScalarSignal(line, mkName[N](m[1]))
		} else {
			sig = hdl.NewSignal(line, mkName[N](m[1]), ranges, false, true)
		}

		e.AddPort(dir, sig)
	}

	return nil
}

func (p *Parser[N]) parseDeclarations(e *hdl.Entity[N], decls string, base int) error {
	for _, seg := range splitClause(decls, base) {
		m := signalRe.FindStringSubmatch(seg.text)
		if m == nil {
			continue
		}

		ranges, err := rangesFor(m[2])
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineOf(seg.pos), err)
		}

		line := p.lineOf(seg.pos)

		var sig hdl.Signal[N]
		if ranges == nil {
			sig = hdl.NewScalarSignal(line, mkName[N](m[1]))
		} else {
			sig = hdl.NewSignal(line, mkName[N](m[1]), ranges, false, true)
		}

		e.AddSignal(sig)
	}

	return nil
}

func (p *Parser[N]) parseStatements(e *hdl.Entity[N], stmts string, base int) error {
	for _, seg := range splitClause(stmts, base) {
		if m := instRe.FindStringSubmatch(seg.text); m != nil {
			if err := p.parseInstance(e, m, seg.pos); err != nil {
				return err
			}

			continue
		}

		if m := assignRe.FindStringSubmatch(seg.text); m != nil {
			p.parseAssignment(e, m, seg.pos)
			continue
		}

		return fmt.Errorf("line %d: unrecognised concurrent statement %q", p.lineOf(seg.pos), seg.text)
	}

	return nil
}

func (p *Parser[N]) parseInstance(e *hdl.Entity[N], m []string, pos int) error {
	line := p.lineOf(pos)
	inst := hdl.NewInstance[N](line, mkName[N](m[2]), mkName[N](m[1]))

	for _, pair := range splitTopLevelCommas(m[5]) {
		kv := strings.SplitN(pair, "=>", 2)
		if len(kv) != 2 {
			return fmt.Errorf("line %d: malformed port map entry %q", line, pair)
		}

		port := hdl.NewScalarSignal(line, mkName[N](kv[0]))
		rhs := hdl.NewScalarSignal(line, mkName[N](kv[1]))
		inst.AddPortAssignment(port, []hdl.Signal[N]{rhs})
	}

	for _, pair := range splitTopLevelCommas(m[4]) {
		kv := strings.SplitN(pair, "=>", 2)
		if len(kv) != 2 {
			return fmt.Errorf("line %d: malformed generic map entry %q", line, pair)
		}

		genName := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])

		dataType := "integer"
		if fm := fieldQualR.FindStringSubmatch(value); fm != nil {
			dataType = "field"
			value = fm[1]
		}

		inst.AddGenericAssignment(genName, dataType, value)
	}

	e.AddInstance(inst)

	return nil
}

func (p *Parser[N]) parseAssignment(e *hdl.Entity[N], m []string, pos int) {
	line := p.lineOf(pos)

	lhs := splitConcat[N](line, m[1])
	rhs := splitConcat[N](line, m[2])

	e.AddAssignment(lhs, rhs)
}

// splitConcat splits a VHDL '&' concatenation into its constituent scalar
// signals, matching how pkg/hdl.Assignment expects each side as a list of
// already-separated signals.
func splitConcat[N hdl.Name[N]](line uint32, s string) []hdl.Signal[N] {
	parts := strings.Split(s, "&")
	out := make([]hdl.Signal[N], 0, len(parts))

	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, hdl.NewScalarSignal[N](line, mkName[N](name)))
		}
	}

	return out
}
