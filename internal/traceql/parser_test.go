// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package traceql

import "testing"

func TestParseSingleSpanset(t *testing.T) {
	q, err := Parse(`{resource.app="camp" && serviceName="fooSvc"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp, ok := q.Root.(*Spanset)
	if !ok {
		t.Fatalf("expected *Spanset root, got %T", q.Root)
	}
	bin, ok := sp.Body.(*BinaryBool)
	if !ok {
		t.Fatalf("expected *BinaryBool body, got %T", sp.Body)
	}
	if bin.Op != BoolAnd {
		t.Fatalf("expected BoolAnd, got %v", bin.Op)
	}
	left, ok := bin.Left.(*Atom)
	if !ok || left.Field.Kind != FieldResource || left.Field.Key != "app" {
		t.Fatalf("unexpected left atom: %+v", bin.Left)
	}
	right, ok := bin.Right.(*Atom)
	if !ok || right.Field.Kind != FieldIntrinsic || right.Field.Key != "serviceName" {
		t.Fatalf("unexpected right atom: %+v", bin.Right)
	}
}

func TestAndBindsTighterThanOr(t *testing.T) {
	q, err := Parse(`{a="1"} && {b="2"} || {c="3"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := q.Root.(*BinarySpanset)
	if !ok || top.Op != SpansetOr {
		t.Fatalf("expected top-level OR, got %+v", q.Root)
	}
	_, leftIsAnd := top.Left.(*BinarySpanset)
	if !leftIsAnd {
		t.Fatalf("expected left side to be the AND subtree, got %T", top.Left)
	}
}

func TestBoolAndBindsTighterThanOrInsideSpanset(t *testing.T) {
	q, err := Parse(`{a="1" && b="2" || c="3"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp := q.Root.(*Spanset)
	top, ok := sp.Body.(*BinaryBool)
	if !ok || top.Op != BoolOr {
		t.Fatalf("expected top-level OR inside spanset, got %+v", sp.Body)
	}
	if _, ok := top.Left.(*BinaryBool); !ok {
		t.Fatalf("expected left side to be the AND subtree, got %T", top.Left)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	q, err := Parse(`{resource.app="camp" && serviceName="fooSvc"} && ({span.qwe="qqq"} || {foo>10})`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := q.Root.(*BinarySpanset)
	if !ok || top.Op != SpansetAnd {
		t.Fatalf("expected top-level AND, got %+v", q.Root)
	}
	right, ok := top.Right.(*BinarySpanset)
	if !ok || right.Op != SpansetOr {
		t.Fatalf("expected parenthesized right side to be OR, got %+v", top.Right)
	}
}

func TestUnaryNot(t *testing.T) {
	q, err := Parse(`{!status=error}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp := q.Root.(*Spanset)
	not, ok := sp.Body.(*Not)
	if !ok {
		t.Fatalf("expected *Not, got %T", sp.Body)
	}
	atom, ok := not.Expr.(*Atom)
	if !ok || atom.Field.Key != "status" {
		t.Fatalf("unexpected inner atom: %+v", not.Expr)
	}
}

func TestDurationAndStatusValues(t *testing.T) {
	q, err := Parse(`{resource.app="camp" && duration > 90s && status!=ok}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp := q.Root.(*Spanset)
	top := sp.Body.(*BinaryBool)
	mid := top.Left.(*BinaryBool)
	durAtom := mid.Right.(*Atom)
	if durAtom.Field.Key != "duration" || durAtom.Op != CmpGt {
		t.Fatalf("unexpected duration atom: %+v", durAtom)
	}
	if durAtom.Value.Kind != ValDuration || durAtom.Value.DurationNs != 90_000_000_000 {
		t.Fatalf("unexpected duration value: %+v", durAtom.Value)
	}
	statusAtom := top.Right.(*Atom)
	if statusAtom.Value.Kind != ValStatus || statusAtom.Value.Status != StatusOK {
		t.Fatalf("unexpected status value: %+v", statusAtom.Value)
	}
}

func TestBareFieldIsAmbiguous(t *testing.T) {
	q, err := Parse(`{qwe="qqq"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp := q.Root.(*Spanset)
	atom := sp.Body.(*Atom)
	if atom.Field.Kind != FieldBare {
		t.Fatalf("expected bare field, got %v", atom.Field.Kind)
	}
}

func TestSpansetSourceCapturesExactText(t *testing.T) {
	const in = `{resource.app="camp" && serviceName="fooSvc"} && {resource.app="camp" && serviceName="fooSvc"}`
	q, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := q.Root.(*BinarySpanset)
	left := top.Left.(*Spanset)
	right := top.Right.(*Spanset)
	if left.Source != right.Source {
		t.Fatalf("expected identical source text, got %q != %q", left.Source, right.Source)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unclosed brace", `{a="1"`},
		{"missing value", `{a=}`},
		{"trailing garbage", `{a="1"} ^^`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse(c.input); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	inputs := []string{
		`{a="1"}`,
		`{resource.app="camp" && serviceName="fooSvc"} && {qwe="qqq"}`,
		`{resource.app="camp" && duration>90ns && status!=ok}`,
	}
	for _, in := range inputs {
		q1, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		rendered := Render(q1)
		q2, err := Parse(rendered)
		if err != nil {
			t.Fatalf("re-parse %q: %v", rendered, err)
		}
		if Render(q2) != rendered {
			t.Fatalf("round trip unstable: %q != %q", Render(q2), rendered)
		}
	}
}
