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

package sqlbuilder

import (
	"testing"

	"github.com/caibirdme/ltbridge/internal/logql"
)

// Scenario L1 — basic label + attribute.
func TestBuildLogSQL_L1(t *testing.T) {
	q, err := logql.Parse(`{app="foo",   attributes_uid="123"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	profile := DefaultProfile()
	profile.TSColumn = "timestamp"
	profile.LevelEncoding = LevelString
	profile.InvertedIndex = false

	got, err := BuildLogSQL(q, profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT app,server,trace_id,span_id,level,tags,message,timestamp FROM logs WHERE (app='foo' AND attributes['uid']='123')"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

// Scenario L2 — line filters, LIKE mode.
func TestBuildLogSQL_L2(t *testing.T) {
	q, err := logql.Parse(`{app="foo",   attributes_uid="123"} |= "haha" |=  "xixi" `)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := BuildLogSQL(q, DefaultProfile())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT app,server,trace_id,span_id,level,tags,message,timestamp FROM logs WHERE " +
		"(app='foo' AND (attributes['uid']='123' AND (message LIKE '%haha%' AND message LIKE '%xixi%')))"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

// Scenario L3 — inverted index mode.
func TestBuildLogSQL_L3(t *testing.T) {
	q, err := logql.Parse(`{app="foo",   resources_uid="123"} |= "haha" |=  "xixi"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	profile := DefaultProfile()
	profile.InvertedIndex = true
	got, err := BuildLogSQL(q, profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT app,server,trace_id,span_id,level,tags,message,timestamp FROM logs WHERE " +
		"(app='foo' AND (resources['uid']='123' AND (MATCH(message,'haha') AND MATCH(message,'xixi'))))"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

// Scenario L4 — numeric level.
func TestBuildLogSQL_L4(t *testing.T) {
	q, err := logql.Parse(`{level="info"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	profile := DefaultProfile()
	profile.LevelEncoding = LevelNumeric
	profile.TSColumn = "ts"
	got, err := BuildLogSQL(q, profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT app,server,trace_id,span_id,level,tags,message,ts FROM logs WHERE level=9"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

// Scenario L5 — empty filter elided.
func TestBuildLogSQL_L5(t *testing.T) {
	q, err := logql.Parse(`{level="info"} |= "" |= "hello"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := BuildLogSQL(q, DefaultProfile())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT app,server,trace_id,span_id,level,tags,message,timestamp FROM logs WHERE (level='info' AND message LIKE '%hello%')"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

// Invariant: empty-pattern filters never change the emitted SQL, no
// matter where they appear among the other filters.
func TestBuildLogSQL_EmptyFilterElisionInvariant(t *testing.T) {
	without, err := logql.Parse(`{level="info"} |= "hello"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	withEmpty, err := logql.Parse(`{level="info"} |= "" |= "hello" |= ""`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sqlWithout, err := BuildLogSQL(without, DefaultProfile())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sqlWith, err := BuildLogSQL(withEmpty, DefaultProfile())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if sqlWithout != sqlWith {
		t.Fatalf("empty filters changed output:\n%q\n%q", sqlWithout, sqlWith)
	}
}

// Invariant: attributes_k and attributes.k (and the resources equivalent)
// lower to identical SQL.
func TestBuildLogSQL_NamespaceEquivalence(t *testing.T) {
	underscored, err := logql.Parse(`{attributes_uid="123", resources_key="x"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dotted, err := logql.Parse(`{attributes.uid="123", resources.key="x"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, err := BuildLogSQL(underscored, DefaultProfile())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := BuildLogSQL(dotted, DefaultProfile())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if a != b {
		t.Fatalf("namespace forms diverged:\n%q\n%q", a, b)
	}
}

// Invariant: build is a pure function of (ast, profile).
func TestBuildLogSQL_Deterministic(t *testing.T) {
	q, err := logql.Parse(`{app="foo"} |= "x"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	profile := DefaultProfile()
	a, err := BuildLogSQL(q, profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := BuildLogSQL(q, profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if a != b {
		t.Fatalf("non-deterministic output:\n%q\n%q", a, b)
	}
}
