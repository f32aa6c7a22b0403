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

// Package sqlbuilder lowers a parsed logql.LogQuery or traceql.TraceQuery,
// together with a BackendProfile describing the target schema, into a SQL
// string. It holds no state across calls and performs no I/O: the same
// (AST, profile) pair always yields byte-identical SQL.
package sqlbuilder

// LevelEncoding selects how a log level name is represented in the backend
// schema.
type LevelEncoding int

const (
	LevelString  LevelEncoding = iota // level stored as its textual name
	LevelNumeric                      // level stored as a severity number
)

// BackendProfile carries the capability flags and schema-name bindings a
// deployment uses to parameterize SQL emission. Profile selection (which
// profile applies to a given request) is external to this package; the
// builder only ever reads the fields below.
type BackendProfile struct {
	LogTable          string
	SpanTable         string
	TSColumn          string
	LevelEncoding     LevelEncoding
	InvertedIndex     bool
	AttrsMap          string
	ResourcesMap      string
	SpanAttrsMap      string
	ResourceAttrsMap  string
}

// DefaultProfile returns a BackendProfile with the field defaults spelled
// out in the schema-naming table: log_table=logs, span_table=spans,
// ts_column=timestamp, attrs_map=attributes, resources_map=resources,
// span_attrs_map=span_attributes, resource_attrs_map=resource_attributes.
func DefaultProfile() BackendProfile {
	return BackendProfile{
		LogTable:         "logs",
		SpanTable:        "spans",
		TSColumn:         "timestamp",
		LevelEncoding:    LevelString,
		AttrsMap:         "attributes",
		ResourcesMap:     "resources",
		SpanAttrsMap:     "span_attributes",
		ResourceAttrsMap: "resource_attributes",
	}
}

func (p BackendProfile) logTable() string {
	if p.LogTable == "" {
		return "logs"
	}
	return p.LogTable
}

func (p BackendProfile) spanTable() string {
	if p.SpanTable == "" {
		return "spans"
	}
	return p.SpanTable
}

func (p BackendProfile) tsColumn() string {
	if p.TSColumn == "" {
		return "timestamp"
	}
	return p.TSColumn
}

func (p BackendProfile) attrsMap() string {
	if p.AttrsMap == "" {
		return "attributes"
	}
	return p.AttrsMap
}

func (p BackendProfile) resourcesMap() string {
	if p.ResourcesMap == "" {
		return "resources"
	}
	return p.ResourcesMap
}

func (p BackendProfile) spanAttrsMap() string {
	if p.SpanAttrsMap == "" {
		return "span_attributes"
	}
	return p.SpanAttrsMap
}

func (p BackendProfile) resourceAttrsMap() string {
	if p.ResourceAttrsMap == "" {
		return "resource_attributes"
	}
	return p.ResourceAttrsMap
}
