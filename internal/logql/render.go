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

package logql

import "strings"

// Render prints a LogQuery back to LogQL source. It is the canonical
// printer: Parse(Render(q)) always yields a LogQuery equal to q.
func Render(q *LogQuery) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, m := range q.Selector {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.Name)
		b.WriteString(m.Op.String())
		b.WriteString(quoteValue(m.Value))
	}
	b.WriteByte('}')
	for _, f := range q.Filters {
		b.WriteByte(' ')
		b.WriteString(f.Op.String())
		b.WriteByte(' ')
		b.WriteString(quoteValue(f.Pattern))
	}
	return b.String()
}

func quoteValue(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
