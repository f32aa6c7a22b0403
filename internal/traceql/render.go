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

import (
	"fmt"
	"strconv"
	"strings"
)

// Render prints a TraceQuery back to TraceQL source. Every binary node is
// parenthesized so that Parse(Render(q)) always yields a TraceQuery equal
// to q, independent of the operator precedence the original text relied on,
// except for each Spanset's Source, which then holds the rendered text.
func Render(q *TraceQuery) string {
	return renderSpansetExpr(q.Root)
}

func renderSpansetExpr(e SpansetExpr) string {
	switch n := e.(type) {
	case *Spanset:
		return "{" + renderBoolExpr(n.Body) + "}"
	case *BinarySpanset:
		return fmt.Sprintf("(%s %s %s)", renderSpansetExpr(n.Left), n.Op, renderSpansetExpr(n.Right))
	default:
		return ""
	}
}

func renderBoolExpr(e BoolExpr) string {
	switch n := e.(type) {
	case *Atom:
		return renderAtom(n)
	case *Not:
		return "!" + renderBoolExpr(n.Expr)
	case *BinaryBool:
		return fmt.Sprintf("(%s %s %s)", renderBoolExpr(n.Left), n.Op, renderBoolExpr(n.Right))
	default:
		return ""
	}
}

func renderAtom(a *Atom) string {
	return fmt.Sprintf("%s%s%s", renderField(a.Field), a.Op, renderValue(a.Value))
}

func renderField(f Field) string {
	switch f.Kind {
	case FieldSpan:
		return "span." + f.Key
	case FieldResource:
		return "resource." + f.Key
	default:
		return f.Key
	}
}

func renderValue(v Value) string {
	switch v.Kind {
	case ValString:
		return quoteValue(v.Str)
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValFloat:
		// Always print a decimal point and never an exponent, so the text
		// re-parses as a float rather than as an integer or not at all.
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case ValDuration:
		return strconv.FormatInt(v.DurationNs, 10) + "ns"
	case ValStatus:
		switch v.Status {
		case StatusOK:
			return "ok"
		case StatusError:
			return "error"
		default:
			return "unset"
		}
	default:
		return ""
	}
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
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
