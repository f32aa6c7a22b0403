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
	"fmt"
	"strconv"
	"strings"

	"github.com/caibirdme/ltbridge/internal/traceql"
)

// traceColumns is the fixed SELECT list for the outer span query.
const traceColumns = "sp.trace_id,sp.span_id,sp.span_name,sp.span_kind,sp.service_name,sp.duration,sp.status_code"

// BuildTraceSQL lowers a TraceQuery into the two-stage union/subquery shape:
// an inner UNION over every distinct spanset leaf (deduplicated by source
// text) selects candidate (span_id, trace_id) pairs, and an outer predicate
// mirroring the query's own && / || structure requires that every branch be
// witnessed by some span in the same trace.
func BuildTraceSQL(q *traceql.TraceQuery, profile BackendProfile, limit int) (string, error) {
	leaves := collectLeaves(q.Root)

	unionParts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		cond, err := lowerBoolExpr(leaf.Body, profile)
		if err != nil {
			return "", err
		}
		unionParts = append(unionParts, fmt.Sprintf("SELECT span_id, trace_id FROM %s WHERE %s", profile.spanTable(), cond))
	}

	joinPredicate, err := buildJoinPredicate(q.Root, profile)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(traceColumns)
	b.WriteString(" FROM ")
	b.WriteString(profile.spanTable())
	b.WriteString(" sp WHERE sp.span_id IN (SELECT span_id FROM (")
	b.WriteString(strings.Join(unionParts, " UNION "))
	b.WriteString(") AS sub WHERE ")
	b.WriteString(joinPredicate)
	b.WriteString(") LIMIT ")
	b.WriteString(strconv.Itoa(limit))
	return b.String(), nil
}

// collectLeaves walks the spanset tree in source order, returning every
// distinct *traceql.Spanset leaf, deduplicated by its captured source text.
func collectLeaves(e traceql.SpansetExpr) []*traceql.Spanset {
	var leaves []*traceql.Spanset
	seen := make(map[string]bool)
	var walk func(traceql.SpansetExpr)
	walk = func(e traceql.SpansetExpr) {
		switch n := e.(type) {
		case *traceql.Spanset:
			if !seen[n.Source] {
				seen[n.Source] = true
				leaves = append(leaves, n)
			}
		case *traceql.BinarySpanset:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return leaves
}

// buildJoinPredicate mirrors the spanset-combination tree, turning every
// leaf into a trace_id existence test against the union subquery and every
// binary node into a parenthesized AND/OR of its children's predicates.
func buildJoinPredicate(e traceql.SpansetExpr, profile BackendProfile) (string, error) {
	switch n := e.(type) {
	case *traceql.Spanset:
		cond, err := lowerBoolExpr(n.Body, profile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("sub.trace_id IN (SELECT trace_id FROM %s WHERE %s)", profile.spanTable(), cond), nil
	case *traceql.BinarySpanset:
		left, err := buildJoinPredicate(n.Left, profile)
		if err != nil {
			return "", err
		}
		right, err := buildJoinPredicate(n.Right, profile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, spansetOpSQL(n.Op), right), nil
	default:
		return "", &SemanticError{Reason: "unknown spanset expression node"}
	}
}

func spansetOpSQL(op traceql.SpansetOp) string {
	if op == traceql.SpansetAnd {
		return "AND"
	}
	return "OR"
}

func boolOpSQL(op traceql.BoolOp) string {
	if op == traceql.BoolAnd {
		return "AND"
	}
	return "OR"
}

// lowerBoolExpr renders a spanset body, expanding bare-field comparisons
// into a disjunction over both attribute namespaces wherever they occur.
func lowerBoolExpr(e traceql.BoolExpr, profile BackendProfile) (string, error) {
	switch n := e.(type) {
	case *traceql.Atom:
		return lowerAtom(n, profile)
	case *traceql.Not:
		inner, err := lowerBoolExpr(n.Expr, profile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", inner), nil
	case *traceql.BinaryBool:
		left, err := lowerBoolExpr(n.Left, profile)
		if err != nil {
			return "", err
		}
		right, err := lowerBoolExpr(n.Right, profile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, boolOpSQL(n.Op), right), nil
	default:
		return "", &SemanticError{Reason: "unknown boolean expression node"}
	}
}

func lowerAtom(a *traceql.Atom, profile BackendProfile) (string, error) {
	val, err := lowerTraceValue(a.Field, a.Value)
	if err != nil {
		return "", err
	}
	if err := checkCmpCompatible(a.Op, a.Value.Kind); err != nil {
		return "", err
	}

	switch a.Field.Kind {
	case traceql.FieldSpan:
		col := fmt.Sprintf("%s['%s']", profile.spanAttrsMap(), a.Field.Key)
		return lowerComparison(col, a.Op, val), nil
	case traceql.FieldResource:
		col := fmt.Sprintf("%s['%s']", profile.resourceAttrsMap(), a.Field.Key)
		return lowerComparison(col, a.Op, val), nil
	case traceql.FieldIntrinsic:
		col, err := intrinsicColumn(a.Field.Key)
		if err != nil {
			return "", err
		}
		return lowerComparison(col, a.Op, val), nil
	case traceql.FieldBare:
		spanCol := fmt.Sprintf("%s['%s']", profile.spanAttrsMap(), a.Field.Key)
		resCol := fmt.Sprintf("%s['%s']", profile.resourceAttrsMap(), a.Field.Key)
		return fmt.Sprintf("(%s OR %s)", lowerComparison(spanCol, a.Op, val), lowerComparison(resCol, a.Op, val)), nil
	default:
		return "", &SemanticError{Reason: "unknown field kind"}
	}
}

// lowerComparison renders `col <op> val`, spelling regex operators out as
// keywords since SQL has no infix symbol for them.
func lowerComparison(col string, op traceql.CmpOp, val string) string {
	switch op {
	case traceql.CmpRe:
		return fmt.Sprintf("%s REGEXP %s", col, val)
	case traceql.CmpNre:
		return fmt.Sprintf("%s NOT REGEXP %s", col, val)
	default:
		return fmt.Sprintf("%s %s %s", col, op, val)
	}
}

func checkCmpCompatible(op traceql.CmpOp, kind traceql.ValueKind) error {
	ordering := op == traceql.CmpLt || op == traceql.CmpLe || op == traceql.CmpGt || op == traceql.CmpGe
	if ordering && kind == traceql.ValString {
		return &SemanticError{Reason: "ordering comparison is not valid on a string value"}
	}
	return nil
}

func intrinsicColumn(key string) (string, error) {
	switch key {
	case "duration":
		return "duration", nil
	case "status":
		return "status_code", nil
	case "serviceName":
		return "service_name", nil
	case "name":
		return "span_name", nil
	case "kind":
		return "span_kind", nil
	case "statusMessage":
		return "status_message", nil
	case "traceID":
		return "trace_id", nil
	case "spanID":
		return "span_id", nil
	default:
		return "", &SemanticError{Reason: fmt.Sprintf("unknown intrinsic field %q", key)}
	}
}

func lowerTraceValue(field traceql.Field, v traceql.Value) (string, error) {
	switch v.Kind {
	case traceql.ValString:
		return sqlQuote(v.Str), nil
	case traceql.ValInt:
		return strconv.FormatInt(v.Int, 10), nil
	case traceql.ValFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case traceql.ValDuration:
		return strconv.FormatInt(v.DurationNs, 10), nil
	case traceql.ValStatus:
		return strconv.Itoa(int(v.Status)), nil
	default:
		return "", &SemanticError{Reason: fmt.Sprintf("unknown value kind for field %q", field.Key)}
	}
}
