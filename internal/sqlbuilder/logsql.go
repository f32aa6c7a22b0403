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

	"github.com/caibirdme/ltbridge/internal/logql"
)

// logProjection is the fixed SELECT list for every log query.
var logProjection = []string{"app", "server", "trace_id", "span_id", "level", "tags", "message"}

// BuildLogSQL lowers a LogQuery into a single `SELECT ... FROM <log_table>
// WHERE <cond>` statement. Label matches and line filters combine with a
// right-nested AND: combine(c0, c1, ..., cn) = (c0 AND combine(c1, ..., cn)),
// matching the reference corpus's own fold direction. Filters whose pattern
// is the empty string are dropped before lowering, so they never appear in
// the output.
func BuildLogSQL(q *logql.LogQuery, profile BackendProfile) (string, error) {
	conds := make([]string, 0, len(q.Selector)+len(q.Filters))
	for _, m := range q.Selector {
		c, err := lowerLabelMatch(m, profile)
		if err != nil {
			return "", err
		}
		conds = append(conds, c)
	}
	for _, f := range q.Filters {
		if f.Pattern == "" {
			continue
		}
		conds = append(conds, lowerLineFilter(f, profile))
	}

	projection := append(append([]string{}, logProjection...), profile.tsColumn())

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(projection, ","))
	b.WriteString(" FROM ")
	b.WriteString(profile.logTable())
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(combineAnd(conds))
	}
	return b.String(), nil
}

// combineAnd right-folds a list of already-lowered conditions with AND,
// parenthesizing every binary node.
func combineAnd(conds []string) string {
	if len(conds) == 1 {
		return conds[0]
	}
	return fmt.Sprintf("(%s AND %s)", conds[0], combineAnd(conds[1:]))
}

func lowerLabelMatch(m logql.LabelMatch, profile BackendProfile) (string, error) {
	col, isLevel := resolveLogColumn(m.Name, profile)
	switch m.Op {
	case logql.MatchEq:
		return fmt.Sprintf("%s=%s", col, lowerLogValue(m.Value, isLevel, profile)), nil
	case logql.MatchNeq:
		return fmt.Sprintf("%s!=%s", col, lowerLogValue(m.Value, isLevel, profile)), nil
	case logql.MatchRe:
		if profile.InvertedIndex {
			return fmt.Sprintf("MATCH(%s,%s)", col, sqlQuote(m.Value)), nil
		}
		return fmt.Sprintf("%s REGEXP %s", col, sqlQuote(m.Value)), nil
	case logql.MatchNre:
		if profile.InvertedIndex {
			return fmt.Sprintf("NOT MATCH(%s,%s)", col, sqlQuote(m.Value)), nil
		}
		return fmt.Sprintf("%s NOT REGEXP %s", col, sqlQuote(m.Value)), nil
	default:
		return "", &SemanticError{Reason: fmt.Sprintf("unknown match operator %v", m.Op)}
	}
}

// resolveLogColumn maps a (possibly namespaced) label name to its SQL
// column expression, and reports whether it is the level column, since
// level has a profile-dependent value encoding that plain labels lack.
func resolveLogColumn(name string, profile BackendProfile) (col string, isLevel bool) {
	if ns, key, ok := splitNamespace(name); ok {
		switch ns {
		case "attributes":
			return fmt.Sprintf("%s['%s']", profile.attrsMap(), key), false
		case "resources":
			return fmt.Sprintf("%s['%s']", profile.resourcesMap(), key), false
		}
	}
	return name, name == "level"
}

func lowerLogValue(value string, isLevel bool, profile BackendProfile) string {
	if isLevel && profile.LevelEncoding == LevelNumeric {
		if n, ok := levelToNumeric(value); ok {
			return strconv.Itoa(n)
		}
	}
	return sqlQuote(value)
}

func lowerLineFilter(f logql.LineFilter, profile BackendProfile) string {
	pat := sqlQuote(f.Pattern)
	contains := sqlQuote("%" + f.Pattern + "%")
	switch f.Op {
	case logql.FilterContains:
		if profile.InvertedIndex {
			return fmt.Sprintf("MATCH(message,%s)", pat)
		}
		return fmt.Sprintf("message LIKE %s", contains)
	case logql.FilterNotContains:
		if profile.InvertedIndex {
			return fmt.Sprintf("NOT MATCH(message,%s)", pat)
		}
		return fmt.Sprintf("message NOT LIKE %s", contains)
	case logql.FilterRegex:
		if profile.InvertedIndex {
			return fmt.Sprintf("MATCH(message,%s)", pat)
		}
		return fmt.Sprintf("message REGEXP %s", pat)
	case logql.FilterNotRegex:
		if profile.InvertedIndex {
			return fmt.Sprintf("NOT MATCH(message,%s)", pat)
		}
		return fmt.Sprintf("message NOT REGEXP %s", pat)
	default:
		return ""
	}
}
