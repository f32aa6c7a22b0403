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

import "strings"

// sqlQuote single-quotes a string literal for SQL, doubling embedded quotes.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// splitNamespace recognizes a label name of the form "<ns>_<key>" or
// "<ns>.<key>" where ns is "attributes" or "resources". Only the first
// separator is treated as the namespace boundary; everything after it is
// the key verbatim, per the recommendation for nested-dot identifiers.
func splitNamespace(name string) (ns, key string, ok bool) {
	for _, prefix := range []string{"attributes", "resources"} {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if len(rest) < 2 {
			continue
		}
		sep, key := rest[0], rest[1:]
		if sep != '_' && sep != '.' {
			continue
		}
		return prefix, key, true
	}
	return "", "", false
}

// levelToNumeric maps a log level name to its severity number, per the
// numeric level-encoding table.
func levelToNumeric(level string) (int, bool) {
	switch strings.ToLower(level) {
	case "trace":
		return 5, true
	case "debug":
		return 7, true
	case "info":
		return 9, true
	case "warn":
		return 11, true
	case "error":
		return 13, true
	case "fatal":
		return 15, true
	default:
		return 0, false
	}
}
