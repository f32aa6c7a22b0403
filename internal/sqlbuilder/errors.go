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

import "fmt"

// SemanticError reports syntactically valid input that cannot be lowered
// to SQL: an unknown intrinsic or a comparison operator incompatible with
// the value kind on its right-hand side. Duration units never reach this
// package: the traceql parser rejects unknown units and stores every
// duration as nanoseconds.
type SemanticError struct {
	Reason string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("sqlbuilder: semantic error: %s", e.Reason)
}

// ProfileError reports that a BackendProfile asked for a namespace or
// capability the caller's schema does not actually support. The builder
// itself never raises this: it emits whatever SQL the profile requests,
// trusting the caller to validate the profile against its backend.
type ProfileError struct {
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("sqlbuilder: profile error: %s", e.Reason)
}
