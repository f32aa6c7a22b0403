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

// Package httpapi exposes the Loki- and Tempo-shaped contract the core
// translation pipeline presents to an HTTP layer: parse the query string,
// invoke logql/traceql/sqlbuilder, and hand back the generated SQL as JSON,
// together with the parsed LogQL AST for log queries or the canonical
// rendered TraceQL text for trace searches. It never executes the SQL
// against a backend; that,
// and the full Loki/Tempo response envelopes, are explicitly out of scope.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caibirdme/ltbridge/internal/logql"
	"github.com/caibirdme/ltbridge/internal/sqlbuilder"
	"github.com/caibirdme/ltbridge/internal/traceql"
)

// ProfileResolver looks up the BackendProfile to use for a request. A
// deployment may key it on API key, tenant header, or just return one
// fixed profile; how it decides is external to this package.
type ProfileResolver func(r *http.Request) (sqlbuilder.BackendProfile, bool)

// Server wires the core translation pipeline into HTTP handlers.
type Server struct {
	Profiles   ProfileResolver
	DefaultLim int
}

// NewServer builds a Server resolving profiles via resolve. defaultLimit
// is used for trace search requests that omit a limit.
func NewServer(resolve ProfileResolver, defaultLimit int) *Server {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &Server{Profiles: resolve, DefaultLim: defaultLimit}
}

// Mux builds the ServeMux routing table for the contract surface.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/loki/api/v1/query_range", s.requestLogged(s.handleQueryRange))
	mux.HandleFunc("/api/search", s.requestLogged(s.handleSearch))
	mux.HandleFunc("/api/v2/search", s.requestLogged(s.handleSearch))
	mux.HandleFunc("/api/echo", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("echo"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// requestLogged wraps a handler with a request-ID-tagged slog line and an
// OTel attribute set, mirroring the reference corpus's request-span
// middleware without pulling in a full tracing exporter (out of scope).
func (s *Server) requestLogged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		attrs := attribute.NewSet(
			attribute.String("request.id", reqID),
			attribute.String("http.path", r.URL.Path),
		)
		slog.Info("request received",
			slog.String("request_id", reqID),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.Any("otel_attrs", attrs.ToSlice()),
		)
		next(w, r)
	}
}

// queryRangeResponse is the minimal Loki-shaped envelope this contract
// surface returns: the generated SQL and the AST it was built from, not a
// result-row projection (explicitly out of scope).
type queryRangeResponse struct {
	SQL   string        `json:"sql"`
	Query *logql.LogQuery `json:"query"`
}

func (s *Server) handleQueryRange(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("query")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter")
		return
	}
	profile, ok := s.Profiles(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "no backend profile resolved for request")
		return
	}
	q, err := logql.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sql, err := sqlbuilder.BuildLogSQL(q, profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, queryRangeResponse{SQL: sql, Query: q})
}

type searchResponse struct {
	SQL   string             `json:"sql"`
	Query *traceql.TraceQuery `json:"-"`
	Trace string             `json:"traceql"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	limit := s.DefaultLim
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}
	profile, ok := s.Profiles(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "no backend profile resolved for request")
		return
	}
	q, err := traceql.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sql, err := sqlbuilder.BuildTraceSQL(q, profile, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{SQL: sql, Query: q, Trace: traceql.Render(q)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
