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

package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/caibirdme/ltbridge/internal/httpapi"
	"github.com/caibirdme/ltbridge/internal/ltbconfig"
	"github.com/caibirdme/ltbridge/internal/sqlbuilder"
)

var (
	serveAddr    string
	serveProfile string
	serveConfig  string
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP gateway",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on, overrides config")
	serveCmd.Flags().StringVar(&serveProfile, "profile", "default", "named backend profile to use for every request")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "path to an explicit config file, overrides the default ./config lookup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := ltbconfig.LoadPath(serveConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	resolve := func(_ *http.Request) (sqlbuilder.BackendProfile, bool) {
		return cfg.Profile(serveProfile)
	}
	srv := httpapi.NewServer(resolve, 100)

	slog.Info("starting ltbridge HTTP gateway", slog.String("addr", addr), slog.String("profile", serveProfile))
	if err := http.ListenAndServe(addr, srv.Mux()); err != nil {
		return fmt.Errorf("http server stopped: %w", err)
	}
	return nil
}
