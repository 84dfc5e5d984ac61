package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/prism/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP",
		Long: `Serve the analysis pipeline over HTTP.

Endpoints:
  POST /v1/analyse   image body (or multipart field "image"), full report
  POST /v1/palette   same input, palette only
  GET  /v1/convert   ?colour=rgb(...) or ?colour=%23hex
  GET  /healthz

Query parameters threshold, maxDimension, quantization, gate, contrast and
crop override the server defaults per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return server.New(cfg, a.logger.Named("server")).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
