package main

import (
	"github.com/spf13/cobra"

	"github.com/nvqpham/tally/internal/cli"
	"github.com/nvqpham/tally/internal/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the agent over HTTP.

POST /v1/requests handles natural-language requests; destructive
batches execute only when the request body sets "confirm": true.
GET /v1/expenses, /v1/bills, and /v1/audit read the ledger directly.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	server := web.New(
		a.agent(cli.AutoApprove{}),
		a.agent(web.DeclineAll{}),
		a.store,
		a.audit,
		a.cfg.DefaultLimit,
		a.logger,
	)
	return server.Run(cmd.Context(), addr)
}
