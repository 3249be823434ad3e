package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nvqpham/tally/internal/cli"
	"github.com/nvqpham/tally/internal/service"
)

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [request]",
		Short: "Handle a single natural-language request",
		Long: `Send one request through the agent and print the plan and results.

Destructive actions (deleting expenses, marking bills paid) prompt for
confirmation unless --yes is given.

Examples:
  tally ask "add an expense of 120000 VND for coffee today"
  tally ask "summarize my expenses for this month"
  tally ask --yes "delete expense 3"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation for destructive actions")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var prompter service.ConfirmationPrompter
	if yes {
		prompter = cli.AutoApprove{}
	} else {
		prompter = cli.NewPrompter(os.Stdin, os.Stdout)
	}

	resp, err := a.agent(prompter).HandleRequest(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cli.PrintResponse(os.Stdout, resp)
	return nil
}
