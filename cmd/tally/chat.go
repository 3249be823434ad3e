package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nvqpham/tally/internal/cli"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session with the agent",
		Long: `Open a read-eval-print loop against the agent.

Each line is treated as a natural-language request. Type 'help' for
example commands, 'exit' or 'quit' to leave.`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	reader := cli.NewLineReader(os.Stdin)
	prompter := cli.NewPrompterWithReader(reader, os.Stdout)
	return cli.Chat(cmd.Context(), a.agent(prompter), reader, os.Stdout)
}
