package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nvqpham/tally/internal/agent"
)

const helpText = `Examples of commands you can try:

- Add an expense of 120000 VND for coffee with friends in entertainment category today.
- Show me a summary of my expenses for today.
- Summarize my expenses for this month.
- Add an electricity bill of 800000 VND due on 2025-12-10.
- List my unpaid bills.
- Mark bill 2 as paid.
- Delete expense number 3.
- Help me save 20000000 VND by June 2026, I already have 5000000 VND.
- Check my spending health for this month.
- Generate an expense report for this month.`

// requestHandler is the slice of the agent the chat loop needs.
type requestHandler interface {
	HandleRequest(ctx context.Context, userText string) (agent.Response, error)
}

// Chat runs the interactive loop: read a request, hand it to the agent,
// print plan and results. "help" shows examples; "exit" or "quit"
// leaves; blank lines are skipped. Returns when the input stream ends
// or the context is canceled. The reader is shared with the
// confirmation prompter so both consume the same input stream.
func Chat(ctx context.Context, handler requestHandler, reader *LineReader, out io.Writer) error {
	fmt.Fprintln(out, FormatTitle("=== AI Expense & Bills Agent ==="))
	fmt.Fprintln(out, "Type natural language commands to manage your expenses and bills.")
	fmt.Fprintln(out, SubtleStyle.Render("Type 'help' for examples. Type 'exit' or 'quit' to leave."))
	fmt.Fprintln(out)

	for {
		fmt.Fprint(out, FormatPrompt("> User:"))

		line, err := reader.ReadLine(ctx)
		if errors.Is(err, ErrInputCancelled) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return nil
		}

		switch normalizeAnswer(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			fmt.Fprint(out, "\n"+helpText+"\n\n")
			continue
		}

		resp, err := handler.HandleRequest(ctx, line)
		if err != nil {
			fmt.Fprintln(out, FormatError(fmt.Sprintf("[Error] %v", err))+"\n")
			continue
		}

		printResponse(out, resp)
	}
}

// PrintResponse renders a single plan/results pair for one-shot usage.
func PrintResponse(out io.Writer, resp agent.Response) {
	printResponse(out, resp)
}

func printResponse(out io.Writer, resp agent.Response) {
	plan := resp.Plan
	if plan == "" {
		plan = "(no plan)"
	}

	fmt.Fprintln(out, "\n[Plan]")
	fmt.Fprintln(out, PlanStyle.Render(plan))
	fmt.Fprintln(out, "\n[Results]")
	for _, result := range resp.Results {
		fmt.Fprintf(out, "- %s\n", result)
	}
	fmt.Fprintln(out)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
