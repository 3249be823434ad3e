package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/nvqpham/tally/internal/model"
)

// Prompter asks the user to confirm destructive action batches on the
// terminal. It implements service.ConfirmationPrompter.
type Prompter struct {
	reader *LineReader
	out    io.Writer
}

// NewPrompter creates a prompter reading from in and writing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return NewPrompterWithReader(NewLineReader(in), out)
}

// NewPrompterWithReader creates a prompter sharing an existing line
// reader. The chat loop uses this so the prompt and the loop never
// fight over buffered stdin.
func NewPrompterWithReader(reader *LineReader, out io.Writer) *Prompter {
	return &Prompter{
		reader: reader,
		out:    out,
	}
}

// ConfirmDestructive shows the batch and waits for an explicit yes.
// Only "yes" or "y" (case-insensitive) confirms; anything else,
// including a closed input stream, declines.
func (p *Prompter) ConfirmDestructive(ctx context.Context, actions []model.Action) (bool, error) {
	fmt.Fprintln(p.out, FormatWarning("There are potentially destructive actions in this plan."))
	for _, action := range actions {
		fmt.Fprintf(p.out, "  - %s\n", action.Type)
	}
	fmt.Fprint(p.out, FormatPrompt("Are you sure you want to continue? (yes/no):"))

	answer, err := p.reader.ReadLine(ctx)
	if err == ErrInputCancelled {
		return false, err
	}
	if err != nil {
		// EOF or a broken stream is a decline, not a failure
		return false, nil
	}

	switch normalizeAnswer(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AutoApprove confirms every batch without asking. It backs the --yes
// flag and non-interactive callers that accept the risk up front.
type AutoApprove struct{}

// ConfirmDestructive always confirms.
func (AutoApprove) ConfirmDestructive(_ context.Context, _ []model.Action) (bool, error) {
	return true, nil
}
