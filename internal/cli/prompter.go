package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/selection"
)

// terminalPrompter asks save-or-discard questions on the terminal.
type terminalPrompter struct {
	reader *bufio.Reader
	w      io.Writer
}

func (p *terminalPrompter) ConfirmSave(ctx context.Context, pending selection.Pending) (selection.Decision, error) {
	return p.ask(ctx, fmt.Sprintf("The entry for %s has unsaved changes. Save before moving to %s?",
		pending.From, pending.To))
}

// ask repeats question until it gets y, n or c.
func (p *terminalPrompter) ask(ctx context.Context, question string) (selection.Decision, error) {
	prompt := question + " [y]es, [n]o, [c]ancel"
	for {
		if err := ctx.Err(); err != nil {
			return selection.DecisionCancel, err
		}
		answer, err := GetSimpleText(p.reader, prompt, p.w)
		if err != nil {
			return selection.DecisionCancel, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return selection.DecisionSave, nil
		case "n", "no":
			return selection.DecisionDiscard, nil
		case "c", "cancel":
			return selection.DecisionCancel, nil
		}
		fmt.Fprintln(p.w, "Please answer y, n or c.")
	}
}
