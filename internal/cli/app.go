package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/datekey"
	"github.com/dmitrijs2005/gophjournal/internal/journal"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/selection"
)

var _ selection.Journal = (*journal.Session)(nil)

// App is one interactive session over an open journal.
type App struct {
	session  *journal.Session
	coord    *selection.Coordinator
	prompter *terminalPrompter
	reader   *bufio.Reader
	out      io.Writer
	notify   *Notifier
	log      logging.Logger
}

// NewApp focuses today's date and prepares the REPL. The App does not own
// session; the caller closes it.
func NewApp(session *journal.Session, reader *bufio.Reader, out io.Writer, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}
	out = &syncWriter{w: out}

	a := &App{
		session:  session,
		prompter: &terminalPrompter{reader: reader, w: out},
		reader:   reader,
		out:      out,
		notify:   NewNotifier(out, log),
		log:      log,
	}

	coord, err := selection.New(session, a.prompter, datekey.Today(),
		selection.WithLogger(log))
	if err != nil {
		return nil, err
	}
	coord.Subscribe(a.onSelect)
	a.coord = coord

	return a, nil
}

// Run prints the focused entry and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	printlnFn(fmt.Sprintf("Journal %s (%d entries). Type 'help' for commands.", a.session.Path(), a.session.Len()))
	a.printEntry(a.coord.Current(), a.coord.Text(), a.coord.Text() != "")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) status() string {
	s := a.coord.Current().String()
	if a.coord.State() == selection.Dirty {
		s += "*"
	}
	if a.session.Modified() {
		s += " (unsaved)"
	}
	return s
}

func (a *App) onSelect(sel selection.Selection) {
	a.printEntry(sel.Current, sel.CurrentEntry, sel.HasCurrentEntry)
}

func (a *App) printEntry(date datekey.DateKey, text string, ok bool) {
	weekday := ""
	if !date.IsZero() {
		weekday = date.Time().Weekday().String()
	}
	fmt.Fprintln(a.out, headerColor.Sprintf("== %s %s ==", date, weekday))
	if !ok {
		fmt.Fprintln(a.out, "(no entry)")
		return
	}
	fmt.Fprintln(a.out, text)
}

func (a *App) selectDate(ctx context.Context, date datekey.DateKey) error {
	_, moved, err := a.coord.Select(ctx, date)
	if err != nil {
		return err
	}
	if !moved && date != a.coord.Current() {
		a.notify.Info("Staying on %s.", a.coord.Current())
	}
	return nil
}

// Today focuses the current calendar date.
func (a *App) Today(ctx context.Context) error {
	return a.selectDate(ctx, datekey.Today())
}

// Goto focuses the date given as YYYY-MM-DD.
func (a *App) Goto(ctx context.Context, arg string) error {
	date, err := datekey.Parse(arg)
	if err != nil {
		return err
	}
	return a.selectDate(ctx, date)
}

// First focuses the earliest entry.
func (a *App) First(ctx context.Context) error {
	date, ok := a.session.FirstEntryDate()
	if !ok {
		a.notify.Info("The journal has no entries.")
		return nil
	}
	return a.selectDate(ctx, date)
}

// Last focuses the latest entry.
func (a *App) Last(ctx context.Context) error {
	date, ok := a.session.LastEntryDate()
	if !ok {
		a.notify.Info("The journal has no entries.")
		return nil
	}
	return a.selectDate(ctx, date)
}

// Next focuses the nearest entry after the focused date.
func (a *App) Next(ctx context.Context) error {
	date := a.session.NextEntryDate(a.coord.Current())
	if date == a.coord.Current() {
		a.notify.Info("No later entries.")
		return nil
	}
	return a.selectDate(ctx, date)
}

// Prev focuses the nearest entry before the focused date.
func (a *App) Prev(ctx context.Context) error {
	date := a.session.PreviousEntryDate(a.coord.Current())
	if date == a.coord.Current() {
		a.notify.Info("No earlier entries.")
		return nil
	}
	return a.selectDate(ctx, date)
}

// Show prints the displayed text of the focused date.
func (a *App) Show(ctx context.Context) error {
	text := a.coord.Text()
	a.printEntry(a.coord.Current(), text, text != "" || a.coord.State() == selection.Dirty)
	return nil
}

// Write replaces the displayed text with lines read from the terminal.
func (a *App) Write(ctx context.Context) error {
	text, err := GetMultiline(a.reader, fmt.Sprintf("Text for %s:", a.coord.Current()), a.out)
	if err != nil {
		return err
	}
	state, err := a.coord.TextChanged(text)
	if err != nil {
		return err
	}
	if state == selection.Dirty {
		a.notify.Info("Entry changed. Use 'save' to keep it.")
	}
	return nil
}

// Save stores the displayed text and persists the journal in the
// background. Completion is reported by the notifier.
func (a *App) Save(ctx context.Context) error {
	if err := a.coord.Commit(); err != nil {
		return err
	}
	err := a.session.SaveAsync(ctx, a.notify)
	if errors.Is(err, common.ErrSaveInProgress) {
		return fmt.Errorf("a save is already running, try again shortly")
	}
	return err
}

// Revert drops unsaved text for the focused date.
func (a *App) Revert(ctx context.Context) error {
	if err := a.coord.Revert(); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Delete removes the focused entry from the journal. The removal is
// persisted by the next save.
func (a *App) Delete(ctx context.Context) error {
	date := a.coord.Current()
	removed, err := a.session.RemoveEntry(date)
	if err != nil {
		return err
	}
	if err := a.coord.Revert(); err != nil {
		return err
	}
	if !removed {
		a.notify.Info("There is no entry for %s.", date)
		return nil
	}
	a.notify.Info("Entry for %s deleted. Use 'save' to keep the change.", date)
	return nil
}

// Exit reports whether the REPL may stop. Unsaved text and unsaved
// journal changes are offered for saving first.
func (a *App) Exit(ctx context.Context) (bool, error) {
	if a.coord.State() == selection.Dirty {
		decision, err := a.prompter.ask(ctx, fmt.Sprintf("The entry for %s has unsaved changes. Save before exit?", a.coord.Current()))
		if err != nil {
			return false, err
		}
		switch decision {
		case selection.DecisionCancel:
			return false, nil
		case selection.DecisionSave:
			if err := a.coord.Save(ctx); err != nil {
				return false, err
			}
			a.notify.Success("Journal was saved.")
			return true, nil
		}
		if err := a.coord.Revert(); err != nil {
			return false, err
		}
	}

	if !a.session.Modified() {
		return true, nil
	}

	decision, err := a.prompter.ask(ctx, "The journal has unsaved changes. Save before exit?")
	if err != nil {
		return false, err
	}
	switch decision {
	case selection.DecisionCancel:
		return false, nil
	case selection.DecisionSave:
		if err := a.session.Save(ctx); err != nil {
			return false, err
		}
		a.notify.Success("Journal was saved.")
	}
	return true, nil
}

// WarnUnsaved reports edits and journal changes that are about to be lost
// because input ended without an exit command.
func (a *App) WarnUnsaved(ctx context.Context) {
	switch {
	case a.coord.State() == selection.Dirty:
		a.notify.Warn("Input closed. The entry for %s was not saved.", a.coord.Current())
	case a.session.Modified():
		a.notify.Warn("Input closed. Journal changes were not saved.")
	}
}
