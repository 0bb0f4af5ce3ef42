// Package selection protects unsaved edits when focus moves between dates.
//
// A Coordinator tracks the focused date and the text currently displayed
// for it. The text is Clean when it matches the stored entry (an absent
// entry matches empty text) and Dirty otherwise. Moving to another date
// while Dirty asks a Prompter whether to save, discard, or stay.
//
// A Coordinator belongs to one UI owner and is not safe for concurrent use.
package selection

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/datekey"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// State is the dirty/clean state of the displayed text.
type State int

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Decision is the user's answer to a save-or-discard prompt.
type Decision int

const (
	// DecisionSave persists the old date's text, then moves.
	DecisionSave Decision = iota
	// DecisionDiscard moves without persisting.
	DecisionDiscard
	// DecisionCancel stays on the current date and keeps the edits.
	DecisionCancel
)

// Journal is the slice of a journal session the coordinator needs.
// *journal.Session satisfies it.
type Journal interface {
	GetEntry(date datekey.DateKey) (string, bool, error)
	AddEntry(date datekey.DateKey, plaintext string) error
	Save(ctx context.Context) error
}

// Pending describes a move waiting on the user's decision.
type Pending struct {
	From datekey.DateKey
	To   datekey.DateKey
	Text string
}

// Prompter asks the user what to do with unsaved text.
type Prompter interface {
	ConfirmSave(ctx context.Context, p Pending) (Decision, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, p Pending) (Decision, error)

func (f PrompterFunc) ConfirmSave(ctx context.Context, p Pending) (Decision, error) {
	return f(ctx, p)
}

// Selection is one completed focus change.
type Selection struct {
	Previous         datekey.DateKey
	Current          datekey.DateKey
	PreviousEntry    string
	HasPreviousEntry bool
	CurrentEntry     string
	HasCurrentEntry  bool
}

// Listener is notified after every completed move.
type Listener func(Selection)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// Coordinator is the selection state machine.
type Coordinator struct {
	journal   Journal
	prompter  Prompter
	current   datekey.DateKey
	text      string
	state     State
	listeners []Listener
	log       logging.Logger
}

// New returns a Clean coordinator focused on initial, displaying its stored
// entry. initial may be datekey.None when no date is focused yet.
func New(j Journal, p Prompter, initial datekey.DateKey, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		journal:  j,
		prompter: p,
		current:  initial,
		state:    Clean,
		log:      logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}

	text, _, err := c.stored(initial)
	if err != nil {
		return nil, err
	}
	c.text = text
	return c, nil
}

// State returns the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Current returns the focused date.
func (c *Coordinator) Current() datekey.DateKey {
	return c.current
}

// Text returns the displayed text.
func (c *Coordinator) Text() string {
	return c.text
}

// Subscribe registers l for completed moves.
func (c *Coordinator) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *Coordinator) stored(date datekey.DateKey) (string, bool, error) {
	if date.IsZero() {
		return "", false, nil
	}
	return c.journal.GetEntry(date)
}

// TextChanged records newText as the displayed text and recomputes the
// state against the stored entry for the focused date.
func (c *Coordinator) TextChanged(newText string) (State, error) {
	stored, _, err := c.stored(c.current)
	if err != nil {
		return c.state, err
	}

	c.text = newText
	if newText == stored {
		c.state = Clean
	} else {
		c.state = Dirty
	}
	return c.state, nil
}

// Select moves focus to date.
//
// When Clean the move happens at once. When Dirty the Prompter decides:
// save writes the displayed text to the old date and persists the journal
// before moving, discard moves without writing, cancel stays put with the
// edits kept. Any error leaves the coordinator unchanged. moved is false
// when focus did not change.
func (c *Coordinator) Select(ctx context.Context, date datekey.DateKey) (sel Selection, moved bool, err error) {
	if date == c.current {
		return Selection{}, false, nil
	}

	if c.state == Dirty {
		decision, err := c.prompter.ConfirmSave(ctx, Pending{From: c.current, To: date, Text: c.text})
		if err != nil {
			return Selection{}, false, fmt.Errorf("confirm save: %w", err)
		}

		switch decision {
		case DecisionSave:
			if err := c.persist(ctx); err != nil {
				return Selection{}, false, err
			}
		case DecisionDiscard:
			c.log.Debug(ctx, "unsaved edits discarded", "date", c.current)
		case DecisionCancel:
			return Selection{}, false, nil
		default:
			return Selection{}, false, fmt.Errorf("unknown decision %d", decision)
		}
	}

	return c.move(ctx, date)
}

func (c *Coordinator) persist(ctx context.Context) error {
	if c.current.IsZero() {
		return fmt.Errorf("no date selected")
	}
	if c.state == Dirty {
		if err := c.journal.AddEntry(c.current, c.text); err != nil {
			return err
		}
	}
	if err := c.journal.Save(ctx); err != nil {
		return err
	}
	c.log.Debug(ctx, "entry saved", "date", c.current)
	return nil
}

func (c *Coordinator) move(ctx context.Context, date datekey.DateKey) (Selection, bool, error) {
	prevEntry, hasPrev, err := c.stored(c.current)
	if err != nil {
		return Selection{}, false, err
	}
	nextEntry, hasNext, err := c.stored(date)
	if err != nil {
		return Selection{}, false, err
	}

	sel := Selection{
		Previous:         c.current,
		Current:          date,
		PreviousEntry:    prevEntry,
		HasPreviousEntry: hasPrev,
		CurrentEntry:     nextEntry,
		HasCurrentEntry:  hasNext,
	}

	c.current = date
	c.text = nextEntry
	c.state = Clean

	for _, l := range c.listeners {
		l(sel)
	}
	return sel, true, nil
}

// Save writes the displayed text for the focused date and persists the
// journal. Saving while Clean only re-persists; the focused entry is left
// as stored, so a removed entry stays removed.
func (c *Coordinator) Save(ctx context.Context) error {
	if err := c.persist(ctx); err != nil {
		return err
	}
	c.state = Clean
	return nil
}

// Commit writes the displayed text into the journal without persisting
// it, leaving the coordinator Clean. Callers persist separately, for
// example with an asynchronous save. Committing while Clean is a no-op.
func (c *Coordinator) Commit() error {
	if c.current.IsZero() {
		return fmt.Errorf("no date selected")
	}
	if c.state == Clean {
		return nil
	}
	if err := c.journal.AddEntry(c.current, c.text); err != nil {
		return err
	}
	c.state = Clean
	return nil
}

// Revert drops unsaved edits and shows the stored entry again.
func (c *Coordinator) Revert() error {
	text, _, err := c.stored(c.current)
	if err != nil {
		return err
	}
	c.text = text
	c.state = Clean
	return nil
}
