package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// syncWriter serializes writes from the REPL and background saves.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Notifier prints one-line user notifications. It implements
// journal.SaveObserver; completion may arrive from a background save
// goroutine, so writes are serialized.
type Notifier struct {
	mu   sync.Mutex
	w    io.Writer
	log  logging.Logger
	ok   *color.Color
	bad  *color.Color
	info *color.Color
}

// NewNotifier returns a Notifier writing to w.
func NewNotifier(w io.Writer, log logging.Logger) *Notifier {
	if log == nil {
		log = logging.Discard()
	}
	return &Notifier{
		w:    w,
		log:  log,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		info: color.New(color.FgCyan),
	}
}

// Info prints a neutral message.
func (n *Notifier) Info(format string, args ...any) {
	n.print(n.info, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (n *Notifier) Success(format string, args ...any) {
	n.print(n.ok, fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func (n *Notifier) Warn(format string, args ...any) {
	n.print(n.bad, "Warning: "+fmt.Sprintf(format, args...))
}

// Error prints err as a one-line failure message.
func (n *Notifier) Error(err error) {
	n.print(n.bad, "Error: "+err.Error())
}

func (n *Notifier) print(c *color.Color, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = c.Fprintln(n.w, msg)
}

func (n *Notifier) SaveProgress(percent int) {
	n.log.Debug(context.Background(), "save progress", "percent", percent)
}

func (n *Notifier) SaveDone(err error) {
	if err != nil {
		n.Error(fmt.Errorf("journal was not saved: %w", err))
		return
	}
	n.Success("Journal was saved.")
}
