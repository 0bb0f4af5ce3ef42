// Package cli provides the interactive journal command-line shell.
//
// It wires configuration, logging, the optional S3 backup and a journal
// session into a REPL. The REPL keeps one focused date, shows its entry,
// and routes every date change through a selection.Coordinator so unsaved
// text is never lost silently.
//
// Commands:
//   - today / goto <date> / first / last / next / prev: move focus
//   - show: print the focused entry
//   - write: replace the focused entry text (not saved yet)
//   - save: persist in the background
//   - revert / delete: drop edits or remove the focused entry
//   - dates / month [YYYY-MM]: list entry days
//   - exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
