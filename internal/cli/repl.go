package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

var errColor = color.New(color.FgRed)

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a lightweight stub.
type execIface interface {
	Today(ctx context.Context) error
	Goto(ctx context.Context, date string) error
	First(ctx context.Context) error
	Last(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Show(ctx context.Context) error
	Write(ctx context.Context) error
	Save(ctx context.Context) error
	Revert(ctx context.Context) error
	Delete(ctx context.Context) error
	Dates(ctx context.Context) error
	Month(ctx context.Context, month string) error
	Exit(ctx context.Context) (bool, error)
	WarnUnsaved(ctx context.Context)
}

const helpText = `Available commands:
  today               focus today
  goto YYYY-MM-DD     focus a date
  first | last        focus the earliest / latest entry
  next | prev         focus the neighbouring entry
  show                print the focused entry
  write               replace the focused entry text
  save                save the journal
  revert              drop unsaved text
  delete              delete the focused entry
  dates               list entry dates
  month [YYYY-MM]     show a month calendar
  exit | quit         leave`

// runREPL reads commands line by line from reader and dispatches them to a.
// Handler errors are printed and the loop keeps going. The loop ends on EOF,
// after warning about anything left unsaved, or when Exit agrees to stop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("journal [%s] > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			a.WarnUnsaved(ctx)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "today", "t":
			cmdErr = a.Today(ctx)

		case "goto", "g":
			if len(args) == 0 {
				printlnFn("Usage: goto YYYY-MM-DD")
				continue
			}
			cmdErr = a.Goto(ctx, args[0])

		case "first":
			cmdErr = a.First(ctx)

		case "last":
			cmdErr = a.Last(ctx)

		case "next", "n":
			cmdErr = a.Next(ctx)

		case "prev", "p":
			cmdErr = a.Prev(ctx)

		case "show", "s":
			cmdErr = a.Show(ctx)

		case "write", "w":
			cmdErr = a.Write(ctx)

		case "save":
			cmdErr = a.Save(ctx)

		case "revert":
			cmdErr = a.Revert(ctx)

		case "delete":
			cmdErr = a.Delete(ctx)

		case "dates", "l", "list":
			cmdErr = a.Dates(ctx)

		case "month", "m":
			month := ""
			if len(args) > 0 {
				month = args[0]
			}
			cmdErr = a.Month(ctx, month)

		case "exit", "quit", "q":
			ok, err := a.Exit(ctx)
			if err != nil {
				printlnFn(errColor.Sprint("Error: ", err))
				continue
			}
			if ok {
				printlnFn("Bye!")
				return
			}

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(errColor.Sprint("Error: ", cmdErr))
		}
	}
}
