package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls    []string
	exitOK   []bool
	failWith error
	warned   int
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failWith
}

func (f *fakeExec) Today(context.Context) error { return f.record("today") }
func (f *fakeExec) Goto(_ context.Context, date string) error {
	return f.record("goto " + date)
}
func (f *fakeExec) First(context.Context) error  { return f.record("first") }
func (f *fakeExec) Last(context.Context) error   { return f.record("last") }
func (f *fakeExec) Next(context.Context) error   { return f.record("next") }
func (f *fakeExec) Prev(context.Context) error   { return f.record("prev") }
func (f *fakeExec) Show(context.Context) error   { return f.record("show") }
func (f *fakeExec) Write(context.Context) error  { return f.record("write") }
func (f *fakeExec) Save(context.Context) error   { return f.record("save") }
func (f *fakeExec) Revert(context.Context) error { return f.record("revert") }
func (f *fakeExec) Delete(context.Context) error { return f.record("delete") }
func (f *fakeExec) Dates(context.Context) error  { return f.record("dates") }
func (f *fakeExec) Month(_ context.Context, month string) error {
	return f.record(strings.TrimSpace("month " + month))
}
func (f *fakeExec) Exit(context.Context) (bool, error) {
	f.calls = append(f.calls, "exit")
	if len(f.exitOK) == 0 {
		return true, nil
	}
	ok := f.exitOK[0]
	f.exitOK = f.exitOK[1:]
	return ok, nil
}

func (f *fakeExec) WarnUnsaved(context.Context) { f.warned++ }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"today",
		"goto 2024-01-05",
		"first",
		"last",
		"n",
		"p",
		"show",
		"write",
		"save",
		"revert",
		"delete",
		"dates",
		"month",
		"m 2024-02",
		"",
		"exit",
		"today",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"today", "goto 2024-01-05", "first", "last", "next", "prev", "show", "write",
		"save", "revert", "delete", "dates", "month", "month 2024-02", "exit",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("goto\nfoobar\nquit\n"))

	assert.Equal(t, []string{"exit"}, exec.calls)
	assert.Contains(t, *lines, "Usage: goto YYYY-MM-DD")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_ExitDeclinedKeepsRunning(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{exitOK: []bool{false, true}}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("exit\nshow\nexit\n"))

	assert.Equal(t, []string{"exit", "show", "exit"}, exec.calls)
	assert.Zero(t, exec.warned)
}

func TestRunREPL_EOFWarnsAboutUnsavedWork(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("write\n"))

	assert.Equal(t, []string{"write"}, exec.calls)
	assert.Equal(t, 1, exec.warned)
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{failWith: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("next\nprev"))

	assert.Equal(t, []string{"next", "prev"}, exec.calls)

	errs := 0
	for _, l := range *lines {
		if strings.Contains(l, "Error: boom") {
			errs++
		}
	}
	assert.Equal(t, 2, errs)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "2024-01-05*" }, rdr(""))

	assert.Equal(t, []string{"journal [2024-01-05*] > "}, *lines)
}
