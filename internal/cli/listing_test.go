package cli

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophjournal/internal/datekey"
)

func TestMonthTable_February2024(t *testing.T) {
	noColor(t)

	rendered := monthTable(2024, time.February, []datekey.DateKey{
		datekey.MustParse("2024-02-01"),
		datekey.MustParse("2024-02-29"),
	})
	lines := strings.Split(rendered, "\n")

	// header plus five weeks; Feb 1st 2024 is a Thursday.
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1*", "2", "3", "4"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"26", "27", "28", "29*"}, strings.Fields(lines[5]))
}

func TestMonthTable_MondayStart(t *testing.T) {
	noColor(t)

	// April 2024 starts on a Monday and has 30 days.
	lines := strings.Split(monthTable(2024, time.April, nil), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"29", "30"}, strings.Fields(lines[5]))
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func withColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
}

func TestMonthTable_ColorKeepsAlignment(t *testing.T) {
	entries := []datekey.DateKey{
		datekey.MustParse("2024-02-01"),
		datekey.MustParse("2024-02-14"),
	}

	noColor(t)
	plain := monthTable(2024, time.February, entries)

	withColor(t)
	colored := monthTable(2024, time.February, entries)

	require.NotEqual(t, plain, colored)
	assert.Contains(t, colored, entryColor.Sprint("14*"))
	assert.Equal(t, plain, ansi.ReplaceAllString(colored, ""))
}

func TestApp_DatesColorKeepsAlignment(t *testing.T) {
	s, _ := newTestSession(t, map[datekey.DateKey]string{jan09: "b", jan05: "a"})
	a, out := newTestApp(t, s, "")
	ctx := context.Background()

	require.NoError(t, a.Dates(ctx))
	plain := out.String()

	withColor(t)
	out.Reset()
	require.NoError(t, a.Dates(ctx))
	colored := out.String()

	require.NotEqual(t, plain, colored)
	assert.Equal(t, plain, ansi.ReplaceAllString(colored, ""))
}

func TestApp_Dates(t *testing.T) {
	s, _ := newTestSession(t, map[datekey.DateKey]string{jan09: "b", jan05: "a"})
	a, out := newTestApp(t, s, "")
	ctx := context.Background()

	require.NoError(t, a.Goto(ctx, jan09.String()))
	out.Reset()
	require.NoError(t, a.Dates(ctx))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Date", "Weekday"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2024-01-05", "Friday"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2024-01-09", "Tuesday", "<"}, strings.Fields(lines[2]))
	assert.Equal(t, "2 entries", lines[3])
}

func TestApp_DatesEmpty(t *testing.T) {
	s, _ := newTestSession(t, nil)
	a, out := newTestApp(t, s, "")

	require.NoError(t, a.Dates(context.Background()))
	assert.Contains(t, out.String(), "The journal has no entries.")
}

func TestApp_Month(t *testing.T) {
	s, _ := newTestSession(t, map[datekey.DateKey]string{jan05: "a", feb01: "b"})
	a, out := newTestApp(t, s, "")
	ctx := context.Background()

	require.NoError(t, a.Month(ctx, "2024-02"))
	assert.Contains(t, out.String(), "February 2024")
	assert.Contains(t, out.String(), "1*")
	assert.NotContains(t, out.String(), "5*")

	out.Reset()
	require.NoError(t, a.Goto(ctx, jan05.String()))
	out.Reset()
	require.NoError(t, a.Month(ctx, ""))
	assert.Contains(t, out.String(), "January 2024")
	assert.Contains(t, out.String(), "5*")

	require.Error(t, a.Month(ctx, "2024-13"))
	require.Error(t, a.Month(ctx, "Feb"))
}
