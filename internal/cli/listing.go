package cli

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dmitrijs2005/gophjournal/internal/datekey"
)

var (
	headerColor = color.New(color.Bold)
	entryColor  = color.New(color.FgGreen, color.Bold)

	entryDay = regexp.MustCompile(`\d+\*`)
)

// Dates lists every entry date with its weekday.
func (a *App) Dates(ctx context.Context) error {
	dates := a.session.EntryDates()
	if len(dates) == 0 {
		a.notify.Info("The journal has no entries.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Date", "Weekday", "")
	for _, d := range dates {
		mark := ""
		if d == a.coord.Current() {
			mark = "<"
		}
		tbl.AddRow(d.String(), d.Time().Weekday().String(), mark)
	}

	fmt.Fprintln(a.out, colorHeader(tbl.String()))
	fmt.Fprintf(a.out, "%d entries\n", len(dates))
	return nil
}

// Month prints a calendar for YYYY-MM (the focused month when arg is
// empty). Days with an entry are highlighted and suffixed with '*'.
func (a *App) Month(ctx context.Context, arg string) error {
	year, month, err := a.parseMonth(arg)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, headerColor.Sprintf("%s %d", month, year))
	fmt.Fprintln(a.out, monthTable(year, month, a.session.EntryDatesIn(year, month)))
	return nil
}

func (a *App) parseMonth(arg string) (int, time.Month, error) {
	if arg == "" {
		cur := a.coord.Current()
		if cur.IsZero() {
			cur = datekey.Today()
		}
		y, m := cur.Month()
		return y, m, nil
	}

	d, err := datekey.Parse(arg + "-01")
	if err != nil {
		return 0, 0, fmt.Errorf("month must look like YYYY-MM: %w", err)
	}
	y, m := d.Month()
	return y, m, nil
}

// colorHeader colours the first line of a rendered table. uitable counts
// escape codes as width, so colour is only applied to padded output.
func colorHeader(rendered string) string {
	header, rest, found := strings.Cut(rendered, "\n")
	header = headerColor.Sprint(header)
	if !found {
		return header
	}
	return header + "\n" + rest
}

// monthTable renders a Monday-first calendar. Days with an entry carry a
// '*' and are coloured once the table is laid out.
func monthTable(year int, month time.Month, withEntries []datekey.DateKey) string {
	marked := make(map[int]bool, len(withEntries))
	for _, d := range withEntries {
		marked[d.Time().Day()] = true
	}

	tbl := uitable.New()
	tbl.Separator = " "
	tbl.AddRow(headerRow()...)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	// Monday-first weeks.
	offset := (int(first.Weekday()) + 6) % 7

	row := make([]interface{}, 0, 7)
	for i := 0; i < offset; i++ {
		row = append(row, "")
	}
	for day := 1; day <= days; day++ {
		cell := strconv.Itoa(day)
		if marked[day] {
			cell += "*"
		}
		row = append(row, cell)
		if len(row) == 7 {
			tbl.AddRow(row...)
			row = make([]interface{}, 0, 7)
		}
	}
	if len(row) > 0 {
		tbl.AddRow(row...)
	}

	for i := 0; i < 7; i++ {
		tbl.RightAlign(i)
	}

	header, body, _ := strings.Cut(tbl.String(), "\n")
	body = entryDay.ReplaceAllStringFunc(body, func(cell string) string {
		return entryColor.Sprint(cell)
	})
	return headerColor.Sprint(header) + "\n" + body
}

func headerRow() []interface{} {
	names := strings.Fields("Mo Tu We Th Fr Sa Su")
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = n
	}
	return row
}
