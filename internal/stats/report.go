// Package stats summarizes question ranks for reporting.
package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/drill/internal/model"
	"github.com/verte-zerg/drill/internal/scheduler"
)

// familiarRank is the first rank asked as free-response under the default policy.
const familiarRank = 2

// Row is the rank breakdown of one set.
type Row struct {
	Set      string
	Title    string
	Total    int
	New      int
	Learning int
	Familiar int
	Due      int
}

// Report is the per-set summary for one iteration.
type Report struct {
	Iteration int
	Rows      []Row
	Total     Row
}

// BuildReport groups questions by set, in the order of sets.
func BuildReport(sets []model.Set, questions []model.Question, iteration int) Report {
	report := Report{Iteration: iteration, Total: Row{Title: "Total"}}
	index := make(map[string]int, len(sets))
	for _, set := range sets {
		index[set.Name] = len(report.Rows)
		report.Rows = append(report.Rows, Row{Set: set.Name, Title: set.Title})
	}
	for _, q := range questions {
		i, ok := index[q.Set]
		if !ok {
			i = len(report.Rows)
			index[q.Set] = i
			report.Rows = append(report.Rows, Row{Set: q.Set, Title: q.Set})
		}
		count(&report.Rows[i], q, iteration)
		count(&report.Total, q, iteration)
	}
	return report
}

func count(row *Row, q model.Question, iteration int) {
	row.Total++
	switch {
	case q.Rank <= 0:
		row.New++
	case q.Rank < familiarRank:
		row.Learning++
	default:
		row.Familiar++
	}
	if scheduler.IsDue(q.Rank, iteration) {
		row.Due++
	}
}

// Render writes the report as an aligned table.
func Render(w io.Writer, report Report) error {
	if _, err := fmt.Fprintf(w, "Iteration %d\n\n", report.Iteration); err != nil {
		return err
	}
	headers := []string{"Set", "Total", "New", "Learning", "Familiar", "Due"}
	rows := make([][]string, 0, len(report.Rows)+1)
	for _, row := range report.Rows {
		rows = append(rows, cells(row))
	}
	if len(report.Rows) > 1 {
		rows = append(rows, cells(report.Total))
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func cells(row Row) []string {
	return []string{
		row.Title,
		strconv.Itoa(row.Total),
		strconv.Itoa(row.New),
		strconv.Itoa(row.Learning),
		strconv.Itoa(row.Familiar),
		strconv.Itoa(row.Due),
	}
}
