package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/verte-zerg/drill/internal/model"
	"github.com/verte-zerg/drill/internal/scheduler"
)

// Weakest returns up to n questions with the lowest rank. Ties keep load order.
func Weakest(questions []model.Question, n int) []model.Question {
	if n <= 0 || len(questions) == 0 {
		return nil
	}
	candidates := make([]model.Question, len(questions))
	copy(candidates, questions)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank < candidates[j].Rank
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// RenderWeakest lists questions with their rank and next due iteration.
func RenderWeakest(w io.Writer, questions []model.Question, iteration int) error {
	if len(questions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nWeakest"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, []string{
			q.ID,
			strconv.Itoa(q.Rank),
			strconv.Itoa(scheduler.NextDue(q.Rank, iteration)),
			truncate(q.Question, questionWidth),
		})
	}
	for _, line := range formatTable([]string{"ID", "Rank", "Next", "Question"}, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
