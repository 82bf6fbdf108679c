package grader

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agext/levenshtein"
)

// Options returns up to count candidates for answer: the answer itself followed by
// the pool entries closest to it by case-insensitive edit distance.
func Options(answer string, pool []string, count int) []string {
	if count <= 0 {
		return nil
	}
	target := strings.ToLower(answer)
	type candidate struct {
		text string
		dist int
	}
	candidates := make([]candidate, 0, len(pool))
	for _, text := range pool {
		if text == answer {
			continue
		}
		candidates = append(candidates, candidate{
			text: text,
			dist: levenshtein.Distance(target, strings.ToLower(text), nil),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	options := []string{answer}
	for _, c := range candidates {
		if len(options) == count {
			break
		}
		options = append(options, c.text)
	}
	return options
}

// MultipleChoice shows count shuffled options and reads a 0-based selection.
func (g *Grader) MultipleChoice(question, answer string, count int) (Outcome, error) {
	options := Options(answer, g.pool, count)
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	g.term.ShowQuestion(question, options)
	reply, aborted, err := g.ask("Enter answer number: ")
	if err != nil {
		return Wrong, err
	}
	if aborted {
		return Exit, nil
	}

	idx, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil || idx < 0 || idx >= len(options) {
		return Wrong, nil
	}
	if options[idx] == answer {
		return Correct, nil
	}
	return Wrong, nil
}
