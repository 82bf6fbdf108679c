package grader

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

// Distance is the Levenshtein edit distance between a and b, counted in runes.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// FreeResponse reads a typed answer. An exact match is Correct; a near miss is
// confirmed by the user; anything further off is Wrong.
func (g *Grader) FreeResponse(question, answer string) (Outcome, error) {
	g.term.ShowQuestion(question, nil)
	reply, aborted, err := g.ask("A: ")
	if err != nil {
		return Wrong, err
	}
	if aborted {
		return Exit, nil
	}
	if reply == answer {
		return Correct, nil
	}
	if Distance(reply, answer) >= g.nearMiss {
		return Wrong, nil
	}

	confirm, aborted, err := g.ask(fmt.Sprintf("Is your answer %s? ", answer))
	if err != nil {
		return Wrong, err
	}
	if aborted {
		return Exit, nil
	}
	if declined(confirm) {
		return Wrong, nil
	}
	return Correct, nil
}

// declined treats an empty reply or one starting with "n" as no.
func declined(reply string) bool {
	reply = strings.TrimSpace(reply)
	return reply == "" || strings.HasPrefix(strings.ToLower(reply), "n")
}
