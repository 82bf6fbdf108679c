// Package grader presents questions and evaluates the responses.
package grader

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/drill/internal/model"
)

// Outcome is the result of asking one question.
type Outcome int

const (
	Wrong Outcome = iota
	Correct
	Exit
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Exit:
		return "exit"
	default:
		return "wrong"
	}
}

// Terminal is the interaction surface the grader needs.
// Ask returns model.ErrAborted when the user aborts input.
type Terminal interface {
	ShowQuestion(question string, options []string)
	Ask(label string) (string, error)
}

// Policy picks the quiz mode for a rank.
type Policy string

const (
	// PolicyTiered asks rank 0 with 4 options, rank 1 with 8, and rank 2+ free-response.
	PolicyTiered Policy = "tiered"
	// PolicyThreshold asks rank 0-2 with 4 options and rank 3+ free-response.
	PolicyThreshold Policy = "threshold"
)

// ParsePolicy validates a policy name. Empty selects PolicyTiered.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case "", PolicyTiered:
		return PolicyTiered, nil
	case PolicyThreshold:
		return PolicyThreshold, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %q or %q)", name, PolicyTiered, PolicyThreshold)
	}
}

// Mode describes how a question is asked. Options is 0 for free-response.
type Mode struct {
	Options int
}

// FreeResponse reports whether the mode asks for a typed answer.
func (m Mode) FreeResponse() bool {
	return m.Options == 0
}

// Mode returns the quiz mode for rank.
func (p Policy) Mode(rank int) Mode {
	if p == PolicyThreshold {
		if rank > 2 {
			return Mode{}
		}
		return Mode{Options: 4}
	}
	switch {
	case rank <= 0:
		return Mode{Options: 4}
	case rank == 1:
		return Mode{Options: 8}
	default:
		return Mode{}
	}
}

const defaultNearMiss = 3

// Option configures a Grader.
type Option func(*Grader)

// WithPolicy sets the mode policy.
func WithPolicy(p Policy) Option { return func(g *Grader) { g.policy = p } }

// WithRand sets the random source used to shuffle options.
func WithRand(rnd *rand.Rand) Option { return func(g *Grader) { g.rnd = rnd } }

// WithNearMiss sets the exclusive edit distance below which a free-response
// answer is offered for self-confirmation.
func WithNearMiss(n int) Option { return func(g *Grader) { g.nearMiss = n } }

// Grader asks questions through a Terminal.
type Grader struct {
	term     Terminal
	pool     []string
	policy   Policy
	rnd      *rand.Rand
	nearMiss int
}

// New returns a Grader drawing distractors from pool.
func New(term Terminal, pool []string, opts ...Option) *Grader {
	g := &Grader{
		term:     term,
		pool:     pool,
		policy:   PolicyTiered,
		nearMiss: defaultNearMiss,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// Grade asks q in the mode its rank calls for.
func (g *Grader) Grade(q model.Question) (Outcome, error) {
	mode := g.policy.Mode(q.Rank)
	if mode.FreeResponse() {
		return g.FreeResponse(q.Question, q.Answer)
	}
	return g.MultipleChoice(q.Question, q.Answer, mode.Options)
}

// ApplyRank promotes on Correct and demotes on Wrong, never below zero.
func ApplyRank(rank int, outcome Outcome) int {
	switch outcome {
	case Correct:
		rank++
	case Wrong:
		rank--
	}
	if rank < 0 {
		rank = 0
	}
	return rank
}

// AnswerPool collects the distinct answers of questions in first-seen order.
func AnswerPool(questions []model.Question) []string {
	seen := make(map[string]struct{}, len(questions))
	pool := make([]string, 0, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.Answer]; ok {
			continue
		}
		seen[q.Answer] = struct{}{}
		pool = append(pool, q.Answer)
	}
	return pool
}

// ask maps an aborted prompt to Exit.
func (g *Grader) ask(label string) (string, bool, error) {
	reply, err := g.term.Ask(label)
	if err != nil {
		if errors.Is(err, model.ErrAborted) {
			return "", true, nil
		}
		return "", false, err
	}
	return reply, false, nil
}
