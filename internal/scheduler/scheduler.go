// Package scheduler decides which questions are due and in what order.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/drill/internal/model"
)

// maxShift caps the spacing exponent so the interval fits in an int.
const maxShift = 62

// Scheduler orders due questions with its own random source.
type Scheduler struct {
	rnd *rand.Rand
}

// New returns a Scheduler seeded with the current time.
func New() *Scheduler {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Scheduler with a fixed seed.
func NewWithSeed(seed int64) *Scheduler {
	return &Scheduler{rnd: rand.New(rand.NewSource(seed))}
}

// Rand exposes the random source so callers can share it.
func (s *Scheduler) Rand() *rand.Rand {
	return s.rnd
}

// Interval is the number of iterations between reviews at rank.
func Interval(rank int) int {
	if rank <= 0 {
		return 1
	}
	if rank > maxShift {
		rank = maxShift
	}
	return 1 << rank
}

// IsDue reports whether a question of rank is reviewed in iteration:
// iteration mod 2^rank == 0.
func IsDue(rank, iteration int) bool {
	return iteration%Interval(rank) == 0
}

// NextDue returns the first iteration at or after iteration in which rank is due.
func NextDue(rank, iteration int) int {
	interval := Interval(rank)
	if iteration%interval == 0 {
		return iteration
	}
	return (iteration/interval + 1) * interval
}

// Plan is the question order for one iteration.
type Plan struct {
	Iteration int
	// Due holds every due id in shuffled order, answered ones included.
	Due []string
	// Pending holds the due ids still to ask, in the same order.
	Pending []string
	// Answered counts due ids answered before the plan was built.
	Answered int
}

// Plan shuffles the questions due in iteration and drops the ids in answered.
func (s *Scheduler) Plan(questions []*model.Question, iteration int, answered map[string]struct{}) Plan {
	var due []string
	for _, q := range questions {
		if IsDue(q.Rank, iteration) {
			due = append(due, q.ID)
		}
	}

	order := make([]int, len(due))
	for i := range order {
		order[i] = i
	}
	s.rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	plan := Plan{Iteration: iteration, Due: make([]string, 0, len(due))}
	for _, idx := range order {
		id := due[idx]
		plan.Due = append(plan.Due, id)
		if _, ok := answered[id]; ok {
			plan.Answered++
			continue
		}
		plan.Pending = append(plan.Pending, id)
	}
	return plan
}

// Progress returns answered as a percentage of the due set.
func (p Plan) Progress(answered int) float64 {
	if len(p.Due) == 0 {
		return 0
	}
	return 100 * float64(answered) / float64(len(p.Due))
}
