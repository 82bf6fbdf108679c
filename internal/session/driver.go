// Package session runs the study loop: it schedules due questions, grades
// answers, updates ranks and persists progress at every exit point.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/drill/internal/grader"
	"github.com/verte-zerg/drill/internal/model"
	"github.com/verte-zerg/drill/internal/scheduler"
	"github.com/verte-zerg/drill/internal/store"
)

// DefaultDelay is the pause after feedback before the next question.
const DefaultDelay = 400 * time.Millisecond

const iterationPrompt = "This iteration is complete. Exit? (Y/N) "

// Phase is the driver state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseIterating
	PhaseAsking
	PhaseGrading
	PhaseIterationComplete
	PhaseSaved
)

func (p Phase) String() string {
	switch p {
	case PhaseIterating:
		return "iterating"
	case PhaseAsking:
		return "asking"
	case PhaseGrading:
		return "grading"
	case PhaseIterationComplete:
		return "iteration-complete"
	case PhaseSaved:
		return "saved"
	default:
		return "loading"
	}
}

// UI is the terminal surface the driver renders to.
type UI interface {
	grader.Terminal
	Clear()
	ShowProgress(pct float64)
	ShowFeedback(correct bool)
}

// Grader asks a single question.
type Grader interface {
	Grade(q model.Question) (grader.Outcome, error)
}

// Options wires the driver collaborators.
type Options struct {
	Store     store.Store
	Scheduler *scheduler.Scheduler
	Grader    Grader
	UI        UI
	// Delay is the post-feedback pause. Zero disables it.
	Delay time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Driver owns the session state between Load and Save.
type Driver struct {
	opts      Options
	questions []*model.Question
	byID      map[string]*model.Question
	known     map[string]int
	iteration int
	answered  []string
	phase     Phase
}

// New returns a driver in the loading phase.
func New(opts Options) *Driver {
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.New()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Driver{opts: opts, phase: PhaseLoading}
}

// Phase reports the current state.
func (d *Driver) Phase() Phase {
	return d.phase
}

// Load reads persisted progress and seeds the ranks of questions from it.
// Resume ids of loaded questions that are not due this iteration are dropped.
func (d *Driver) Load(ctx context.Context, questions []model.Question) error {
	progress, err := d.opts.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	progress.Normalize()

	d.known = progress.Known
	d.iteration = progress.Iteration
	d.questions = make([]*model.Question, 0, len(questions))
	d.byID = make(map[string]*model.Question, len(questions))
	for i := range questions {
		q := questions[i]
		q.Rank = max(progress.Known[q.ID], 0)
		d.questions = append(d.questions, &q)
		d.byID[q.ID] = &q
	}

	d.answered = d.answered[:0]
	seen := make(map[string]struct{}, len(progress.AnsweredInIteration))
	for _, id := range progress.AnsweredInIteration {
		if _, dup := seen[id]; dup {
			continue
		}
		if q, ok := d.byID[id]; ok && !scheduler.IsDue(q.Rank, d.iteration) {
			continue
		}
		seen[id] = struct{}{}
		d.answered = append(d.answered, id)
	}

	d.phase = PhaseIterating
	return nil
}

// Run asks due questions until the user exits. Progress is saved on every
// exit path, including errors.
func (d *Driver) Run(ctx context.Context) error {
	if len(d.questions) == 0 {
		return d.Save(ctx)
	}
	for {
		d.phase = PhaseIterating
		plan := d.opts.Scheduler.Plan(d.questions, d.iteration, d.answeredSet())
		answered := plan.Answered

		for _, id := range plan.Pending {
			if ctx.Err() != nil {
				return d.Save(ctx)
			}
			q := d.byID[id]

			d.opts.UI.Clear()
			d.opts.UI.ShowProgress(plan.Progress(answered))

			d.phase = PhaseAsking
			outcome, err := d.opts.Grader.Grade(*q)
			if err != nil {
				return d.fail(ctx, fmt.Errorf("failed to ask %s: %w", id, err))
			}
			if outcome == grader.Exit {
				return d.Save(ctx)
			}

			d.phase = PhaseGrading
			q.Rank = grader.ApplyRank(q.Rank, outcome)
			d.answered = append(d.answered, id)
			answered++
			d.opts.UI.ShowFeedback(outcome == grader.Correct)
			if d.opts.Delay > 0 {
				d.opts.Sleep(d.opts.Delay)
			}
		}

		d.phase = PhaseIterationComplete
		d.answered = d.answered[:0]
		d.iteration++

		reply, err := d.opts.UI.Ask(iterationPrompt)
		if err != nil {
			if errors.Is(err, model.ErrAborted) {
				return d.Save(ctx)
			}
			return d.fail(ctx, fmt.Errorf("failed to read reply: %w", err))
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "y") {
			return d.Save(ctx)
		}
	}
}

// Save persists the current state. Saving again without grading writes the
// same data.
func (d *Driver) Save(ctx context.Context) error {
	// An interrupt cancels ctx; the final write must still happen.
	ctx = context.WithoutCancel(ctx)
	if err := d.opts.Store.Save(ctx, d.Progress()); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	d.phase = PhaseSaved
	return nil
}

// Progress returns the state Save would write: loaded ranks merged over the
// previously known ranks, with zero ranks pruned.
func (d *Driver) Progress() model.Progress {
	progress := model.NewProgress()
	for id, rank := range d.known {
		if rank > 0 {
			progress.Known[id] = rank
		}
	}
	for _, q := range d.questions {
		if q.Rank > 0 {
			progress.Known[q.ID] = q.Rank
		} else {
			delete(progress.Known, q.ID)
		}
	}
	progress.Iteration = d.iteration
	progress.AnsweredInIteration = append(progress.AnsweredInIteration, d.answered...)
	return progress
}

// Questions returns the loaded questions with their current ranks.
func (d *Driver) Questions() []model.Question {
	out := make([]model.Question, 0, len(d.questions))
	for _, q := range d.questions {
		out = append(out, *q)
	}
	return out
}

// Iteration returns the current iteration counter.
func (d *Driver) Iteration() int {
	return d.iteration
}

func (d *Driver) fail(ctx context.Context, err error) error {
	if serr := d.Save(ctx); serr != nil {
		return errors.Join(err, serr)
	}
	return err
}

func (d *Driver) answeredSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.answered))
	for _, id := range d.answered {
		set[id] = struct{}{}
	}
	return set
}
