package sets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/drill/internal/model"
)

// ErrDuplicateID reports two entries of one set resolving to the same id.
var ErrDuplicateID = errors.New("drill: duplicate question id")

const reversedSuffix = "_R"

// LoadAll reads every set concurrently and merges the questions in set order.
// The first failing set aborts the load.
func LoadAll(ctx context.Context, sets []model.Set) ([]model.Question, error) {
	results := make([][]model.Question, len(sets))
	g, ctx := errgroup.WithContext(ctx)
	for i, set := range sets {
		i, set := i, set
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			questions, err := LoadSet(set)
			if err != nil {
				return err
			}
			results[i] = questions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Question
	for _, questions := range results {
		merged = append(merged, questions...)
	}
	return merged, nil
}

// LoadSet reads and parses a single set file.
func LoadSet(set model.Set) ([]model.Question, error) {
	data, err := os.ReadFile(set.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read set %s: %w", set.Path, err)
	}
	questions, err := Parse(set.Name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load set %s: %w", set.Path, err)
	}
	return questions, nil
}

// Parse decodes set file contents into namespaced questions. Entries without an id
// get "Q<index>"; reversible entries gain a swapped "<id>_R" question appended
// after all original entries.
func Parse(setName string, data []byte) ([]model.Question, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode set: %w", err)
	}

	questions := make([]model.Question, 0, len(entries))
	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("Q%d", i)
		}
		questions = append(questions, model.Question{
			ID:       setName + "/" + id,
			Set:      setName,
			Question: e.Q,
			Answer:   e.A,
		})
	}
	for i, e := range entries {
		if !e.R {
			continue
		}
		original := questions[i]
		questions = append(questions, model.Question{
			ID:       original.ID + reversedSuffix,
			Set:      setName,
			Question: original.Answer,
			Answer:   original.Question,
			Reversed: true,
		})
	}

	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return questions, nil
}
