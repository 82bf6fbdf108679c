package grader

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/drill/internal/model"
)

// scriptedTerminal replays replies and records what was shown.
type scriptedTerminal struct {
	replies   []string
	abortAt   int
	asked     []string
	questions []string
	options   [][]string
}

func newTerminal(replies ...string) *scriptedTerminal {
	return &scriptedTerminal{replies: replies, abortAt: -1}
}

func (s *scriptedTerminal) ShowQuestion(question string, options []string) {
	s.questions = append(s.questions, question)
	s.options = append(s.options, append([]string(nil), options...))
}

func (s *scriptedTerminal) Ask(label string) (string, error) {
	s.asked = append(s.asked, label)
	if s.abortAt == len(s.asked)-1 || len(s.replies) == 0 {
		return "", model.ErrAborted
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newGrader(term Terminal, pool []string, opts ...Option) *Grader {
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return New(term, pool, opts...)
}

func TestPolicyModes(t *testing.T) {
	tests := []struct {
		policy Policy
		rank   int
		want   Mode
	}{
		{PolicyTiered, 0, Mode{Options: 4}},
		{PolicyTiered, 1, Mode{Options: 8}},
		{PolicyTiered, 2, Mode{}},
		{PolicyTiered, 9, Mode{}},
		{PolicyThreshold, 0, Mode{Options: 4}},
		{PolicyThreshold, 2, Mode{Options: 4}},
		{PolicyThreshold, 3, Mode{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.Mode(tt.rank), "%s rank %d", tt.policy, tt.rank)
	}
	assert.True(t, Mode{}.FreeResponse())
	assert.False(t, Mode{Options: 4}.FreeResponse())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyTiered, p)

	p, err = ParsePolicy("threshold")
	require.NoError(t, err)
	assert.Equal(t, PolicyThreshold, p)

	_, err = ParsePolicy("random")
	require.Error(t, err)
}

func TestApplyRank(t *testing.T) {
	assert.Equal(t, 1, ApplyRank(0, Correct))
	assert.Equal(t, 4, ApplyRank(3, Correct))
	assert.Equal(t, 2, ApplyRank(3, Wrong))
	assert.Equal(t, 0, ApplyRank(0, Wrong))
	assert.Equal(t, 3, ApplyRank(3, Exit))
}

func TestAnswerPoolDeduplicates(t *testing.T) {
	pool := AnswerPool([]model.Question{
		{Answer: "b"}, {Answer: "a"}, {Answer: "b"}, {Answer: "c"},
	})
	assert.Equal(t, []string{"b", "a", "c"}, pool)
}

func TestOptionsRankBySimilarity(t *testing.T) {
	pool := []string{"elephant", "cat", "Paris", "bat", "cart", "parrot"}
	options := Options("cat", pool, 4)
	require.Len(t, options, 4)
	assert.Equal(t, "cat", options[0])
	assert.Equal(t, []string{"bat", "cart"}, options[1:3])
	assert.NotContains(t, options, "elephant")

	assert.Equal(t, []string{"x"}, Options("x", nil, 4))
	assert.Len(t, Options("cat", pool, 20), len(pool))
	assert.Nil(t, Options("cat", pool, 0))
}

func TestMultipleChoiceAlwaysIncludesAnswer(t *testing.T) {
	pool := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}
	for _, answer := range pool {
		term := newTerminal("0")
		g := newGrader(term, pool)
		_, err := g.MultipleChoice("?", answer, 4)
		require.NoError(t, err)
		require.Len(t, term.options, 1)
		assert.Len(t, term.options[0], 4)
		assert.Contains(t, term.options[0], answer)
	}
}

func TestMultipleChoiceSelection(t *testing.T) {
	pool := []string{"red", "green", "blue", "yellow"}

	// Pick whichever index holds the answer after the shuffle.
	term := newTerminal()
	g := newGrader(term, pool)
	_, err := g.MultipleChoice("sky?", "blue", 4)
	require.NoError(t, err)
	shown := term.options[0]
	correctIdx := -1
	for i, opt := range shown {
		if opt == "blue" {
			correctIdx = i
		}
	}
	require.GreaterOrEqual(t, correctIdx, 0)
	wrongIdx := (correctIdx + 1) % len(shown)

	tests := []struct {
		name  string
		reply string
		want  Outcome
	}{
		{"correct index", itoa(correctIdx), Correct},
		{"padded index", " " + itoa(correctIdx) + " ", Correct},
		{"wrong index", itoa(wrongIdx), Wrong},
		{"out of range", "9", Wrong},
		{"negative", "-1", Wrong},
		{"non numeric", "blue", Wrong},
		{"empty", "", Wrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newTerminal(tt.reply)
			// Same seed, same shuffle.
			g := newGrader(term, pool)
			got, err := g.MultipleChoice("sky?", "blue", 4)
			require.NoError(t, err)
			assert.Equal(t, shown, term.options[0])
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultipleChoiceAbort(t *testing.T) {
	term := newTerminal()
	g := newGrader(term, []string{"a", "b"})
	got, err := g.MultipleChoice("?", "a", 4)
	require.NoError(t, err)
	assert.Equal(t, Exit, got)
}

func TestFreeResponseExactMatch(t *testing.T) {
	term := newTerminal("photosynthesis")
	g := newGrader(term, nil)
	got, err := g.FreeResponse("process?", "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, Correct, got)
	assert.Equal(t, []string{"A: "}, term.asked)
	assert.Nil(t, term.options[0])
}

func TestFreeResponseNearMissConfirms(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		confirm string
		want    Outcome
	}{
		{"distance one accepted", "photosynthesys", "y", Correct},
		{"distance two accepted", "fotosynthesis", "yes", Correct},
		{"other reply accepted", "photosynthesys", "sure", Correct},
		{"declined", "photosynthesys", "n", Wrong},
		{"declined upper", "photosynthesys", "No", Wrong},
		{"empty defaults to no", "photosynthesys", "", Wrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newTerminal(tt.reply, tt.confirm)
			g := newGrader(term, nil)
			got, err := g.FreeResponse("process?", "photosynthesis")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, term.asked, 2)
			assert.Equal(t, "Is your answer photosynthesis? ", term.asked[1])
		})
	}
}

func TestFreeResponseFarMissNoPrompt(t *testing.T) {
	for _, reply := range []string{"chlorophyll", "photo", "", "PHOTOSYNTHESIS"} {
		term := newTerminal(reply)
		g := newGrader(term, nil)
		got, err := g.FreeResponse("process?", "photosynthesis")
		require.NoError(t, err)
		assert.Equal(t, Wrong, got, reply)
		assert.Len(t, term.asked, 1, reply)
	}
}

func TestFreeResponseAbort(t *testing.T) {
	term := newTerminal()
	g := newGrader(term, nil)
	got, err := g.FreeResponse("?", "x")
	require.NoError(t, err)
	assert.Equal(t, Exit, got)

	term = newTerminal("abd")
	g = newGrader(term, nil)
	got, err = g.FreeResponse("?", "abc")
	require.NoError(t, err)
	assert.Equal(t, Exit, got, "abort at confirmation")
}

func TestNearMissThresholdOption(t *testing.T) {
	term := newTerminal("abd")
	g := newGrader(term, nil, WithNearMiss(1))
	got, err := g.FreeResponse("?", "abc")
	require.NoError(t, err)
	assert.Equal(t, Wrong, got)
	assert.Len(t, term.asked, 1)
}

func TestGradeDispatchesByRank(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}

	term := newTerminal("")
	_, err := newGrader(term, pool).Grade(model.Question{Question: "q", Answer: "a", Rank: 0})
	require.NoError(t, err)
	assert.Len(t, term.options[0], 4)

	term = newTerminal("")
	_, err = newGrader(term, pool).Grade(model.Question{Question: "q", Answer: "a", Rank: 1})
	require.NoError(t, err)
	assert.Len(t, term.options[0], 8)

	term = newTerminal("a")
	got, err := newGrader(term, pool).Grade(model.Question{Question: "q", Answer: "a", Rank: 2})
	require.NoError(t, err)
	assert.Equal(t, Correct, got)
	assert.Equal(t, []string{"A: "}, term.asked)
}

type failingTerminal struct{ scriptedTerminal }

func (f *failingTerminal) Ask(string) (string, error) { return "", errors.New("broken pipe") }

func TestAskErrorPropagates(t *testing.T) {
	g := newGrader(&failingTerminal{}, []string{"a"})
	_, err := g.MultipleChoice("?", "a", 4)
	require.Error(t, err)
	_, err = g.FreeResponse("?", "a")
	require.Error(t, err)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance("kitten", "kitten"))
	assert.Equal(t, 3, Distance("kitten", "sitting"))
	assert.Equal(t, 1, Distance("café", "cafe"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "correct", Correct.String())
	assert.Equal(t, "wrong", Wrong.String())
	assert.Equal(t, "exit", Exit.String())
}

func itoa(i int) string {
	return string(rune('0' + i))
}
