// Package model defines shared data structures.
package model

// Config defines study settings.
type Config struct {
	SetsDir      string
	ProgressPath string
	Backend      string
	DelayMs      int
	Policy       string
	Pattern      string
	Seed         int64
}

// Entry is a single record of a question-set file.
type Entry struct {
	ID string `json:"id,omitempty"`
	Q  string `json:"q"`
	A  string `json:"a"`
	R  bool   `json:"r,omitempty"`
}

// Set describes a question-set file below the sets root.
type Set struct {
	// Name is the slash-separated path relative to the sets root, without extension.
	Name  string
	Path  string
	Title string
}

// Question is a loaded, namespaced question with its current rank.
type Question struct {
	ID       string
	Set      string
	Question string
	Answer   string
	Rank     int
	Reversed bool
}

// Progress is the durable study state.
type Progress struct {
	Known               map[string]int `json:"known"`
	Iteration           int            `json:"iteration"`
	AnsweredInIteration []string       `json:"answeredInIteration"`
}

// NewProgress returns the first-run progress state.
func NewProgress() Progress {
	return Progress{
		Known:               map[string]int{},
		AnsweredInIteration: []string{},
	}
}

// Normalize fills absent fields with their defaults.
func (p *Progress) Normalize() {
	if p.Known == nil {
		p.Known = map[string]int{}
	}
	if p.AnsweredInIteration == nil {
		p.AnsweredInIteration = []string{}
	}
	if p.Iteration < 0 {
		p.Iteration = 0
	}
}
